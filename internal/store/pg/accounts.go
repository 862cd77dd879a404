package pg

import (
	"context"
	"database/sql"
	"errors"

	"techflow.app/internal/auth"
)

type accountStore Store

const accountColumns = `id, name, email, role, enterprise_id, is_active, created_at, updated_at`

func (s *accountStore) Create(ctx context.Context, account *auth.Account) error {
	err := s.db.QueryRowContext(ctx, `
		insert into accounts (id, name, email, password_hash, role, enterprise_id, is_active)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning created_at, updated_at
	`, account.ID, account.Name, account.Email, account.PasswordHash,
		string(account.Role), account.EnterpriseID, account.Active,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s *accountStore) Find(ctx context.Context, id string) (*auth.Account, error) {
	row := s.db.QueryRowContext(ctx, `select `+accountColumns+` from accounts where id = $1`, id)
	return scanAccount(row)
}

func (s *accountStore) FindByEmailWithPassword(ctx context.Context, email string) (*auth.Account, error) {
	var (
		account auth.Account
		role    string
	)
	err := s.db.QueryRowContext(ctx, `
		select id, name, email, password_hash, role, enterprise_id, is_active, created_at, updated_at
		from accounts where lower(email) = lower($1)
	`, email).Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash,
		&role, &account.EnterpriseID, &account.Active, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	account.Role = auth.Role(role)
	return &account, nil
}

func (s *accountStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from accounts where lower(email) = lower($1))`, email,
	).Scan(&exists)
	return exists, err
}

func (s *accountStore) List(ctx context.Context) ([]*auth.Account, error) {
	rows, err := s.db.QueryContext(ctx, `select `+accountColumns+` from accounts order by created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*auth.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}

func (s *accountStore) Update(ctx context.Context, account *auth.Account) error {
	err := s.db.QueryRowContext(ctx, `
		update accounts
		set name = $2, email = $3, role = $4, is_active = $5, updated_at = now()
		where id = $1
		returning updated_at
	`, account.ID, account.Name, account.Email, string(account.Role), account.Active,
	).Scan(&account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.ErrNotFound
	}
	if isUniqueViolation(err) {
		return auth.ErrConflict
	}
	return err
}

func (s *accountStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update accounts set password_hash = $2, updated_at = now() where id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (s *accountStore) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`update accounts set is_active = $2, updated_at = now() where id = $1`, id, active)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*auth.Account, error) {
	var (
		account auth.Account
		role    string
	)
	err := row.Scan(&account.ID, &account.Name, &account.Email, &role,
		&account.EnterpriseID, &account.Active, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	account.Role = auth.Role(role)
	return &account, nil
}
