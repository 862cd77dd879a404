package pg

import (
	"context"
	"database/sql"
	"errors"

	"techflow.app/internal/auth"
)

type enterpriseStore Store

const enterpriseColumns = `id, name, cnpj, slug, logo_url, primary_color, monthly_goal, is_active, created_at, updated_at`

func (s *enterpriseStore) Create(ctx context.Context, enterprise *auth.Enterprise) error {
	err := s.db.QueryRowContext(ctx, `
		insert into enterprises (id, name, cnpj, slug, logo_url, primary_color, is_active)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning monthly_goal, created_at, updated_at
	`, enterprise.ID, enterprise.Name, enterprise.CNPJ, enterprise.Slug,
		nullable(enterprise.LogoURL), enterprise.PrimaryColor, enterprise.Active,
	).Scan(&enterprise.MonthlyGoal, &enterprise.CreatedAt, &enterprise.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s *enterpriseStore) Find(ctx context.Context, id string) (*auth.Enterprise, error) {
	row := s.db.QueryRowContext(ctx, `select `+enterpriseColumns+` from enterprises where id = $1`, id)
	return scanEnterprise(row)
}

func (s *enterpriseStore) FindByCNPJ(ctx context.Context, cnpj string) (*auth.Enterprise, error) {
	row := s.db.QueryRowContext(ctx, `select `+enterpriseColumns+` from enterprises where cnpj = $1`, cnpj)
	return scanEnterprise(row)
}

func (s *enterpriseStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from enterprises where slug = $1)`, slug,
	).Scan(&exists)
	return exists, err
}

func (s *enterpriseStore) List(ctx context.Context) ([]*auth.Enterprise, error) {
	rows, err := s.db.QueryContext(ctx, `select `+enterpriseColumns+` from enterprises order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*auth.Enterprise
	for rows.Next() {
		enterprise, err := scanEnterprise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, enterprise)
	}
	return result, rows.Err()
}

func (s *enterpriseStore) UpdateGoal(ctx context.Context, id string, goal float64) (*auth.Enterprise, error) {
	row := s.db.QueryRowContext(ctx, `
		update enterprises set monthly_goal = $2, updated_at = now()
		where id = $1
		returning `+enterpriseColumns, id, goal)
	return scanEnterprise(row)
}

func scanEnterprise(row rowScanner) (*auth.Enterprise, error) {
	var (
		enterprise auth.Enterprise
		logoURL    sql.NullString
	)
	err := row.Scan(&enterprise.ID, &enterprise.Name, &enterprise.CNPJ, &enterprise.Slug,
		&logoURL, &enterprise.PrimaryColor, &enterprise.MonthlyGoal, &enterprise.Active,
		&enterprise.CreatedAt, &enterprise.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if logoURL.Valid {
		enterprise.LogoURL = logoURL.String
	}
	return &enterprise, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
