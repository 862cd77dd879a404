package pg

import (
	"context"
	"database/sql"
	"errors"

	"techflow.app/internal/auth"
	"techflow.app/internal/leads"
)

const leadColumns = `id, enterprise_id, name, email, phone, source, status, created_at, updated_at`

func (s *Store) CreateLead(ctx context.Context, lead *leads.Lead) error {
	err := s.db.QueryRowContext(ctx, `
		insert into leads (id, enterprise_id, name, email, phone, source, status)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning created_at, updated_at
	`, lead.ID, lead.EnterpriseID, lead.Name, lead.Email,
		nullable(lead.Phone), nullable(lead.Source), lead.Status,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if isUniqueViolation(err) {
		return auth.ErrConflict
	}
	return err
}

func (s *Store) ListLeads(ctx context.Context, enterpriseID string) ([]*leads.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+leadColumns+` from leads where enterprise_id = $1 order by created_at desc`, enterpriseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*leads.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func (s *Store) GetLead(ctx context.Context, id string) (*leads.Lead, error) {
	row := s.db.QueryRowContext(ctx, `select `+leadColumns+` from leads where id = $1`, id)
	return scanLead(row)
}

func (s *Store) UpdateLeadStatus(ctx context.Context, id, status string) (*leads.Lead, error) {
	row := s.db.QueryRowContext(ctx, `
		update leads set status = $2, updated_at = now()
		where id = $1
		returning `+leadColumns, id, status)
	return scanLead(row)
}

func scanLead(row rowScanner) (*leads.Lead, error) {
	var (
		lead   leads.Lead
		phone  sql.NullString
		source sql.NullString
	)
	err := row.Scan(&lead.ID, &lead.EnterpriseID, &lead.Name, &lead.Email,
		&phone, &source, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	lead.Phone = phone.String
	lead.Source = source.String
	return &lead, nil
}
