package pg

import (
	"context"

	"techflow.app/internal/auth"
)

type onboardingStore Store

// CreateEnterpriseAndAdmin writes the tenant and its first administrator in
// one transaction. The enterprise insert is strictly ordered before the
// account insert because the account references the enterprise row. Any
// failure rolls back both writes; a unique-constraint violation surfaces as
// ErrConflict since the database is the authoritative race detector; the
// service-level pre-checks are advisory only.
func (s *onboardingStore) CreateEnterpriseAndAdmin(ctx context.Context, enterprise *auth.Enterprise, admin *auth.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx, `
		insert into enterprises (id, name, cnpj, slug, logo_url, primary_color, is_active)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning monthly_goal, created_at, updated_at
	`, enterprise.ID, enterprise.Name, enterprise.CNPJ, enterprise.Slug,
		nullable(enterprise.LogoURL), enterprise.PrimaryColor, enterprise.Active,
	).Scan(&enterprise.MonthlyGoal, &enterprise.CreatedAt, &enterprise.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return auth.ErrConflict
		}
		return err
	}

	if err := tx.QueryRowContext(ctx, `
		insert into accounts (id, name, email, password_hash, role, enterprise_id, is_active)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning created_at, updated_at
	`, admin.ID, admin.Name, admin.Email, admin.PasswordHash,
		string(admin.Role), admin.EnterpriseID, admin.Active,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return auth.ErrConflict
		}
		return err
	}

	return tx.Commit()
}
