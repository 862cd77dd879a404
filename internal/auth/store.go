package auth

import "context"

// AccountStore manages identity records.
type AccountStore interface {
	Create(ctx context.Context, account *Account) error
	Find(ctx context.Context, id string) (*Account, error)
	// FindByEmailWithPassword is the only read that returns the password
	// hash; it exists solely for the login path.
	FindByEmailWithPassword(ctx context.Context, email string) (*Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*Account, error)
	Update(ctx context.Context, account *Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
}

// EnterpriseStore manages tenants.
type EnterpriseStore interface {
	Create(ctx context.Context, enterprise *Enterprise) error
	Find(ctx context.Context, id string) (*Enterprise, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*Enterprise, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]*Enterprise, error)
	UpdateGoal(ctx context.Context, id string, goal float64) (*Enterprise, error)
}

// OnboardingStore creates a tenant and its first administrator as one
// atomic unit. Implementations must guarantee that either both rows exist
// after the call or neither does, and must surface uniqueness violations
// as ErrConflict.
type OnboardingStore interface {
	CreateEnterpriseAndAdmin(ctx context.Context, enterprise *Enterprise, admin *Account) error
}

// Store bundles the persistence surface the auth subsystem needs.
type Store interface {
	Accounts() AccountStore
	Enterprises() EnterpriseStore
	Onboarding() OnboardingStore
}
