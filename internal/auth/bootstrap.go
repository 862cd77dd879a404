package auth

import (
	"context"
	"fmt"
	"strings"

	"techflow.app/internal/ids"
)

// SeedMaster creates the platform MASTER account. Self-registration and
// invites can only produce tenant roles, so this is the sole path that
// mints a MASTER; it is meant to run once at deployment time from the
// migrate CLI. Seeding an email that already exists reports ErrConflict
// so repeated runs stay safe.
func SeedMaster(ctx context.Context, store Store, hasher *Hasher, name, email, password string) (*Account, error) {
	if store == nil || hasher == nil {
		return nil, fmt.Errorf("%w: store and hasher are required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if len(name) < 3 || len(name) > 80 {
		return nil, fmt.Errorf("%w: name must be 3-80 characters", ErrInvalidInput)
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	exists, err := store.Accounts().EmailExists(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:           ids.New(),
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
		Role:         RoleMaster,
		Active:       true,
	}
	if err := store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}
	account.PasswordHash = ""
	return account, nil
}
