package auth

import (
	"context"
	"errors"
	"testing"
)

func newSeedFixture() *fakeStore {
	return &fakeStore{
		accounts: fakeAccountStore{byEmail: map[string]*Account{}},
	}
}

func TestSeedMasterCreatesMaster(t *testing.T) {
	store := newSeedFixture()
	hasher := NewHasher(1)

	account, err := SeedMaster(context.Background(), store, hasher,
		"Platform Root", "Root@TechFlow.app", "a-valid-password")
	if err != nil {
		t.Fatalf("SeedMaster: %v", err)
	}
	if account.Role != RoleMaster {
		t.Errorf("role = %q", account.Role)
	}
	if account.EnterpriseID != nil {
		t.Error("master account carries an enterprise reference")
	}
	if account.Email != "root@techflow.app" {
		t.Errorf("email = %q, want normalized", account.Email)
	}
	if !account.Consistent() {
		t.Error("seeded account is inconsistent")
	}
	if account.PasswordHash != "" {
		t.Error("password hash leaked in the returned record")
	}

	if len(store.accounts.created) != 1 {
		t.Fatalf("created %d accounts", len(store.accounts.created))
	}
	stored := store.accounts.created[0]
	match, err := hasher.Verify(context.Background(), stored.PasswordHash, "a-valid-password")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !match {
		t.Error("seeded password does not verify")
	}
}

func TestSeedMasterCanLogin(t *testing.T) {
	store := newSeedFixture()
	hasher := NewHasher(1)

	if _, err := SeedMaster(context.Background(), store, hasher,
		"Platform Root", "root@techflow.app", "a-valid-password"); err != nil {
		t.Fatalf("SeedMaster: %v", err)
	}
	// Make the seeded row visible to the login lookup.
	stored := store.accounts.created[0]
	store.accounts.byEmail[stored.Email] = stored

	tokens, err := NewTokenIssuer(testSecret)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	svc, err := NewService(store, hasher, tokens, quietLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svc.Login(context.Background(), LoginRequest{
		Email:    "root@techflow.app",
		Password: "a-valid-password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Role != RoleMaster {
		t.Errorf("role = %q", claims.Role)
	}
	if claims.EnterpriseID != nil {
		t.Error("master token carries an enterprise claim")
	}
}

func TestSeedMasterExistingEmail(t *testing.T) {
	store := newSeedFixture()
	store.accounts.byEmail["root@techflow.app"] = &Account{ID: "x"}

	_, err := SeedMaster(context.Background(), store, NewHasher(1),
		"Platform Root", "root@techflow.app", "a-valid-password")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSeedMasterValidation(t *testing.T) {
	store := newSeedFixture()
	hasher := NewHasher(1)

	cases := []struct {
		name            string
		accountName     string
		email, password string
	}{
		{"short name", "ab", "root@techflow.app", "a-valid-password"},
		{"bad email", "Platform Root", "not-an-email", "a-valid-password"},
		{"short password", "Platform Root", "root@techflow.app", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SeedMaster(context.Background(), store, hasher, tc.accountName, tc.email, tc.password)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
