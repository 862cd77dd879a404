package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-that-is-long-enough"

func testAccount() *Account {
	enterpriseID := "01J0000000000000000000ENT1"
	return &Account{
		ID:           "01J0000000000000000000ACC1",
		Name:         "Ana Souza",
		Email:        "ana@techflow.app",
		Role:         RoleClientAdmin,
		EnterpriseID: &enterpriseID,
		Active:       true,
	}
}

func TestIssueValidateRoundtrip(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer(testSecret, WithClock(func() time.Time { return issued }))
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	account := testAccount()
	token, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != account.ID {
		t.Errorf("sub = %q, want %q", claims.Subject, account.ID)
	}
	if claims.Email != account.Email {
		t.Errorf("email = %q, want %q", claims.Email, account.Email)
	}
	if claims.Role != RoleClientAdmin {
		t.Errorf("role = %q, want %q", claims.Role, RoleClientAdmin)
	}
	if claims.EnterpriseID == nil || *claims.EnterpriseID != *account.EnterpriseID {
		t.Errorf("enterprise = %v, want %q", claims.EnterpriseID, *account.EnterpriseID)
	}
	if claims.ID == "" {
		t.Error("jti is empty")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != TokenTTL {
		t.Errorf("lifetime = %v, want %v", got, TokenTTL)
	}
	if !claims.IssuedAt.Time.Equal(issued) {
		t.Errorf("iat = %v, want %v", claims.IssuedAt.Time, issued)
	}
}

func TestMasterTokenCarriesNoEnterprise(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	master := &Account{ID: "01J0000000000000000000MST1", Email: "root@techflow.app", Role: RoleMaster}

	token, err := issuer.Issue(master)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.EnterpriseID != nil {
		t.Errorf("master token carries enterprise %q", *claims.EnterpriseID)
	}
}

func TestIssueInconsistentAccount(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret)

	// MASTER with an enterprise reference.
	enterpriseID := "01J0000000000000000000ENT1"
	bad := &Account{ID: "x", Email: "x@y.z", Role: RoleMaster, EnterpriseID: &enterpriseID}
	if _, err := issuer.Issue(bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Tenant role without one.
	bad = &Account{ID: "x", Email: "x@y.z", Role: RoleClientViewer}
	if _, err := issuer.Issue(bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateTamperedSignature(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret)
	token, err := issuer.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := issuer.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret)
	other, _ := NewTokenIssuer("a-completely-different-secret")

	token, err := other.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	issuer, _ := NewTokenIssuer(testSecret, WithClock(func() time.Time { return *clock }))

	token, err := issuer.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Still valid just inside the window.
	later := now.Add(TokenTTL - time.Minute)
	clock = &later
	if _, err := issuer.Validate(token); err != nil {
		t.Fatalf("token rejected inside validity window: %v", err)
	}

	// Rejected just past it.
	expired := now.Add(TokenTTL + time.Minute)
	clock = &expired
	if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestValidateRejectsUnsigned(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret)

	claims := Claims{
		Email: "ana@techflow.app",
		Role:  RoleMaster,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "techflow",
			Subject:   "01J0000000000000000000ACC1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := issuer.Validate(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateEnterpriseClaimConsistency(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret)

	mint := func(c Claims) string {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return signed
	}
	base := jwt.RegisteredClaims{
		Issuer:    "techflow",
		Subject:   "01J0000000000000000000ACC1",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	enterpriseID := "01J0000000000000000000ENT1"

	// MASTER with an enterprise claim.
	token := mint(Claims{Role: RoleMaster, EnterpriseID: &enterpriseID, RegisteredClaims: base})
	if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("master token with enterprise accepted: %v", err)
	}

	// Tenant role without one.
	token = mint(Claims{Role: RoleClientViewer, RegisteredClaims: base})
	if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tenant token without enterprise accepted: %v", err)
	}

	// Unknown role.
	token = mint(Claims{Role: Role("SUPERUSER"), RegisteredClaims: base})
	if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token with unknown role accepted: %v", err)
	}
}
