package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Session tokens are valid for exactly one week from issuance.
	TokenTTL = 7 * 24 * time.Hour

	defaultIssuer   = "techflow"
	defaultAudience = "techflow-clients"
)

// Claims is the decoded content of a session token. EnterpriseID is null
// if and only if the subject holds the MASTER role.
type Claims struct {
	Email        string  `json:"email"`
	Role         Role    `json:"role"`
	EnterpriseID *string `json:"enterprise,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer builds and parses signed session tokens using a symmetric
// secret held in process configuration.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// TokenOption configures a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithIssuer overrides the iss claim default.
func WithIssuer(issuer string) TokenOption {
	return func(t *TokenIssuer) {
		if issuer = strings.TrimSpace(issuer); issuer != "" {
			t.issuer = issuer
		}
	}
}

// WithAudience overrides the aud claim default.
func WithAudience(audience string) TokenOption {
	return func(t *TokenIssuer) {
		if audience = strings.TrimSpace(audience); audience != "" {
			t.audience = audience
		}
	}
}

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTokenIssuer constructs a TokenIssuer signing with secret (HS256).
func NewTokenIssuer(secret string, opts ...TokenOption) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is not configured")
	}
	issuer := &TokenIssuer{
		secret:   []byte(secret),
		issuer:   defaultIssuer,
		audience: defaultAudience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// Issue signs the account's session claims. A fresh jti is minted on every
// call; it is carried for future revocation support but no blocklist is
// consulted today.
func (t *TokenIssuer) Issue(account *Account) (string, error) {
	if account == nil || account.ID == "" {
		return "", fmt.Errorf("%w: account is required", ErrInvalidInput)
	}
	if !account.Consistent() {
		return "", fmt.Errorf("%w: role %q and enterprise reference disagree", ErrInvalidInput, account.Role)
	}

	now := t.now().UTC()
	claims := Claims{
		Email:        account.Email,
		Role:         account.Role,
		EnterpriseID: account.EnterpriseID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature integrity and expiry and returns the decoded
// claims. Every failure mode collapses to ErrInvalidToken.
func (t *TokenIssuer) Validate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	// MASTER tokens carry no enterprise; everyone else must.
	if claims.Role.RequiresEnterprise() != (claims.EnterpriseID != nil && *claims.EnterpriseID != "") {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
