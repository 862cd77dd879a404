package auth

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Account is an identity record. PasswordHash is populated only by the
// lookup used for login; every other read leaves it empty.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	EnterpriseID *string   `json:"enterprise_id,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Consistent reports whether the role / enterprise-reference combination is
// internally valid: MASTER has no enterprise, everyone else has one.
func (a *Account) Consistent() bool {
	if !a.Role.Valid() {
		return false
	}
	if a.Role.RequiresEnterprise() {
		return a.EnterpriseID != nil && *a.EnterpriseID != ""
	}
	return a.EnterpriseID == nil
}

// Enterprise is the multi-tenancy boundary.
type Enterprise struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CNPJ         string    `json:"cnpj"`
	Slug         string    `json:"slug"`
	LogoURL      string    `json:"logo_url,omitempty"`
	PrimaryColor string    `json:"primary_color"`
	MonthlyGoal  float64   `json:"monthly_goal"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	nonDigits = regexp.MustCompile(`\D`)
	slugRe    = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)
)

// NormalizeCNPJ strips punctuation and validates length. The canonical
// stored form is digits only; comparisons always run on the normalized
// value.
func NormalizeCNPJ(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(raw), "")
	if len(digits) != 14 {
		return "", fmt.Errorf("%w: cnpj must contain 14 digits", ErrInvalidInput)
	}
	return digits, nil
}

// ValidateSlug checks the URL-safe tenant identifier.
func ValidateSlug(slug string) error {
	if !slugRe.MatchString(slug) {
		return fmt.Errorf("%w: slug must match [a-z0-9-], 3-50 chars", ErrInvalidInput)
	}
	return nil
}

const (
	passwordMinLen = 12
	passwordMaxLen = 72
)

// ValidatePassword enforces the platform password policy.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidInput, passwordMinLen, passwordMaxLen)
	}
	return nil
}

// NormalizeEmail lower-cases and trims; emails are unique
// case-insensitively.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !strings.Contains(email, "@") || len(email) > 254 {
		return "", fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	return email, nil
}
