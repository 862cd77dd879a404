package auth

import "errors"

var (
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrNotFound           = errors.New("auth: not found")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrUnauthenticated    = errors.New("auth: unauthenticated")
	ErrForbidden          = errors.New("auth: forbidden")
	ErrConflict           = errors.New("auth: resource conflict")
	ErrAuthUnavailable    = errors.New("auth: authentication unavailable")
	ErrOnboarding         = errors.New("auth: onboarding failed")

	// ErrHashFormat is returned only when a stored digest is structurally
	// invalid; a plain password mismatch is reported as (false, nil).
	ErrHashFormat = errors.New("auth: malformed password digest")
)
