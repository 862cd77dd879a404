package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"techflow.app/internal/ids"
)

// Service orchestrates login and registration. It owns the only code paths
// allowed to see password hashes or plaintext passwords; neither ever
// reaches a log line or an HTTP response.
type Service struct {
	store  Store
	hasher *Hasher
	tokens *TokenIssuer
	log    *logrus.Logger
}

// NewService wires the authentication orchestrator.
func NewService(store Store, hasher *Hasher, tokens *TokenIssuer, log *logrus.Logger) (*Service, error) {
	if store == nil || hasher == nil || tokens == nil {
		return nil, errors.New("auth: store, hasher and token issuer are required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, hasher: hasher, tokens: tokens, log: log}, nil
}

// LoginRequest carries the credential payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login walks payload check -> lookup -> password check -> claim build ->
// issue, failing with a classified error at every stage. Unexpected
// failures are logged here and reclassified as ErrAuthUnavailable so the
// underlying cause never leaks to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	if req.Email == "" && req.Password == "" {
		return "", fmt.Errorf("%w: request payload is empty", ErrInvalidInput)
	}
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return "", err
	}

	account, err := s.store.Accounts().FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: no account registered with this email", ErrNotFound)
		}
		s.log.WithError(err).WithField("op", "auth.login").Error("account lookup failed")
		return "", ErrAuthUnavailable
	}

	match, err := s.hasher.Verify(ctx, account.PasswordHash, req.Password)
	if err != nil {
		// A corrupt stored digest is an operational fault, not a caller
		// mistake; classify as unavailable and keep the cause internal.
		s.log.WithError(err).WithFields(logrus.Fields{
			"op":         "auth.login",
			"account_id": account.ID,
		}).Error("password verification failed")
		return "", ErrAuthUnavailable
	}
	if !match {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"op":         "auth.login",
			"account_id": account.ID,
		}).Error("claim build failed")
		return "", ErrAuthUnavailable
	}
	return token, nil
}

// ChangePasswordRequest carries a password rotation payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword rotates the password of the account identified by email.
// The current password must verify first; both plaintexts stay inside this
// call.
func (s *Service) ChangePassword(ctx context.Context, email string, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fmt.Errorf("%w: current and new password are required", ErrInvalidInput)
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	if req.NewPassword == req.CurrentPassword {
		return fmt.Errorf("%w: new password must differ from the current one", ErrInvalidInput)
	}

	account, err := s.store.Accounts().FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		s.log.WithError(err).WithField("op", "auth.change_password").Error("account lookup failed")
		return ErrAuthUnavailable
	}

	match, err := s.hasher.Verify(ctx, account.PasswordHash, req.CurrentPassword)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"op":         "auth.change_password",
			"account_id": account.ID,
		}).Error("password verification failed")
		return ErrAuthUnavailable
	}
	if !match {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.Accounts().UpdatePassword(ctx, account.ID, hash); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"op":         "auth.change_password",
			"account_id": account.ID,
		}).Error("password update failed")
		return ErrAuthUnavailable
	}
	return nil
}

// RegisterRequest carries a self-registration payload. The enterprise is
// identified by CNPJ, matching the invite links tenants hand out.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role,omitempty"`
	EnterpriseCNPJ string `json:"enterprise_cnpj"`
}

// Register validates uniqueness, hashes the password and persists the new
// account. The plaintext password is gone before anything is stored or
// logged.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	if req == (RegisterRequest{}) {
		return nil, fmt.Errorf("%w: request payload is empty", ErrInvalidInput)
	}
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Name) < 3 || len(req.Name) > 80 {
		return nil, fmt.Errorf("%w: name must be 3-80 characters", ErrInvalidInput)
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	role := RoleClientViewer
	if req.Role != "" {
		if role, err = ParseRole(req.Role); err != nil {
			return nil, err
		}
	}
	if role == RoleMaster {
		return nil, fmt.Errorf("%w: master accounts cannot self-register", ErrForbidden)
	}

	cnpj, err := NormalizeCNPJ(req.EnterpriseCNPJ)
	if err != nil {
		return nil, err
	}
	enterprise, err := s.store.Enterprises().FindByCNPJ(ctx, cnpj)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no enterprise with cnpj %s", ErrNotFound, cnpj)
		}
		return nil, err
	}

	exists, err := s.store.Accounts().EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:           ids.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		EnterpriseID: &enterprise.ID,
		Active:       true,
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		s.log.WithError(err).WithFields(logrus.Fields{
			"op":    "auth.register",
			"email": email,
		}).Error("account creation failed")
		return nil, ErrAuthUnavailable
	}
	account.PasswordHash = ""
	return account, nil
}
