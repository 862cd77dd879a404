package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"techflow.app/internal/ids"
)

// Onboarding creates an enterprise and its first administrator as one
// indivisible unit.
type Onboarding struct {
	store  Store
	hasher *Hasher
	log    *logrus.Logger
}

// NewOnboarding wires the tenant onboarding orchestrator.
func NewOnboarding(store Store, hasher *Hasher, log *logrus.Logger) (*Onboarding, error) {
	if store == nil || hasher == nil {
		return nil, errors.New("auth: store and hasher are required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Onboarding{store: store, hasher: hasher, log: log}, nil
}

// OnboardRequest carries the tenant plus first-admin payload.
type OnboardRequest struct {
	EnterpriseName string `json:"enterprise_name"`
	CNPJ           string `json:"cnpj"`
	Slug           string `json:"slug"`
	LogoURL        string `json:"logo_url,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	AdminName      string `json:"admin_name"`
	AdminEmail     string `json:"admin_email"`
	AdminPassword  string `json:"admin_password"`
}

// OnboardResponse combines fields from the new enterprise and its admin.
type OnboardResponse struct {
	EnterpriseID   string    `json:"enterprise_id"`
	EnterpriseName string    `json:"enterprise_name"`
	CNPJ           string    `json:"cnpj"`
	Slug           string    `json:"slug"`
	LogoURL        string    `json:"logo_url,omitempty"`
	PrimaryColor   string    `json:"primary_color"`
	Active         bool      `json:"active"`
	AdminID        string    `json:"admin_id"`
	AdminName      string    `json:"admin_name"`
	AdminEmail     string    `json:"admin_email"`
	CreatedAt      time.Time `json:"created_at"`
}

// Onboard runs advisory pre-checks, hashes the admin password outside the
// transaction, then writes both rows atomically. The store's uniqueness
// enforcement is the authoritative race detector; the pre-checks only
// exist to fail fast with a friendlier message.
func (o *Onboarding) Onboard(ctx context.Context, req OnboardRequest) (*OnboardResponse, error) {
	enterprise, admin, err := o.buildRecords(req)
	if err != nil {
		return nil, err
	}

	if err := o.precheck(ctx, enterprise, admin); err != nil {
		return nil, err
	}

	// Hash before opening the transaction so the two inserts hold it for
	// as little time as possible.
	hash, err := o.hasher.Hash(ctx, req.AdminPassword)
	if err != nil {
		return nil, err
	}
	admin.PasswordHash = hash

	if err := o.store.Onboarding().CreateEnterpriseAndAdmin(ctx, enterprise, admin); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: cnpj, slug or email already registered", ErrConflict)
		}
		o.log.WithError(err).WithFields(logrus.Fields{
			"op":   "auth.onboard",
			"cnpj": enterprise.CNPJ,
			"slug": enterprise.Slug,
		}).Error("onboarding transaction failed")
		return nil, ErrOnboarding
	}

	return &OnboardResponse{
		EnterpriseID:   enterprise.ID,
		EnterpriseName: enterprise.Name,
		CNPJ:           enterprise.CNPJ,
		Slug:           enterprise.Slug,
		LogoURL:        enterprise.LogoURL,
		PrimaryColor:   enterprise.PrimaryColor,
		Active:         enterprise.Active,
		AdminID:        admin.ID,
		AdminName:      admin.Name,
		AdminEmail:     admin.Email,
		CreatedAt:      admin.CreatedAt,
	}, nil
}

func (o *Onboarding) buildRecords(req OnboardRequest) (*Enterprise, *Account, error) {
	name := strings.TrimSpace(req.EnterpriseName)
	if len(name) < 3 || len(name) > 100 {
		return nil, nil, fmt.Errorf("%w: enterprise name must be 3-100 characters", ErrInvalidInput)
	}
	cnpj, err := NormalizeCNPJ(req.CNPJ)
	if err != nil {
		return nil, nil, err
	}
	slug := strings.TrimSpace(req.Slug)
	if err := ValidateSlug(slug); err != nil {
		return nil, nil, err
	}
	adminName := strings.TrimSpace(req.AdminName)
	if len(adminName) < 3 || len(adminName) > 80 {
		return nil, nil, fmt.Errorf("%w: admin name must be 3-80 characters", ErrInvalidInput)
	}
	email, err := NormalizeEmail(req.AdminEmail)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidatePassword(req.AdminPassword); err != nil {
		return nil, nil, err
	}

	color := strings.TrimSpace(req.PrimaryColor)
	if color == "" {
		color = "#000000"
	}

	enterprise := &Enterprise{
		ID:           ids.New(),
		Name:         name,
		CNPJ:         cnpj,
		Slug:         slug,
		LogoURL:      strings.TrimSpace(req.LogoURL),
		PrimaryColor: color,
		Active:       true,
	}
	admin := &Account{
		ID:           ids.New(),
		Name:         adminName,
		Email:        email,
		Role:         RoleClientAdmin,
		EnterpriseID: &enterprise.ID,
		Active:       true,
	}
	return enterprise, admin, nil
}

func (o *Onboarding) precheck(ctx context.Context, enterprise *Enterprise, admin *Account) error {
	if exists, err := o.store.Accounts().EmailExists(ctx, admin.Email); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if _, err := o.store.Enterprises().FindByCNPJ(ctx, enterprise.CNPJ); err == nil {
		return fmt.Errorf("%w: cnpj already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if exists, err := o.store.Enterprises().SlugExists(ctx, enterprise.Slug); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("%w: slug already registered", ErrConflict)
	}
	return nil
}
