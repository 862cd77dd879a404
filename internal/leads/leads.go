// Package leads holds tenant-scoped lead capture. It is deliberately thin:
// its main job in the system is to be a real resource behind the access
// guards.
package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"techflow.app/internal/auth"
	"techflow.app/internal/ids"
)

// Lead is a prospective student captured by a tenant.
type Lead struct {
	ID           string    `json:"id"`
	EnterpriseID string    `json:"enterprise_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Source       string    `json:"source,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusEnrolled  = "enrolled"
	StatusLost      = "lost"
)

// Store persists leads.
type Store interface {
	CreateLead(ctx context.Context, lead *Lead) error
	ListLeads(ctx context.Context, enterpriseID string) ([]*Lead, error)
	GetLead(ctx context.Context, id string) (*Lead, error)
	UpdateLeadStatus(ctx context.Context, id, status string) (*Lead, error)
}

// Service validates and scopes lead operations to the caller's tenant.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("leads: store is required")
	}
	return &Service{store: store}, nil
}

// CreateRequest carries a new lead payload.
type CreateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Source string `json:"source,omitempty"`
}

// Create records a lead under the given tenant.
func (s *Service) Create(ctx context.Context, enterpriseID string, req CreateRequest) (*Lead, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 120 {
		return nil, fmt.Errorf("%w: lead name must be 2-120 characters", auth.ErrInvalidInput)
	}
	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if enterpriseID == "" {
		return nil, fmt.Errorf("%w: enterprise scope is required", auth.ErrInvalidInput)
	}

	lead := &Lead{
		ID:           ids.New(),
		EnterpriseID: enterpriseID,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Source:       strings.TrimSpace(req.Source),
		Status:       StatusNew,
	}
	if err := s.store.CreateLead(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// List returns the tenant's leads.
func (s *Service) List(ctx context.Context, enterpriseID string) ([]*Lead, error) {
	if enterpriseID == "" {
		return nil, fmt.Errorf("%w: enterprise scope is required", auth.ErrInvalidInput)
	}
	return s.store.ListLeads(ctx, enterpriseID)
}

// UpdateStatus transitions a lead, refusing cross-tenant access.
func (s *Service) UpdateStatus(ctx context.Context, enterpriseID, leadID, status string) (*Lead, error) {
	switch status {
	case StatusNew, StatusContacted, StatusEnrolled, StatusLost:
	default:
		return nil, fmt.Errorf("%w: unsupported lead status %q", auth.ErrInvalidInput, status)
	}
	lead, err := s.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.EnterpriseID != enterpriseID {
		return nil, auth.ErrForbidden
	}
	return s.store.UpdateLeadStatus(ctx, leadID, status)
}
