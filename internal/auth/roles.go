package auth

import (
	"fmt"
	"strings"
)

// Role is one of a closed set. MASTER is platform-wide and carries no
// enterprise reference; every other role belongs to exactly one enterprise.
type Role string

const (
	RoleMaster       Role = "MASTER"
	RoleClientAdmin  Role = "CLIENT_ADMIN"
	RoleClientViewer Role = "CLIENT_VIEWER"
)

// ParseRole normalizes and validates a role name.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleMaster:
		return RoleMaster, nil
	case RoleClientAdmin:
		return RoleClientAdmin, nil
	case RoleClientViewer:
		return RoleClientViewer, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

func (r Role) Valid() bool {
	return r == RoleMaster || r == RoleClientAdmin || r == RoleClientViewer
}

// RequiresEnterprise reports whether accounts with this role must reference
// an enterprise.
func (r Role) RequiresEnterprise() bool {
	return r != RoleMaster
}

func (r Role) In(set []Role) bool {
	for _, candidate := range set {
		if r == candidate {
			return true
		}
	}
	return false
}
