package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"techflow.app/internal/audit"
	"techflow.app/internal/auth"
)

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusForbidden, "access denied: no identity")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (a *API) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.store.Accounts().List(r.Context())
	if err != nil {
		a.log.WithError(err).WithField("op", "users.list").Error("account listing failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

type invitedAccountRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	EnterpriseID string `json:"enterprise_id,omitempty"`
}

// handleCreateAdmin lets a MASTER invite a CLIENT_ADMIN into any
// enterprise.
func (a *API) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req invitedAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.EnterpriseID) == "" {
		writeError(w, r, http.StatusBadRequest, "enterprise_id is required")
		return
	}
	a.createInvited(w, r, req, auth.RoleClientAdmin, strings.TrimSpace(req.EnterpriseID))
}

// handleCreateViewer lets a CLIENT_ADMIN invite a CLIENT_VIEWER into their
// own enterprise; the tenant scope comes from the caller, never the
// payload.
func (a *API) handleCreateViewer(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.AccountFromContext(r.Context())
	if caller == nil || caller.EnterpriseID == nil {
		writeError(w, r, http.StatusForbidden, "not registered with any enterprise")
		return
	}
	var req invitedAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	a.createInvited(w, r, req, auth.RoleClientViewer, *caller.EnterpriseID)
}

func (a *API) createInvited(w http.ResponseWriter, r *http.Request, req invitedAccountRequest, role auth.Role, enterpriseID string) {
	enterprise, err := a.store.Enterprises().Find(r.Context(), enterpriseID)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	account, err := a.auth.Register(r.Context(), auth.RegisterRequest{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           string(role),
		EnterpriseCNPJ: enterprise.CNPJ,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "users.invite", map[string]any{
		"account_id":    account.ID,
		"role":          account.Role,
		"enterprise_id": enterprise.ID,
	})
	writeJSON(w, http.StatusCreated, account)
}

// handleChangePassword rotates the caller's own password. Plaintexts pass
// straight to the service and are never logged or echoed.
func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusForbidden, "access denied: no identity")
		return
	}
	var req auth.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.auth.ChangePassword(r.Context(), account.Email, req); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "users.change_password", map[string]any{
		"account_id": account.ID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "password changed"})
}

type modifyAccountRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (a *API) handleModifyAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req modifyAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	account, err := a.store.Accounts().Find(r.Context(), id)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 3 || len(name) > 80 {
			writeError(w, r, http.StatusBadRequest, "name must be 3-80 characters")
			return
		}
		account.Name = name
	}
	if req.Email != nil {
		email, err := auth.NormalizeEmail(*req.Email)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		account.Email = email
	}
	if req.Role != nil {
		role, err := auth.ParseRole(*req.Role)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		account.Role = role
		if !account.Consistent() {
			writeError(w, r, http.StatusBadRequest, "role and enterprise reference disagree")
			return
		}
	}

	if err := a.store.Accounts().Update(r.Context(), account); err != nil {
		if errors.Is(err, auth.ErrConflict) {
			writeError(w, r, http.StatusConflict, "email already in use")
			return
		}
		handleAuthError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "users.modify", map[string]any{
		"account_id": account.ID,
	})
	writeJSON(w, http.StatusOK, account)
}

// handleDeactivateAccount flips the active flag; accounts are never hard
// deleted while other records reference them.
func (a *API) handleDeactivateAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	caller, _ := auth.AccountFromContext(r.Context())
	if caller != nil && caller.ID == id {
		writeError(w, r, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}
	if err := a.store.Accounts().SetActive(r.Context(), id, false); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "users.deactivate", map[string]any{
		"account_id": id,
	})
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": false})
}
