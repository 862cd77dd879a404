package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"techflow.app/internal/audit"
	"techflow.app/internal/auth"
	"techflow.app/internal/ids"
)

type createEnterpriseRequest struct {
	Name         string `json:"name"`
	CNPJ         string `json:"cnpj"`
	Slug         string `json:"slug"`
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
}

func (a *API) handleCreateEnterprise(w http.ResponseWriter, r *http.Request) {
	var req createEnterpriseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 3 || len(name) > 100 {
		writeError(w, r, http.StatusBadRequest, "enterprise name must be 3-100 characters")
		return
	}
	cnpj, err := auth.NormalizeCNPJ(req.CNPJ)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if err := auth.ValidateSlug(strings.TrimSpace(req.Slug)); err != nil {
		handleAuthError(w, r, err)
		return
	}
	color := strings.TrimSpace(req.PrimaryColor)
	if color == "" {
		color = "#000000"
	}

	enterprise := &auth.Enterprise{
		ID:           ids.New(),
		Name:         name,
		CNPJ:         cnpj,
		Slug:         strings.TrimSpace(req.Slug),
		LogoURL:      strings.TrimSpace(req.LogoURL),
		PrimaryColor: color,
		Active:       true,
	}
	if err := a.store.Enterprises().Create(r.Context(), enterprise); err != nil {
		if errors.Is(err, auth.ErrConflict) {
			writeError(w, r, http.StatusConflict, "cnpj or slug already registered")
			return
		}
		a.log.WithError(err).WithField("op", "enterprise.create").Error("enterprise creation failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "enterprise.create", map[string]any{
		"enterprise_id": enterprise.ID,
		"cnpj":          enterprise.CNPJ,
		"slug":          enterprise.Slug,
	})
	w.Header().Set("Location", fmt.Sprintf("/enterprises/%s", enterprise.ID))
	writeJSON(w, http.StatusCreated, enterprise)
}

func (a *API) handleListEnterprises(w http.ResponseWriter, r *http.Request) {
	result, err := a.store.Enterprises().List(r.Context())
	if err != nil {
		a.log.WithError(err).WithField("op", "enterprise.list").Error("enterprise listing failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleMyEnterprise(w http.ResponseWriter, r *http.Request) {
	account, _ := auth.AccountFromContext(r.Context())
	if account == nil || account.EnterpriseID == nil {
		writeError(w, r, http.StatusForbidden, "not registered with any enterprise")
		return
	}
	enterprise, err := a.store.Enterprises().Find(r.Context(), *account.EnterpriseID)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, enterprise)
}

func (a *API) handleEnterpriseByCNPJ(w http.ResponseWriter, r *http.Request) {
	cnpj, err := auth.NormalizeCNPJ(r.PathValue("cnpj"))
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	enterprise, err := a.store.Enterprises().FindByCNPJ(r.Context(), cnpj)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, enterprise)
}

type updateGoalRequest struct {
	Goal float64 `json:"goal"`
}

func (a *API) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	account, _ := auth.AccountFromContext(r.Context())
	if account == nil || account.EnterpriseID == nil {
		writeError(w, r, http.StatusForbidden, "not registered with any enterprise")
		return
	}
	var req updateGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Goal <= 0 {
		writeError(w, r, http.StatusBadRequest, "goal must be positive")
		return
	}
	enterprise, err := a.store.Enterprises().UpdateGoal(r.Context(), *account.EnterpriseID, req.Goal)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "enterprise.update_goal", map[string]any{
		"enterprise_id": enterprise.ID,
		"goal":          req.Goal,
	})
	writeJSON(w, http.StatusOK, enterprise)
}

func (a *API) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req auth.OnboardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := a.onboarding.Onboard(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrOnboarding) {
			writeError(w, r, http.StatusInternalServerError, "onboarding failed")
			return
		}
		handleAuthError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "enterprise.onboard", map[string]any{
		"enterprise_id": resp.EnterpriseID,
		"admin_id":      resp.AdminID,
		"cnpj":          resp.CNPJ,
	})
	writeJSON(w, http.StatusCreated, resp)
}
