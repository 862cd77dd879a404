package httpapi

import (
	"net/http"

	"techflow.app/internal/audit"
	"techflow.app/internal/auth"
	"techflow.app/internal/leads"
)

func (a *API) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	account, _ := auth.AccountFromContext(r.Context())
	if account == nil || account.EnterpriseID == nil {
		writeError(w, r, http.StatusForbidden, "not registered with any enterprise")
		return
	}
	var req leads.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lead, err := a.leads.Create(r.Context(), *account.EnterpriseID, req)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "leads.create", map[string]any{
		"lead_id":       lead.ID,
		"enterprise_id": lead.EnterpriseID,
	})
	writeJSON(w, http.StatusCreated, lead)
}

func (a *API) handleListLeads(w http.ResponseWriter, r *http.Request) {
	account, _ := auth.AccountFromContext(r.Context())
	if account == nil || account.EnterpriseID == nil {
		writeError(w, r, http.StatusForbidden, "not registered with any enterprise")
		return
	}
	result, err := a.leads.List(r.Context(), *account.EnterpriseID)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type updateLeadStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) handleUpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	account, _ := auth.AccountFromContext(r.Context())
	if account == nil || account.EnterpriseID == nil {
		writeError(w, r, http.StatusForbidden, "not registered with any enterprise")
		return
	}
	var req updateLeadStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lead, err := a.leads.UpdateStatus(r.Context(), *account.EnterpriseID, r.PathValue("id"), req.Status)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}
