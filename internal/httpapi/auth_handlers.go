package httpapi

import (
	"errors"
	"net/http"

	"techflow.app/internal/audit"
	"techflow.app/internal/auth"
	"techflow.app/internal/obs"
)

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := a.auth.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			obs.CountLogin("rejected")
		case errors.Is(err, auth.ErrAuthUnavailable):
			obs.CountLogin("unavailable")
		}
		handleAuthError(w, r, err)
		return
	}

	obs.CountLogin("issued")
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"email": req.Email,
	})
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	account, err := a.auth.Register(r.Context(), req)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"account_id": account.ID,
		"email":      account.Email,
		"role":       account.Role,
	})
	writeJSON(w, http.StatusCreated, account)
}
