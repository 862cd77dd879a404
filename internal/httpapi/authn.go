package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"techflow.app/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// authenticate is the token-validating stage of the guard pair. It
// verifies the bearer token, then re-resolves the subject to a live
// account record; tokens are valid for a week, so the stale claims are
// never trusted for active-state decisions.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			unauthenticated(w, r, err.Error())
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			unauthenticated(w, r, "invalid or expired token")
			return
		}

		account, err := a.store.Accounts().Find(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				unauthenticated(w, r, "account no longer exists")
				return
			}
			a.log.WithError(err).WithField("op", "authn.resolve").Error("account resolution failed")
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}
		if !account.Active {
			unauthenticated(w, r, "account is deactivated")
			return
		}
		if account.EnterpriseID != nil {
			enterprise, err := a.store.Enterprises().Find(r.Context(), *account.EnterpriseID)
			if err != nil {
				if errors.Is(err, auth.ErrNotFound) {
					unauthenticated(w, r, "enterprise no longer exists")
					return
				}
				a.log.WithError(err).WithField("op", "authn.resolve").Error("enterprise resolution failed")
				writeError(w, r, http.StatusInternalServerError, "authentication error")
				return
			}
			if !enterprise.Active {
				unauthenticated(w, r, "enterprise is deactivated")
				return
			}
		}

		ctx := auth.ContextWithAccount(r.Context(), account)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRoles is the role-checking stage. An empty set means any
// authenticated account; a missing identity with a non-empty set fails
// closed.
func (a *API) requireRoles(roles []auth.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(roles) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		account, ok := auth.AccountFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusForbidden, "access denied: no identity")
			return
		}
		if !account.Role.In(roles) {
			writeError(w, r, http.StatusForbidden, "access denied: insufficient role")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthenticated(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="techflow"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
