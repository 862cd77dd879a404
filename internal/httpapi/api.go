package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"techflow.app/internal/auth"
	"techflow.app/internal/config"
	"techflow.app/internal/leads"
	"techflow.app/internal/obs"
)

// ReadyProbe reports readiness (database ping when a DSN is configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer. Route-to-role declarations live in the table
// built by New and are resolved once at registration, never at request
// time.
type API struct {
	mux        *http.ServeMux
	handler    http.Handler
	cfg        config.Config
	log        *logrus.Logger
	auth       *auth.Service
	onboarding *auth.Onboarding
	tokens     *auth.TokenIssuer
	store      auth.Store
	leads      *leads.Service
	readyProbe ReadyProbe
	version    string
}

type route struct {
	method  string
	pattern string
	public  bool
	// roles is the route-level declaration; nil inherits the group
	// default, an empty non-nil slice means any authenticated account.
	roles   []auth.Role
	handler http.HandlerFunc
}

type routeGroup struct {
	defaultRoles []auth.Role
	routes       []route
}

// Deps bundles the collaborators the API needs.
type Deps struct {
	Auth       *auth.Service
	Onboarding *auth.Onboarding
	Tokens     *auth.TokenIssuer
	Store      auth.Store
	Leads      *leads.Service
	Ready      ReadyProbe
	Version    string
}

// New builds the API and registers every route with its declared role set.
func New(cfg config.Config, log *logrus.Logger, deps Deps) *API {
	if log == nil {
		log = obs.Logger()
	}
	a := &API{
		mux:        http.NewServeMux(),
		cfg:        cfg,
		log:        log,
		auth:       deps.Auth,
		onboarding: deps.Onboarding,
		tokens:     deps.Tokens,
		store:      deps.Store,
		leads:      deps.Leads,
		readyProbe: deps.Ready,
		version:    deps.Version,
	}

	var (
		masterOnly  = []auth.Role{auth.RoleMaster}
		adminUp     = []auth.Role{auth.RoleMaster, auth.RoleClientAdmin}
		tenantRoles = []auth.Role{auth.RoleClientAdmin, auth.RoleClientViewer}
		anyRole     = []auth.Role{}
	)

	groups := []routeGroup{
		{routes: []route{
			{method: http.MethodPost, pattern: "/auth/register", public: true, handler: a.handleRegister},
			{method: http.MethodPost, pattern: "/auth/login", public: true, handler: a.handleLogin},
		}},
		// Enterprises default to MASTER; individual routes override.
		{defaultRoles: masterOnly, routes: []route{
			{method: http.MethodPost, pattern: "/enterprises", handler: a.handleCreateEnterprise},
			{method: http.MethodGet, pattern: "/enterprises", handler: a.handleListEnterprises},
			{method: http.MethodGet, pattern: "/enterprises/cnpj/{cnpj}", handler: a.handleEnterpriseByCNPJ},
			{method: http.MethodGet, pattern: "/enterprises/me", roles: tenantRoles, handler: a.handleMyEnterprise},
			{method: http.MethodPatch, pattern: "/enterprises/goal", roles: adminUp, handler: a.handleUpdateGoal},
			{method: http.MethodPost, pattern: "/enterprises/onboarding", public: true, handler: a.handleOnboarding},
		}},
		{defaultRoles: masterOnly, routes: []route{
			{method: http.MethodGet, pattern: "/users/profile", roles: anyRole, handler: a.handleProfile},
			{method: http.MethodPatch, pattern: "/users/password", roles: anyRole, handler: a.handleChangePassword},
			{method: http.MethodGet, pattern: "/users", handler: a.handleListAccounts},
			{method: http.MethodPost, pattern: "/users/admin", handler: a.handleCreateAdmin},
			{method: http.MethodPost, pattern: "/users/viewer", roles: []auth.Role{auth.RoleClientAdmin}, handler: a.handleCreateViewer},
			{method: http.MethodPatch, pattern: "/users/{id}", handler: a.handleModifyAccount},
			{method: http.MethodDelete, pattern: "/users/{id}", handler: a.handleDeactivateAccount},
		}},
		{defaultRoles: tenantRoles, routes: []route{
			{method: http.MethodPost, pattern: "/leads", handler: a.handleCreateLead},
			{method: http.MethodGet, pattern: "/leads", handler: a.handleListLeads},
			{method: http.MethodPatch, pattern: "/leads/{id}", roles: []auth.Role{auth.RoleClientAdmin}, handler: a.handleUpdateLeadStatus},
		}},
	}
	for _, group := range groups {
		for _, rt := range group.routes {
			a.register(rt, group.defaultRoles)
		}
	}

	a.mux.HandleFunc("GET /healthz", a.handleHealthz)
	a.mux.HandleFunc("GET /readyz", a.handleReadyz)
	a.mux.HandleFunc("GET /info", a.handleInfo)
	a.mux.Handle("GET /metrics", obs.Handler())

	a.handler = a.compose()
	return a
}

// register resolves the effective role set (route declaration wins over
// the group default) and wraps the handler in the guard pair.
func (a *API) register(rt route, groupDefault []auth.Role) {
	pattern := fmt.Sprintf("%s %s", rt.method, rt.pattern)
	if rt.public {
		a.mux.HandleFunc(pattern, rt.handler)
		return
	}
	roles := rt.roles
	if roles == nil {
		roles = groupDefault
	}
	a.mux.Handle(pattern, a.authenticate(a.requireRoles(roles, rt.handler)))
}

// compose builds the middleware chain in a fixed order. It runs exactly
// once, in New: RateLimit owns per-client bucket state and a cleanup
// goroutine, so rebuilding the chain per call would reset limits and leak
// tickers.
func (a *API) compose() http.Handler {
	var h http.Handler = a.mux
	h = obs.Instrument(h)
	h = RateLimit(h, a.cfg.RateLimitBurst, a.cfg.RateLimitPerSec)
	h = MaxBodyBytes(h, a.cfg.MaxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(a.log, h)
	h = RequestID(h)
	return h
}

// Handler returns the full middleware chain composed at construction.
func (a *API) Handler() http.Handler {
	return a.handler
}
