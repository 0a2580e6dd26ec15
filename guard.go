package sdk

import (
	"context"
	"net/http"
	"net/url"
)

const defaultLoginPath = "/login"

// DefaultDashboards maps each role to its landing page, used when a guard
// turns away a logged-in user whose role does not satisfy the route.
var DefaultDashboards = map[Role]string{
	RolePetOwner:     "/dashboard",
	RoleVeterinarian: "/vet/dashboard",
	RoleAdmin:        "/admin/dashboard",
}

// GuardConfig parameterizes a route guard.
type GuardConfig struct {
	Session *Session
	// RequiredRole gates the route to one role. Empty admits any
	// authenticated user. Admins always pass.
	RequiredRole Role
	// LoginPath receives logged-out visitors, with the attempted path in
	// the "next" query parameter. Defaults to /login.
	LoginPath string
	// Dashboards overrides the role→landing-page mapping for role
	// mismatches. Defaults to DefaultDashboards.
	Dashboards map[Role]string
}

// Guard gates navigation to protected views based on session state and an
// optional role requirement. Role gating lives here, centrally, never ad hoc
// in page handlers.
type Guard struct {
	session    *Session
	required   Role
	loginPath  string
	dashboards map[Role]string
}

// NewGuard validates the configuration and returns a ready guard.
func NewGuard(cfg GuardConfig) (*Guard, error) {
	if cfg.Session == nil {
		return nil, ConfigError{Reason: "session is required"}
	}
	if cfg.RequiredRole != "" && !cfg.RequiredRole.Valid() {
		return nil, ConfigError{Reason: "unknown required role"}
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = defaultLoginPath
	}
	dashboards := cfg.Dashboards
	if dashboards == nil {
		dashboards = DefaultDashboards
	}
	return &Guard{
		session:    cfg.Session,
		required:   cfg.RequiredRole,
		loginPath:  loginPath,
		dashboards: dashboards,
	}, nil
}

type guardContextKey struct{}

// GuardedUser returns the authenticated user a guard attached to the request
// context, if any.
func GuardedUser(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(guardContextKey{}).(*User)
	return user, ok
}

// Middleware wraps next with the guard's navigation decision.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := g.session.Snapshot()

		// While the session is still resolving, render a neutral
		// placeholder and make no navigation decision.
		if snap.State != SessionReady {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.WriteHeader(http.StatusOK)
			//nolint:errcheck // nothing useful to do with a failed write
			_, _ = w.Write([]byte("<!doctype html><title>Loading</title><p>Loading…</p>"))
			return
		}

		if !snap.LoggedIn {
			target := g.loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		if !snap.User.Role.Satisfies(g.required) {
			dashboard, ok := g.dashboards[snap.User.Role]
			if !ok {
				dashboard = g.loginPath
			}
			http.Redirect(w, r, dashboard, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), guardContextKey{}, snap.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
