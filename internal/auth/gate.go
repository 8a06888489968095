package auth

import (
	"net/http"
	"strings"
)

// GateConfig lists the path prefixes the gate cares about.
type GateConfig struct {
	// Protected prefixes require a valid session.
	Protected []string
	// LoginPath is where unauthenticated visitors are sent.
	LoginPath string
	// HomePath is where authenticated visitors of LoginPath are sent.
	HomePath string
}

// DefaultGateConfig protects the dashboard and sends visitors to /login.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Protected: []string{"/dashboard"},
		LoginPath: "/login",
		HomePath:  "/dashboard",
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// Gate returns the route gate middleware.
//
//   - protected path, no valid session: redirect to LoginPath
//   - LoginPath with a valid session: redirect to HomePath
//   - otherwise the request proceeds; a valid session is put in its context
//
// The decision depends only on the request's session cookie.
func (a *Authority) Gate(cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			s, authenticated := a.SessionFromRequest(r)

			if hasPrefix(path, cfg.Protected) && !authenticated {
				http.Redirect(w, r, cfg.LoginPath, http.StatusSeeOther)
				return
			}
			if hasPrefix(path, []string{cfg.LoginPath}) && authenticated {
				http.Redirect(w, r, cfg.HomePath, http.StatusSeeOther)
				return
			}
			if authenticated {
				r = r.WithContext(WithSession(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}
