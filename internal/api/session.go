package api

import (
	"log/slog"
	"net/http"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/auth"
)

// LoginPage handles GET /login. Rendering belongs to the front end; this
// describes what POST /login expects.
func (h *Handler) LoginPage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, LoginPage{Action: "/login", Fields: []string{"username", "password"}})
}

// Login handles POST /login. On success it sets the session cookie and
// redirects to the dashboard.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody(w, r, loginFromForm)
	if err != nil {
		writeError(w, "login", err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("username and password are required"))
		return
	}

	ok := h.auth.ValidateCredentials(req.Username, req.Password)
	h.svc.RecordLogin(r.Context(), req.Username, clientKey(r), ok)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody(apperr.ErrInvalidCredentials.Error()))
		return
	}

	if _, err := h.auth.CreateSession(w, req.Username, auth.RoleAdmin); err != nil {
		slog.Error("create session failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.svc.RecordLogout(r.Context(), clientKey(r))
	h.auth.DestroySession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// loginThrottled is the rate limiter's rejection hook.
func (h *Handler) loginThrottled(r *http.Request) {
	slog.Warn("login rate limit exceeded", slog.String("remote", clientKey(r)))
	h.svc.RecordLoginThrottled(r.Context(), clientKey(r))
}
