package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/portfolioservice"
)

// Deps are the collaborators the router needs. Limiter and Events are
// optional.
type Deps struct {
	Service *portfolioservice.Service
	Auth    *auth.Authority
	Limiter *LoginLimiter
	Events  http.Handler
}

// NewRouter creates a chi router with the public API, the login flow and
// the gated dashboard mounted.
func NewRouter(d Deps) chi.Router {
	h := NewHandler(d.Service, d.Auth)

	r := chi.NewRouter()
	r.Use(SecurityHeaders)
	r.Use(d.Auth.Gate(auth.DefaultGateConfig()))

	// Public read API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio", h.Portfolio)
		r.Get("/personal-info", h.PersonalInfo)
		r.Get("/skills", h.Skills)
		r.Get("/projects", h.Projects)
		r.Get("/experience", h.Experience)
		if d.Events != nil {
			r.Get("/events", d.Events.ServeHTTP)
		}
	})

	// Login flow.
	r.Get("/login", h.LoginPage)
	r.Group(func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware(h.loginThrottled))
		}
		r.Post("/login", h.Login)
	})
	r.Post("/logout", h.Logout)

	// Dashboard; the gate has already redirected anonymous callers.
	svc := d.Service
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.Dashboard)
		r.Get("/audit", h.Audit)
		r.Put("/personal-info", h.UpdatePersonalInfo)

		r.Post("/skills", createHandler("create skill", skillFromForm, svc.CreateSkill))
		r.Put("/skills/{id}", updateHandler("update skill", skillFromForm, svc.UpdateSkill))
		r.Delete("/skills/{id}", deleteHandler("delete skill", svc.DeleteSkill))

		r.Post("/projects", createHandler("create project", projectFromForm, svc.CreateProject))
		r.Put("/projects/{id}", updateHandler("update project", projectFromForm, svc.UpdateProject))
		r.Delete("/projects/{id}", deleteHandler("delete project", svc.DeleteProject))

		r.Post("/experience", createHandler("create experience", experienceFromForm, svc.CreateExperience))
		r.Put("/experience/{id}", updateHandler("update experience", experienceFromForm, svc.UpdateExperience))
		r.Delete("/experience/{id}", deleteHandler("delete experience", svc.DeleteExperience))
	})

	return r
}
