package api

import (
	"net/http"

	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolioservice"
)

// Handler holds route handlers.
type Handler struct {
	svc  *portfolioservice.Service
	auth *auth.Authority
}

// NewHandler creates a new Handler.
func NewHandler(svc *portfolioservice.Service, a *auth.Authority) *Handler {
	return &Handler{svc: svc, auth: a}
}

func locale(r *http.Request) string {
	return r.URL.Query().Get("locale")
}

// Portfolio handles GET /api/portfolio. The body is the document
// re-encoded in its on-disk layout, so keys the models do not know are
// dropped. The ETag is the checksum of that body.
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	raw, err := h.svc.PortfolioRaw(r.Context(), locale(r))
	if err != nil {
		writeError(w, "get portfolio", err)
		return
	}
	etag := checksum.ETag(raw)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(raw)
}

// PersonalInfo handles GET /api/personal-info.
func (h *Handler) PersonalInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.PersonalInfo(r.Context(), locale(r))
	if err != nil {
		writeError(w, "get personal info", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Skills handles GET /api/skills. With ?group=category the skills are
// returned as a map keyed by category.
func (h *Handler) Skills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.svc.Skills(r.Context(), locale(r))
	if err != nil {
		writeError(w, "list skills", err)
		return
	}
	switch r.URL.Query().Get("group") {
	case "":
		writeJSON(w, http.StatusOK, skills)
	case "category":
		writeJSON(w, http.StatusOK, models.SkillsByCategory(skills))
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("group must be \"category\""))
	}
}

// Projects handles GET /api/projects.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Projects(r.Context(), locale(r))
	if err != nil {
		writeError(w, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Experience handles GET /api/experience.
func (h *Handler) Experience(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Experience(r.Context(), locale(r))
	if err != nil {
		writeError(w, "list experience", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
