package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/auth"
)

// Dashboard handles GET /dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, "dashboard", apperr.ErrUnauthorized)
		return
	}
	stats, err := h.svc.Stats(r.Context(), locale(r))
	if err != nil {
		writeError(w, "dashboard stats", err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{
		Session: SessionInfo{Subject: sess.Subject, Role: sess.Role, ExpiresAt: sess.ExpiresAt},
		Stats:   stats,
		Locales: h.svc.Locales(),
	})
}

// Audit handles GET /dashboard/audit.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.svc.AuditTrail(r.Context(), limit)
	if err != nil {
		writeError(w, "audit trail", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// UpdatePersonalInfo handles PUT /dashboard/personal-info.
func (h *Handler) UpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	info, err := decodeBody(w, r, personalInfoFromForm)
	if err != nil {
		writeError(w, "update personal info", err)
		return
	}
	if err := h.svc.UpdatePersonalInfo(r.Context(), locale(r), info); err != nil {
		writeError(w, "update personal info", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// createHandler decodes a record, creates it and answers 201 with the stored
// record including its generated ID.
func createHandler[T any](op string, fromForm func(url.Values) (T, error),
	create func(context.Context, string, T) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := decodeBody(w, r, fromForm)
		if err != nil {
			writeError(w, op, err)
			return
		}
		out, err := create(r.Context(), locale(r), rec)
		if err != nil {
			writeError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// updateHandler replaces the record named by the {id} URL parameter.
func updateHandler[T any](op string, fromForm func(url.Values) (T, error),
	update func(context.Context, string, string, T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := decodeBody(w, r, fromForm)
		if err != nil {
			writeError(w, op, err)
			return
		}
		if err := update(r.Context(), locale(r), id, rec); err != nil {
			writeError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	}
}

// deleteHandler removes the record named by {id}. Deleting an unknown id
// succeeds.
func deleteHandler(op string, remove func(context.Context, string, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := remove(r.Context(), locale(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
