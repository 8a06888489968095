package auth

import (
	"context"
	"time"

	"github.com/starford/folio/internal/apperr"
)

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// RequireAdmin returns the admin session in ctx or apperr.ErrUnauthorized.
// Expiry is checked against now so a long-running request cannot outlive it.
func RequireAdmin(ctx context.Context, now func() time.Time) (*Session, error) {
	s, ok := FromContext(ctx)
	if !ok || s.Role != RoleAdmin || !s.ExpiresAt.After(now()) {
		return nil, apperr.ErrUnauthorized
	}
	return s, nil
}
