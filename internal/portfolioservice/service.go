// Package portfolioservice is the action layer between HTTP handlers and the
// record store. Reads are public; every mutation checks the admin session
// carried by the context, validates the record, then audits and counts it.
package portfolioservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/audit"
	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolio"
)

// Collection names as used in routes, audit entries and metrics.
const (
	CollectionPersonalInfo = "personal-info"
	CollectionSkills       = "skills"
	CollectionProjects     = "projects"
	CollectionExperience   = "experience"
)

// Stats summarises a document for the dashboard landing page.
type Stats struct {
	Skills     int `json:"skills"`
	Projects   int `json:"projects"`
	Experience int `json:"experience"`
	Categories int `json:"categories"`
}

// Service coordinates the record store with authorization, audit and metrics.
type Service struct {
	catalog *portfolio.Catalog
	audit   audit.Recorder
	metrics metrics.Recorder
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithAudit sets the audit recorder.
func WithAudit(r audit.Recorder) Option {
	return func(s *Service) { s.audit = r }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// WithClock sets the clock used for session expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over catalog.
func New(catalog *portfolio.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		audit:   audit.Nop{},
		metrics: metrics.Nop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locales returns the configured locales.
func (s *Service) Locales() []string {
	return s.catalog.Locales()
}

// Portfolio returns the whole document for locale.
func (s *Service) Portfolio(ctx context.Context, locale string) (*models.Document, error) {
	st, err := s.catalog.Store(locale)
	if err != nil {
		return nil, err
	}
	return st.Load(ctx)
}

// PortfolioRaw returns the encoded document for locale.
func (s *Service) PortfolioRaw(ctx context.Context, locale string) ([]byte, error) {
	st, err := s.catalog.Store(locale)
	if err != nil {
		return nil, err
	}
	return st.Raw(ctx)
}

// Stats counts records and distinct skill categories. Admin only.
func (s *Service) Stats(ctx context.Context, locale string) (*Stats, error) {
	if _, err := auth.RequireAdmin(ctx, s.now); err != nil {
		return nil, err
	}
	doc, err := s.Portfolio(ctx, locale)
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(doc.Skills))
	for _, sk := range doc.Skills {
		categories = append(categories, sk.Category)
	}
	slices.Sort(categories)
	return &Stats{
		Skills:     len(doc.Skills),
		Projects:   len(doc.Projects),
		Experience: len(doc.Experience),
		Categories: len(slices.Compact(categories)),
	}, nil
}

// AuditTrail returns the newest audit events. Admin only.
func (s *Service) AuditTrail(ctx context.Context, limit int) ([]audit.Event, error) {
	if _, err := auth.RequireAdmin(ctx, s.now); err != nil {
		return nil, err
	}
	return s.audit.Recent(ctx, limit)
}

// PersonalInfo returns the singleton record for locale.
func (s *Service) PersonalInfo(ctx context.Context, locale string) (models.PersonalInfo, error) {
	st, err := s.catalog.Store(locale)
	if err != nil {
		return models.PersonalInfo{}, err
	}
	return st.PersonalInfo(ctx)
}

// Skills lists skills for locale.
func (s *Service) Skills(ctx context.Context, locale string) ([]models.Skill, error) {
	st, err := s.catalog.Store(locale)
	if err != nil {
		return nil, err
	}
	return st.Skills(ctx)
}

// Projects lists projects for locale.
func (s *Service) Projects(ctx context.Context, locale string) ([]models.Project, error) {
	st, err := s.catalog.Store(locale)
	if err != nil {
		return nil, err
	}
	return st.Projects(ctx)
}

// Experience lists experience entries for locale.
func (s *Service) Experience(ctx context.Context, locale string) ([]models.Experience, error) {
	st, err := s.catalog.Store(locale)
	if err != nil {
		return nil, err
	}
	return st.Experience(ctx)
}

// validatable is implemented by every record kind in models.
type validatable interface {
	Validate() error
}

// mutation describes one write for authorize/validate/audit bookkeeping.
type mutation struct {
	collection string
	op         string
	locale     string
	recordID   string
	record     validatable
}

// run authorizes m, validates its record, resolves the store and calls fn.
// fn reports whether the document changed; an unchanged update or delete is
// reported as apperr.ErrNotFound for updates and as success for deletes.
func (s *Service) run(ctx context.Context, m *mutation, fn func(st *portfolio.Store) (bool, error)) error {
	sess, err := auth.RequireAdmin(ctx, s.now)
	if err != nil {
		s.metrics.RecordMutation(m.collection, m.op, metrics.OutcomeFailure)
		return err
	}
	if m.record != nil {
		if verr := m.record.Validate(); verr != nil {
			s.metrics.RecordMutation(m.collection, m.op, metrics.OutcomeInvalid)
			return fmt.Errorf("%w: %w", apperr.ErrValidation, verr)
		}
	}
	st, err := s.catalog.Store(m.locale)
	if err != nil {
		s.metrics.RecordMutation(m.collection, m.op, metrics.OutcomeInvalid)
		return err
	}

	changed, err := fn(st)
	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case !changed:
		outcome = metrics.OutcomeNoop
	}
	s.metrics.RecordMutation(m.collection, m.op, outcome)
	s.record(ctx, audit.Event{
		Actor:      sess.Subject,
		Action:     m.op,
		Collection: m.collection,
		RecordID:   m.recordID,
		Locale:     m.locale,
		Outcome:    outcome,
	})
	if err != nil {
		return err
	}
	if !changed && m.op == audit.ActionUpdate {
		return fmt.Errorf("%s %q: %w", m.collection, m.recordID, apperr.ErrNotFound)
	}
	return nil
}

// record writes an audit event; audit failures are logged, never returned.
func (s *Service) record(ctx context.Context, ev audit.Event) {
	if err := s.audit.Record(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("audit record failed",
			slog.String("action", ev.Action),
			slog.String("collection", ev.Collection),
			slog.String("error", err.Error()))
	}
}

// RecordLogin audits and counts a login attempt. It needs no session.
func (s *Service) RecordLogin(ctx context.Context, username, remote string, ok bool) {
	outcome := metrics.OutcomeFailure
	if ok {
		outcome = metrics.OutcomeSuccess
	}
	s.metrics.RecordLogin(outcome)
	s.record(ctx, audit.Event{Actor: username, Action: audit.ActionLogin, Outcome: outcome, Remote: remote})
}

// RecordLoginThrottled counts a login rejected by the rate limiter.
func (s *Service) RecordLoginThrottled(ctx context.Context, remote string) {
	s.metrics.RecordLogin(metrics.OutcomeRateLimited)
	s.record(ctx, audit.Event{Action: audit.ActionLogin, Outcome: metrics.OutcomeRateLimited, Remote: remote})
}

// RecordLogout audits a logout by the session in ctx, if any.
func (s *Service) RecordLogout(ctx context.Context, remote string) {
	actor := ""
	if sess, ok := auth.FromContext(ctx); ok {
		actor = sess.Subject
	}
	s.record(ctx, audit.Event{Actor: actor, Action: audit.ActionLogout, Outcome: metrics.OutcomeSuccess, Remote: remote})
}
