// Package portfolio implements the record store: CRUD over a single JSON
// document that is read whole, mutated in memory and rewritten whole.
package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/storage"
)

// Store is the record store for one portfolio document.
//
// Every mutation runs read → modify → write under an in-process mutex and
// an advisory file lock, so concurrent mutations do not lose updates.
// Reads take no lock; the provider replaces the file atomically.
type Store struct {
	files storage.Provider
	name  string
	newID func() string

	mu sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDGenerator replaces the UUID generator, mostly for tests.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewStore creates a store for the document at name under files.
func NewStore(files storage.Provider, name string, opts ...StoreOption) *Store {
	s := &Store{
		files: files,
		name:  name,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the document file name relative to the data root.
func (s *Store) Name() string {
	return s.name
}

// Load reads the whole document. A missing file yields a fresh copy of the
// seed document; a file that does not parse yields apperr.ErrCorrupt.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.files.Read(s.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.DefaultDocument(), nil
		}
		return nil, fmt.Errorf("portfolio: load %s: %w", s.name, err)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("portfolio: parse %s: %w: %v", s.name, apperr.ErrCorrupt, err)
	}
	return &doc, nil
}

// Raw returns the document encoded the way it is written to disk.
func (s *Store) Raw(ctx context.Context) ([]byte, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return encode(doc)
}

func (s *Store) save(doc *models.Document) error {
	data, err := encode(doc)
	if err != nil {
		return fmt.Errorf("portfolio: encode: %w", err)
	}
	if err := s.files.Write(s.name, data); err != nil {
		return fmt.Errorf("portfolio: save %s: %w", s.name, err)
	}
	return nil
}

// mutate runs fn against a freshly loaded document and persists the result
// when fn reports a change.
func (s *Store) mutate(ctx context.Context, fn func(doc *models.Document) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.files.Lock(s.name)
	if err != nil {
		return false, fmt.Errorf("portfolio: %w", err)
	}
	defer func() { _ = unlock() }()

	doc, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if !fn(doc) {
		return false, nil
	}
	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

func encode(doc *models.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// PersonalInfo returns the singleton record.
func (s *Store) PersonalInfo(ctx context.Context) (models.PersonalInfo, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return models.PersonalInfo{}, err
	}
	return doc.PersonalInfo, nil
}

// UpdatePersonalInfo replaces the singleton record wholesale.
func (s *Store) UpdatePersonalInfo(ctx context.Context, info models.PersonalInfo) error {
	_, err := s.mutate(ctx, func(doc *models.Document) bool {
		doc.PersonalInfo = info
		return true
	})
	return err
}
