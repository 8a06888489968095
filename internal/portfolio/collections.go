package portfolio

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/models"
)

// collection describes where a record kind lives in the document and how
// to reach its identifier.
type collection[T any] struct {
	name  string
	items func(*models.Document) *[]T
	id    func(*T) *string
}

var (
	skillsCollection = collection[models.Skill]{
		name:  "skills",
		items: func(d *models.Document) *[]models.Skill { return &d.Skills },
		id:    func(r *models.Skill) *string { return &r.ID },
	}
	projectsCollection = collection[models.Project]{
		name:  "projects",
		items: func(d *models.Document) *[]models.Project { return &d.Projects },
		id:    func(r *models.Project) *string { return &r.ID },
	}
	experienceCollection = collection[models.Experience]{
		name:  "experience",
		items: func(d *models.Document) *[]models.Experience { return &d.Experience },
		id:    func(r *models.Experience) *string { return &r.ID },
	}
)

func list[T any](ctx context.Context, s *Store, c collection[T]) ([]T, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	items := *c.items(doc)
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// create appends rec with a freshly generated identifier. Any ID set by the
// caller is ignored.
func create[T any](ctx context.Context, s *Store, c collection[T], rec T) (T, error) {
	_, err := s.mutate(ctx, func(doc *models.Document) bool {
		items := c.items(doc)
		*c.id(&rec) = nextID(s, c, *items)
		*items = append(*items, rec)
		return true
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// update replaces the record with the given id in place. It reports false,
// and writes nothing, when no such record exists.
func update[T any](ctx context.Context, s *Store, c collection[T], id string, rec T) (bool, error) {
	*c.id(&rec) = id
	return s.mutate(ctx, func(doc *models.Document) bool {
		items := *c.items(doc)
		for i := range items {
			if *c.id(&items[i]) == id {
				items[i] = rec
				return true
			}
		}
		return false
	})
}

// remove drops the record with the given id, preserving the order of the
// rest. It reports false, and writes nothing, when no such record exists.
func remove[T any](ctx context.Context, s *Store, c collection[T], id string) (bool, error) {
	return s.mutate(ctx, func(doc *models.Document) bool {
		items := c.items(doc)
		before := len(*items)
		*items = slices.DeleteFunc(*items, func(r T) bool { return *c.id(&r) == id })
		return len(*items) != before
	})
}

// nextID draws identifiers until one is unused in items. A generator that
// keeps colliding is abandoned in favour of a random UUID.
func nextID[T any](s *Store, c collection[T], items []T) string {
	taken := func(id string) bool {
		return slices.ContainsFunc(items, func(r T) bool { return *c.id(&r) == id })
	}
	for range 8 {
		if id := s.newID(); id != "" && !taken(id) {
			return id
		}
	}
	return uuid.NewString()
}
