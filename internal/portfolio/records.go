package portfolio

import (
	"context"

	"github.com/starford/folio/internal/models"
)

// Skills returns the skills collection in insertion order.
func (s *Store) Skills(ctx context.Context) ([]models.Skill, error) {
	return list(ctx, s, skillsCollection)
}

// CreateSkill appends a skill and returns it with its new ID.
func (s *Store) CreateSkill(ctx context.Context, rec models.Skill) (models.Skill, error) {
	return create(ctx, s, skillsCollection, rec)
}

// UpdateSkill replaces the skill with the given ID.
func (s *Store) UpdateSkill(ctx context.Context, id string, rec models.Skill) (bool, error) {
	return update(ctx, s, skillsCollection, id, rec)
}

// DeleteSkill removes the skill with the given ID.
func (s *Store) DeleteSkill(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, skillsCollection, id)
}

// Projects returns the projects collection in insertion order.
func (s *Store) Projects(ctx context.Context) ([]models.Project, error) {
	return list(ctx, s, projectsCollection)
}

// CreateProject appends a project and returns it with its new ID.
func (s *Store) CreateProject(ctx context.Context, rec models.Project) (models.Project, error) {
	return create(ctx, s, projectsCollection, rec)
}

// UpdateProject replaces the project with the given ID.
func (s *Store) UpdateProject(ctx context.Context, id string, rec models.Project) (bool, error) {
	return update(ctx, s, projectsCollection, id, rec)
}

// DeleteProject removes the project with the given ID.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, projectsCollection, id)
}

// Experience returns the experience collection in insertion order.
func (s *Store) Experience(ctx context.Context) ([]models.Experience, error) {
	return list(ctx, s, experienceCollection)
}

// CreateExperience appends an experience entry and returns it with its new ID.
func (s *Store) CreateExperience(ctx context.Context, rec models.Experience) (models.Experience, error) {
	return create(ctx, s, experienceCollection, rec)
}

// UpdateExperience replaces the experience entry with the given ID.
func (s *Store) UpdateExperience(ctx context.Context, id string, rec models.Experience) (bool, error) {
	return update(ctx, s, experienceCollection, id, rec)
}

// DeleteExperience removes the experience entry with the given ID.
func (s *Store) DeleteExperience(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, experienceCollection, id)
}
