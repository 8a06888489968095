package portfolioservice

import (
	"context"

	"github.com/starford/folio/internal/audit"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolio"
)

// UpdatePersonalInfo replaces the singleton record.
func (s *Service) UpdatePersonalInfo(ctx context.Context, locale string, info models.PersonalInfo) error {
	m := &mutation{collection: CollectionPersonalInfo, op: audit.ActionUpdate, locale: locale, record: info}
	return s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		return true, st.UpdatePersonalInfo(ctx, info)
	})
}

// CreateSkill adds a skill and returns it with its generated ID.
func (s *Service) CreateSkill(ctx context.Context, locale string, rec models.Skill) (models.Skill, error) {
	var out models.Skill
	m := &mutation{collection: CollectionSkills, op: audit.ActionCreate, locale: locale, record: rec}
	err := s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		var err error
		out, err = st.CreateSkill(ctx, rec)
		m.recordID = out.ID
		return err == nil, err
	})
	return out, err
}

// UpdateSkill replaces a skill; apperr.ErrNotFound if id is unknown.
func (s *Service) UpdateSkill(ctx context.Context, locale, id string, rec models.Skill) error {
	m := &mutation{collection: CollectionSkills, op: audit.ActionUpdate, locale: locale, recordID: id, record: rec}
	return s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		return st.UpdateSkill(ctx, id, rec)
	})
}

// DeleteSkill removes a skill. Unknown ids are not an error.
func (s *Service) DeleteSkill(ctx context.Context, locale, id string) error {
	m := &mutation{collection: CollectionSkills, op: audit.ActionDelete, locale: locale, recordID: id}
	return s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		return st.DeleteSkill(ctx, id)
	})
}

// CreateProject adds a project and returns it with its generated ID.
func (s *Service) CreateProject(ctx context.Context, locale string, rec models.Project) (models.Project, error) {
	var out models.Project
	m := &mutation{collection: CollectionProjects, op: audit.ActionCreate, locale: locale, record: rec}
	err := s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		var err error
		out, err = st.CreateProject(ctx, rec)
		m.recordID = out.ID
		return err == nil, err
	})
	return out, err
}

// UpdateProject replaces a project; apperr.ErrNotFound if id is unknown.
func (s *Service) UpdateProject(ctx context.Context, locale, id string, rec models.Project) error {
	m := &mutation{collection: CollectionProjects, op: audit.ActionUpdate, locale: locale, recordID: id, record: rec}
	return s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		return st.UpdateProject(ctx, id, rec)
	})
}

// DeleteProject removes a project. Unknown ids are not an error.
func (s *Service) DeleteProject(ctx context.Context, locale, id string) error {
	m := &mutation{collection: CollectionProjects, op: audit.ActionDelete, locale: locale, recordID: id}
	return s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		return st.DeleteProject(ctx, id)
	})
}

// CreateExperience adds an experience entry and returns it with its generated ID.
func (s *Service) CreateExperience(ctx context.Context, locale string, rec models.Experience) (models.Experience, error) {
	var out models.Experience
	m := &mutation{collection: CollectionExperience, op: audit.ActionCreate, locale: locale, record: rec}
	err := s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		var err error
		out, err = st.CreateExperience(ctx, rec)
		m.recordID = out.ID
		return err == nil, err
	})
	return out, err
}

// UpdateExperience replaces an experience entry; apperr.ErrNotFound if id is unknown.
func (s *Service) UpdateExperience(ctx context.Context, locale, id string, rec models.Experience) error {
	m := &mutation{collection: CollectionExperience, op: audit.ActionUpdate, locale: locale, recordID: id, record: rec}
	return s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		return st.UpdateExperience(ctx, id, rec)
	})
}

// DeleteExperience removes an experience entry. Unknown ids are not an error.
func (s *Service) DeleteExperience(ctx context.Context, locale, id string) error {
	m := &mutation{collection: CollectionExperience, op: audit.ActionDelete, locale: locale, recordID: id}
	return s.run(ctx, m, func(st *portfolio.Store) (bool, error) {
		return st.DeleteExperience(ctx, id)
	})
}
