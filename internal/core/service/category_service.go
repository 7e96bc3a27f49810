package service

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/ports"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CategoryService exposes public reads and administrator CRUD with audit
// entries on every mutation.
type CategoryService struct {
	categories ports.CategoryRepository
	deals      ports.DealRepository
	audit      ports.AuditRepository
	logger     zerolog.Logger
}

func NewCategoryService(
	categories ports.CategoryRepository,
	deals ports.DealRepository,
	audit ports.AuditRepository,
	logger zerolog.Logger,
) *CategoryService {
	return &CategoryService{categories: categories, deals: deals, audit: audit, logger: logger}
}

// List returns all categories ordered by name asc, id asc.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// Create adds a category. Name and slug uniqueness are enforced by the
// storage layer and surface as Conflict.
func (s *CategoryService) Create(ctx context.Context, actorID, name, slug string) (*domain.Category, error) {
	if !slugPattern.MatchString(slug) {
		return nil, domain.FieldValidationError("slug", "slug must be kebab-case")
	}

	created, err := s.categories.Create(ctx, &domain.Category{Name: name, Slug: slug})
	if err != nil {
		return nil, err
	}

	s.auditCategory(ctx, actorID, domain.AuditCategoryCreate, created.ID, map[string]any{
		"name": created.Name,
		"slug": created.Slug,
	})
	return created, nil
}

// Update renames a category and/or changes its slug.
func (s *CategoryService) Update(ctx context.Context, actorID, id string, name, slug *string) (*domain.Category, error) {
	if slug != nil && !slugPattern.MatchString(*slug) {
		return nil, domain.FieldValidationError("slug", "slug must be kebab-case")
	}

	updated, err := s.categories.Update(ctx, id, name, slug)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{}
	if name != nil {
		meta["name"] = *name
	}
	if slug != nil {
		meta["slug"] = *slug
	}
	s.auditCategory(ctx, actorID, domain.AuditCategoryUpdate, id, meta)
	return updated, nil
}

// Delete removes a category. Deletion is only safe when no deal references
// it; the conflict is surfaced to the caller rather than cascading.
func (s *CategoryService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}

	n, err := s.deals.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewConflict("Category is referenced by deals", map[string]any{"deals": n})
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.auditCategory(ctx, actorID, domain.AuditCategoryDelete, id, nil)
	return nil
}

func (s *CategoryService) auditCategory(ctx context.Context, actorID, action, id string, meta map[string]any) {
	err := s.audit.Insert(ctx, &domain.AuditLogEntry{
		ActorID:  actorID,
		Action:   action,
		Entity:   "Category",
		EntityID: id,
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("category_id", id).Str("action", action).Msg("failed to write audit entry")
	}
}
