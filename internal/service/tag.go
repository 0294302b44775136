package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/pkordes/gift-catalog/internal/domain"
	"github.com/pkordes/gift-catalog/internal/repo"
)

// TagService implements the tag use cases. Tags are also created implicitly
// by CatalogService when a certificate names one that does not exist.
type TagService struct {
	store     repo.Store
	validator TagNameValidator
}

// NewTagService constructs a TagService.
func NewTagService(store repo.Store, v TagNameValidator) *TagService {
	return &TagService{store: store, validator: v}
}

// Create stores a new tag.
// Returns domain.ErrRequiredField for a blank name,
// domain.ErrAlreadyExists if a tag with that name exists.
func (s *TagService) Create(ctx context.Context, name string) (result domain.Tag, err error) {
	ctx, span := startSpan(ctx, "TagService.Create", attribute.String("tag.name", name))
	defer func() { endSpan(span, err) }()

	if err := s.validator.ValidateTagName(name); err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}

	tags := s.store.Repos().Tags
	_, err = tags.GetByName(ctx, name)
	switch {
	case err == nil:
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w: tag %q", domain.ErrAlreadyExists, name)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}

	// Insert maps a unique violation from a concurrent create to ErrAlreadyExists.
	result, err = tags.Insert(ctx, name)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a tag. Returns domain.ErrNotFound if it does not exist.
func (s *TagService) GetByID(ctx context.Context, id int64) (result domain.Tag, err error) {
	ctx, span := startSpan(ctx, "TagService.GetByID", attribute.Int64("tag.id", id))
	defer func() { endSpan(span, err) }()

	result, err = s.store.Repos().Tags.GetByID(ctx, id)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.GetByID: %w", err)
	}
	return result, nil
}

// GetByName returns the tag with exactly this name.
// Returns domain.ErrNotFound if it does not exist.
func (s *TagService) GetByName(ctx context.Context, name string) (result domain.Tag, err error) {
	ctx, span := startSpan(ctx, "TagService.GetByName", attribute.String("tag.name", name))
	defer func() { endSpan(span, err) }()

	result, err = s.store.Repos().Tags.GetByName(ctx, name)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.GetByName: %w", err)
	}
	return result, nil
}

// List returns all tags ordered by name. Always returns a non-nil slice.
func (s *TagService) List(ctx context.Context) (result []domain.Tag, err error) {
	ctx, span := startSpan(ctx, "TagService.List")
	defer func() { endSpan(span, err) }()

	result, err = s.store.Repos().Tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.List: %w", err)
	}
	if result == nil {
		return []domain.Tag{}, nil
	}
	return result, nil
}

// Delete removes a tag. Its links to certificates go with it.
// Returns domain.ErrNotFound if the tag does not exist.
func (s *TagService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "TagService.Delete", attribute.Int64("tag.id", id))
	defer func() { endSpan(span, err) }()

	if err := s.store.Repos().Tags.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TagService.Delete: %w", err)
	}
	return nil
}
