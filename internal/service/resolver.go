package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/gift-catalog/internal/domain"
	"github.com/pkordes/gift-catalog/internal/repo"
)

// TagNameValidator checks a single tag name before it is stored.
type TagNameValidator interface {
	ValidateTagName(name string) error
}

// TagResolver turns tag names into stored tag identities, creating tags
// that do not exist yet.
type TagResolver struct {
	tags      repo.TagRepo
	validator TagNameValidator
}

// NewTagResolver constructs a TagResolver over the given TagRepo.
func NewTagResolver(tags repo.TagRepo, v TagNameValidator) *TagResolver {
	return &TagResolver{tags: tags, validator: v}
}

// Resolve returns one tag id per input name, in input order. Repeated names
// map to the same id. Every name is validated before anything is written.
//
// Creation goes through TagRepo.Upsert, so two transactions racing to create
// the same name both end up with the row that won the unique index.
func (r *TagResolver) Resolve(ctx context.Context, names []string) ([]int64, error) {
	for _, name := range names {
		if err := r.validator.ValidateTagName(name); err != nil {
			return nil, fmt.Errorf("service.TagResolver.Resolve: %w", err)
		}
	}

	ids := make([]int64, 0, len(names))
	seen := make(map[string]int64, len(names))
	for _, name := range names {
		if id, ok := seen[name]; ok {
			ids = append(ids, id)
			continue
		}
		tag, err := r.resolveOne(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("service.TagResolver.Resolve: %w", err)
		}
		seen[name] = tag.ID
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func (r *TagResolver) resolveOne(ctx context.Context, name string) (domain.Tag, error) {
	tag, err := r.tags.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Tag{}, err
	}
	return r.tags.Upsert(ctx, name)
}
