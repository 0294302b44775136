package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/pkordes/gift-catalog/internal/domain"
	"github.com/pkordes/gift-catalog/internal/query"
	"github.com/pkordes/gift-catalog/internal/repo"
)

// CertificateValidator checks certificate input before it reaches storage.
// *validation.Validator satisfies it.
type CertificateValidator interface {
	TagNameValidator
	ValidateForCreate(in domain.CertificateInput) error
	ValidateForUpdate(in domain.CertificateInput) error
}

// CatalogService implements the certificate use cases. Every write runs in a
// single transaction so a certificate and its tag links change together.
type CatalogService struct {
	store     repo.Store
	validator CertificateValidator
	builder   *query.Builder
	now       func() time.Time
	logger    *slog.Logger
}

// NewCatalogService constructs a CatalogService. Timestamps come from time.Now
// unless a clock is supplied with WithClock.
func NewCatalogService(store repo.Store, v CertificateValidator, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		validator: v,
		builder:   query.NewBuilder(query.CertificateFields),
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the clock used to stamp create and update times.
func (s *CatalogService) WithClock(now func() time.Time) *CatalogService {
	s.now = now
	return s
}

// Create validates in, stores the certificate, links its tags (creating any
// that do not exist) and returns the stored certificate with tags attached.
func (s *CatalogService) Create(ctx context.Context, in domain.CertificateInput) (result domain.Certificate, err error) {
	ctx, span := startSpan(ctx, "CatalogService.Create")
	defer func() { endSpan(span, err) }()

	if err := s.validator.ValidateForCreate(in); err != nil {
		return domain.Certificate{}, fmt.Errorf("service.CatalogService.Create: %w", err)
	}

	now := s.stamp()
	err = s.store.InTx(ctx, func(r repo.Repos) error {
		created, err := r.Certificates.Insert(ctx, domain.Certificate{
			Name:        *in.Name,
			Description: *in.Description,
			Price:       *in.Price,
			Duration:    *in.Duration,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}
		if in.Tags != nil {
			if err := s.reconcile(ctx, r, created.ID, *in.Tags); err != nil {
				return err
			}
		}
		result, err = attachTags(ctx, r, created)
		return err
	})
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("service.CatalogService.Create: %w", err)
	}
	return result, nil
}

// Update applies the supplied fields of in to certificate id. A nil Tags
// leaves the links alone; a non-nil empty Tags removes them all.
// Returns domain.ErrNoFieldsToUpdate if in carries nothing,
// domain.ErrNotFound if the certificate does not exist.
func (s *CatalogService) Update(ctx context.Context, id int64, in domain.CertificateInput) (result domain.Certificate, err error) {
	ctx, span := startSpan(ctx, "CatalogService.Update", attribute.Int64("certificate.id", id))
	defer func() { endSpan(span, err) }()

	if in.IsEmpty() {
		return domain.Certificate{}, fmt.Errorf("service.CatalogService.Update: %w", domain.ErrNoFieldsToUpdate)
	}

	err = s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Certificates.GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.validator.ValidateForUpdate(in); err != nil {
			return err
		}
		updated, err := r.Certificates.UpdateFields(ctx, id, domain.CertificateFields{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			Duration:    in.Duration,
			UpdatedAt:   s.stamp(),
		})
		if err != nil {
			return err
		}
		if in.Tags != nil {
			if err := s.reconcile(ctx, r, id, *in.Tags); err != nil {
				return err
			}
		}
		result, err = attachTags(ctx, r, updated)
		return err
	})
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("service.CatalogService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a certificate and all of its tag links. Tags themselves are kept.
// Returns domain.ErrNotFound if the certificate does not exist.
func (s *CatalogService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "CatalogService.Delete", attribute.Int64("certificate.id", id))
	defer func() { endSpan(span, err) }()

	err = s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Certificates.GetByID(ctx, id); err != nil {
			return err
		}
		removed, err := r.Links.DeleteAllFor(ctx, id)
		if err != nil {
			return err
		}
		s.logger.DebugContext(ctx, "removed certificate links", "certificate_id", id, "links", removed)
		return r.Certificates.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.CatalogService.Delete: %w", err)
	}
	return nil
}

// GetByID returns a certificate with its tags.
// Returns domain.ErrNotFound if no certificate with that ID exists.
func (s *CatalogService) GetByID(ctx context.Context, id int64) (result domain.Certificate, err error) {
	ctx, span := startSpan(ctx, "CatalogService.GetByID", attribute.Int64("certificate.id", id))
	defer func() { endSpan(span, err) }()

	r := s.store.Repos()
	c, err := r.Certificates.GetByID(ctx, id)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("service.CatalogService.GetByID: %w", err)
	}
	result, err = attachTags(ctx, r, c)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("service.CatalogService.GetByID: %w", err)
	}
	return result, nil
}

// List returns every certificate ordered by id, tags attached.
// Always returns a non-nil slice.
func (s *CatalogService) List(ctx context.Context) (result []domain.Certificate, err error) {
	ctx, span := startSpan(ctx, "CatalogService.List")
	defer func() { endSpan(span, err) }()

	r := s.store.Repos()
	certs, err := r.Certificates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.List: %w", err)
	}
	result, err = attachAll(ctx, r, certs)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.List: %w", err)
	}
	return result, nil
}

// Search returns certificates whose p.Field contains p.Contains, ordered by
// p.SortBy. Either part may be left empty.
// Returns domain.ErrInvalidField for a field outside the catalog.
func (s *CatalogService) Search(ctx context.Context, p domain.SearchParams) (result []domain.Certificate, err error) {
	ctx, span := startSpan(ctx, "CatalogService.Search",
		attribute.String("search.field", p.Field),
		attribute.String("search.sort_by", p.SortBy),
	)
	defer func() { endSpan(span, err) }()

	var f query.Fragment
	if p.Field != "" {
		if f, err = s.builder.BuildPartialMatch(f, p.Field, p.Contains); err != nil {
			return nil, fmt.Errorf("service.CatalogService.Search: %w", err)
		}
	}
	if p.SortBy != "" {
		if f, err = s.builder.BuildSort(f, p.SortBy, p.Asc); err != nil {
			return nil, fmt.Errorf("service.CatalogService.Search: %w", err)
		}
	}

	r := s.store.Repos()
	certs, err := r.Certificates.ListFiltered(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Search: %w", err)
	}
	result, err = attachAll(ctx, r, certs)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Search: %w", err)
	}
	return result, nil
}

// ListByTagName returns the certificates linked to the tag with exactly this
// name, ordered by id. Returns domain.ErrNotFound if the tag does not exist.
func (s *CatalogService) ListByTagName(ctx context.Context, name string) (result []domain.Certificate, err error) {
	ctx, span := startSpan(ctx, "CatalogService.ListByTagName", attribute.String("tag.name", name))
	defer func() { endSpan(span, err) }()

	r := s.store.Repos()
	tag, err := r.Tags.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListByTagName: %w", err)
	}
	ids, err := r.Links.CertificateIDsFor(ctx, tag.ID)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListByTagName: %w", err)
	}

	certs := make([]domain.Certificate, 0, len(ids))
	for _, id := range ids {
		c, err := r.Certificates.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			// deleted between the link read and this one
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("service.CatalogService.ListByTagName: %w", err)
		}
		certs = append(certs, c)
	}
	result, err = attachAll(ctx, r, certs)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListByTagName: %w", err)
	}
	return result, nil
}

func (s *CatalogService) reconcile(ctx context.Context, r repo.Repos, id int64, names []string) error {
	rec := NewReconciler(r.Links, NewTagResolver(r.Tags, s.validator))
	diff, err := rec.ReconcileNames(ctx, id, names)
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "reconciled certificate tags",
		"certificate_id", id,
		"added", diff.Added,
		"removed", diff.Removed,
	)
	return nil
}

// stamp returns the current time at the precision Postgres stores.
func (s *CatalogService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// attachTags loads c's linked tags, ordered by name.
func attachTags(ctx context.Context, r repo.Repos, c domain.Certificate) (domain.Certificate, error) {
	ids, err := r.Links.TagIDsFor(ctx, c.ID)
	if err != nil {
		return domain.Certificate{}, err
	}
	tags, err := r.Tags.GetByIDs(ctx, ids)
	if err != nil {
		return domain.Certificate{}, err
	}
	c.Tags = tags
	return c, nil
}

func attachAll(ctx context.Context, r repo.Repos, certs []domain.Certificate) ([]domain.Certificate, error) {
	out := make([]domain.Certificate, 0, len(certs))
	for _, c := range certs {
		withTags, err := attachTags(ctx, r, c)
		if err != nil {
			return nil, err
		}
		out = append(out, withTags)
	}
	return out, nil
}
