package service_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/pkordes/gift-catalog/internal/domain"
	"github.com/pkordes/gift-catalog/internal/query"
	"github.com/pkordes/gift-catalog/internal/repo"
)

// ---- in-memory store -------------------------------------------------------

type link struct{ certificateID, tagID int64 }

// memDB holds every table of the fake store. Counters record link writes so
// tests can assert that unchanged links are never rewritten.
type memDB struct {
	nextCertificateID int64
	nextTagID         int64
	certificates      map[int64]domain.Certificate
	tags              map[int64]domain.Tag
	links             map[link]bool

	linkInserts int
	linkDeletes int
	upserts     int

	lastFragment  query.Fragment
	failInsertErr error

	// staleLinks are reported by TagIDsFor without being stored, like links
	// another transaction removed after this one read them.
	staleLinks []int64
}

func newMemDB() *memDB {
	return &memDB{
		certificates: map[int64]domain.Certificate{},
		tags:         map[int64]domain.Tag{},
		links:        map[link]bool{},
	}
}

func (d *memDB) clone() *memDB {
	c := *d
	c.certificates = maps.Clone(d.certificates)
	c.tags = maps.Clone(d.tags)
	c.links = maps.Clone(d.links)
	return &c
}

func (d *memDB) linkCount() int { return len(d.links) }

func (d *memDB) tagNames() []string {
	names := make([]string, 0, len(d.tags))
	for _, t := range d.tags {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// memStore is an in-memory repo.Store. InTx restores the previous state when fn fails.
type memStore struct {
	db *memDB
}

func newMemStore() *memStore { return &memStore{db: newMemDB()} }

func (s *memStore) Repos() repo.Repos {
	return repo.Repos{
		Certificates: &memCertificateRepo{d: s.db},
		Tags:         &memTagRepo{d: s.db},
		Links:        &memLinkRepo{d: s.db},
	}
}

func (s *memStore) InTx(_ context.Context, fn func(repo.Repos) error) error {
	snapshot := s.db.clone()
	if err := fn(s.Repos()); err != nil {
		*s.db = *snapshot
		return err
	}
	return nil
}

// ---- certificates ----------------------------------------------------------

type memCertificateRepo struct{ d *memDB }

func (r *memCertificateRepo) GetByID(_ context.Context, id int64) (domain.Certificate, error) {
	c, ok := r.d.certificates[id]
	if !ok {
		return domain.Certificate{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *memCertificateRepo) List(_ context.Context) ([]domain.Certificate, error) {
	ids := slices.Sorted(maps.Keys(r.d.certificates))
	out := make([]domain.Certificate, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.d.certificates[id])
	}
	return out, nil
}

// ListFiltered records the fragment and returns every row; SQL rendering is
// covered by the query and repo tests.
func (r *memCertificateRepo) ListFiltered(ctx context.Context, f query.Fragment) ([]domain.Certificate, error) {
	r.d.lastFragment = f
	return r.List(ctx)
}

func (r *memCertificateRepo) Insert(_ context.Context, c domain.Certificate) (domain.Certificate, error) {
	r.d.nextCertificateID++
	c.ID = r.d.nextCertificateID
	c.Tags = nil
	r.d.certificates[c.ID] = c
	return c, nil
}

func (r *memCertificateRepo) UpdateFields(_ context.Context, id int64, f domain.CertificateFields) (domain.Certificate, error) {
	c, ok := r.d.certificates[id]
	if !ok {
		return domain.Certificate{}, domain.ErrNotFound
	}
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Description != nil {
		c.Description = *f.Description
	}
	if f.Price != nil {
		c.Price = *f.Price
	}
	if f.Duration != nil {
		c.Duration = *f.Duration
	}
	c.UpdatedAt = f.UpdatedAt
	r.d.certificates[id] = c
	return c, nil
}

func (r *memCertificateRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.d.certificates[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.d.certificates, id)
	for l := range r.d.links {
		if l.certificateID == id {
			delete(r.d.links, l)
		}
	}
	return nil
}

// ---- tags ------------------------------------------------------------------

type memTagRepo struct{ d *memDB }

func (r *memTagRepo) GetByID(_ context.Context, id int64) (domain.Tag, error) {
	t, ok := r.d.tags[id]
	if !ok {
		return domain.Tag{}, domain.ErrNotFound
	}
	return t, nil
}

func (r *memTagRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Tag, error) {
	out := []domain.Tag{}
	for _, id := range ids {
		if t, ok := r.d.tags[id]; ok {
			out = append(out, t)
		}
	}
	sortTags(out)
	return out, nil
}

func (r *memTagRepo) GetByName(_ context.Context, name string) (domain.Tag, error) {
	for _, t := range r.d.tags {
		if t.Name == name {
			return t, nil
		}
	}
	return domain.Tag{}, domain.ErrNotFound
}

func (r *memTagRepo) List(_ context.Context) ([]domain.Tag, error) {
	out := slices.Collect(maps.Values(r.d.tags))
	sortTags(out)
	return out, nil
}

func (r *memTagRepo) Insert(ctx context.Context, name string) (domain.Tag, error) {
	if _, err := r.GetByName(ctx, name); err == nil {
		return domain.Tag{}, fmt.Errorf("%w: tag %q", domain.ErrAlreadyExists, name)
	}
	r.d.nextTagID++
	t := domain.Tag{ID: r.d.nextTagID, Name: name}
	r.d.tags[t.ID] = t
	return t, nil
}

func (r *memTagRepo) Upsert(ctx context.Context, name string) (domain.Tag, error) {
	r.d.upserts++
	if t, err := r.GetByName(ctx, name); err == nil {
		return t, nil
	}
	return r.Insert(ctx, name)
}

func (r *memTagRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.d.tags[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.d.tags, id)
	for l := range r.d.links {
		if l.tagID == id {
			delete(r.d.links, l)
		}
	}
	return nil
}

func sortTags(tags []domain.Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
}

// ---- links -----------------------------------------------------------------

type memLinkRepo struct{ d *memDB }

func (r *memLinkRepo) TagIDsFor(_ context.Context, certificateID int64) ([]int64, error) {
	ids := append([]int64{}, r.d.staleLinks...)
	for l := range r.d.links {
		if l.certificateID == certificateID {
			ids = append(ids, l.tagID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *memLinkRepo) CertificateIDsFor(_ context.Context, tagID int64) ([]int64, error) {
	ids := []int64{}
	for l := range r.d.links {
		if l.tagID == tagID {
			ids = append(ids, l.certificateID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *memLinkRepo) InsertLink(_ context.Context, certificateID, tagID int64) error {
	if r.d.failInsertErr != nil {
		return r.d.failInsertErr
	}
	r.d.linkInserts++
	r.d.links[link{certificateID, tagID}] = true
	return nil
}

func (r *memLinkRepo) DeleteLink(_ context.Context, certificateID, tagID int64) error {
	l := link{certificateID, tagID}
	if !r.d.links[l] {
		return nil
	}
	r.d.linkDeletes++
	delete(r.d.links, l)
	return nil
}

func (r *memLinkRepo) DeleteAllFor(_ context.Context, certificateID int64) (int64, error) {
	var n int64
	for l := range r.d.links {
		if l.certificateID == certificateID {
			delete(r.d.links, l)
			n++
		}
	}
	return n, nil
}

// compile-time checks: the fakes must satisfy the repo interfaces.
var (
	_ repo.Store              = (*memStore)(nil)
	_ repo.CertificateRepo    = (*memCertificateRepo)(nil)
	_ repo.TagRepo            = (*memTagRepo)(nil)
	_ repo.CertificateTagRepo = (*memLinkRepo)(nil)
)

// ---- helpers ---------------------------------------------------------------

func ptr[T any](v T) *T { return &v }

func validInput(tags ...string) domain.CertificateInput {
	in := domain.CertificateInput{
		Name:        ptr("Spa day"),
		Description: ptr("Full day at the spa"),
		Price:       ptr(int64(15000)),
		Duration:    ptr(int64(90)),
	}
	if tags != nil {
		in.Tags = &tags
	}
	return in
}
