package service

import (
	"context"
	"fmt"

	"github.com/pkordes/gift-catalog/internal/repo"
)

// Diff lists the link writes a reconciliation issued.
type Diff struct {
	Added   []int64
	Removed []int64
}

// Empty reports whether no link was inserted or deleted.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Reconciler moves a certificate's set of linked tags to a desired set with
// the fewest link writes. Links that are already present and still wanted
// are never touched.
type Reconciler struct {
	links    repo.CertificateTagRepo
	resolver *TagResolver
}

// NewReconciler constructs a Reconciler. resolver is only needed for ReconcileNames.
func NewReconciler(links repo.CertificateTagRepo, resolver *TagResolver) *Reconciler {
	return &Reconciler{links: links, resolver: resolver}
}

// Reconcile links every id in desired that is not yet linked and unlinks every
// linked id that is not in desired. Duplicates in desired are ignored.
// Running it again with the same desired set issues no writes.
func (r *Reconciler) Reconcile(ctx context.Context, certificateID int64, desired []int64) (Diff, error) {
	current, err := r.links.TagIDsFor(ctx, certificateID)
	if err != nil {
		return Diff{}, fmt.Errorf("service.Reconciler.Reconcile: %w", err)
	}

	diff := diffIDs(current, desired)

	for _, id := range diff.Added {
		if err := r.links.InsertLink(ctx, certificateID, id); err != nil {
			return Diff{}, fmt.Errorf("service.Reconciler.Reconcile: %w", err)
		}
	}
	for _, id := range diff.Removed {
		if err := r.links.DeleteLink(ctx, certificateID, id); err != nil {
			return Diff{}, fmt.Errorf("service.Reconciler.Reconcile: %w", err)
		}
	}
	return diff, nil
}

// ReconcileNames resolves names to tag ids, creating missing tags, then reconciles.
func (r *Reconciler) ReconcileNames(ctx context.Context, certificateID int64, names []string) (Diff, error) {
	ids, err := r.resolver.Resolve(ctx, names)
	if err != nil {
		return Diff{}, err
	}
	return r.Reconcile(ctx, certificateID, ids)
}

// diffIDs computes desired − current and current − desired, keeping the
// input order of each side.
func diffIDs(current, desired []int64) Diff {
	have := make(map[int64]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[int64]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	var d Diff
	queued := make(map[int64]bool, len(desired))
	for _, id := range desired {
		if !have[id] && !queued[id] {
			d.Added = append(d.Added, id)
			queued[id] = true
		}
	}
	for _, id := range current {
		if !want[id] {
			d.Removed = append(d.Removed, id)
		}
	}
	return d
}
