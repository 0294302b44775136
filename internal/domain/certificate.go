// Package domain contains the core data types for the gift catalog.
// This package has zero external dependencies and is imported by every other
// internal package (query, validation, repo, service, handler).
package domain

import "time"

// Certificate is a purchasable gift certificate.
// Price is in minor currency units; Duration is in days.
// Tags are attached on read and are ordered by name.
type Certificate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Duration    int64     `json:"duration"`
	CreatedAt   time.Time `json:"create_date"`
	UpdatedAt   time.Time `json:"last_update_date"`
	Tags        []Tag     `json:"tags"`
}

// CertificateInput is the write-side shape of a certificate.
// A nil field was not supplied by the caller. For Tags the distinction matters:
// nil leaves existing links alone, a pointer to an empty slice clears them.
type CertificateInput struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *int64    `json:"price"`
	Duration    *int64    `json:"duration"`
	Tags        *[]string `json:"tags"`
}

// IsEmpty reports whether the input supplies no field at all.
func (in CertificateInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil &&
		in.Price == nil && in.Duration == nil && in.Tags == nil
}

// HasFields reports whether at least one column of the certificate row
// itself is supplied. Tags live in the link table and are not counted.
func (in CertificateInput) HasFields() bool {
	return in.Name != nil || in.Description != nil || in.Price != nil || in.Duration != nil
}

// CertificateFields is the set of columns a partial update writes.
// Nil pointers are left untouched in storage. UpdatedAt is always written.
type CertificateFields struct {
	Name        *string
	Description *string
	Price       *int64
	Duration    *int64
	UpdatedAt   time.Time
}

// SearchParams selects and orders certificates.
// An empty Field skips filtering; an empty SortBy keeps storage order by id.
type SearchParams struct {
	Field    string
	Contains string
	SortBy   string
	Asc      bool
}
