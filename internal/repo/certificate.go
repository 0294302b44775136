package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/gift-catalog/internal/domain"
	"github.com/pkordes/gift-catalog/internal/query"
)

// CertificateRepo defines the persistence operations for Certificates.
// Tags are not read or written here; see CertificateTagRepo.
type CertificateRepo interface {
	// GetByID retrieves a single certificate by primary key.
	// Returns domain.ErrNotFound if no certificate with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Certificate, error)

	// List returns all certificates ordered by id.
	List(ctx context.Context) ([]domain.Certificate, error)

	// ListFiltered returns the certificates selected by f.
	// Unsorted fragments are ordered by id.
	ListFiltered(ctx context.Context, f query.Fragment) ([]domain.Certificate, error)

	// Insert stores a new certificate and returns it with its generated id.
	// The caller supplies both timestamps.
	Insert(ctx context.Context, c domain.Certificate) (domain.Certificate, error)

	// UpdateFields writes only the non-nil fields plus UpdatedAt.
	// Returns domain.ErrNotFound if no certificate with that ID exists.
	UpdateFields(ctx context.Context, id int64, fields domain.CertificateFields) (domain.Certificate, error)

	// Delete removes a certificate by ID. Returns domain.ErrNotFound if it does not exist.
	// Links to tags are removed by the foreign key cascade.
	Delete(ctx context.Context, id int64) error
}

const (
	certificateColumns = `id, name, description, price, duration, create_date, last_update_date`
	selectCertificates = `SELECT ` + certificateColumns + ` FROM certificates`
)

// pgCertificateRepo is the Postgres implementation of CertificateRepo.
type pgCertificateRepo struct {
	db      db
	builder *query.Builder
}

// NewCertificateRepo constructs a CertificateRepo backed by the provided db connection.
func NewCertificateRepo(db db) CertificateRepo {
	return &pgCertificateRepo{db: db, builder: query.NewBuilder(query.CertificateFields)}
}

func (r *pgCertificateRepo) GetByID(ctx context.Context, id int64) (domain.Certificate, error) {
	const q = selectCertificates + ` WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCertificate(row)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("repo.CertificateRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgCertificateRepo) List(ctx context.Context) ([]domain.Certificate, error) {
	certs, err := r.query(ctx, selectCertificates+` ORDER BY id`, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.CertificateRepo.List: %w", err)
	}
	return certs, nil
}

func (r *pgCertificateRepo) ListFiltered(ctx context.Context, f query.Fragment) ([]domain.Certificate, error) {
	q := f.SQL(selectCertificates)
	if !f.Sorted() {
		q += ` ORDER BY id`
	}

	certs, err := r.query(ctx, q, f.Args())
	if err != nil {
		return nil, fmt.Errorf("repo.CertificateRepo.ListFiltered: %w", err)
	}
	return certs, nil
}

func (r *pgCertificateRepo) Insert(ctx context.Context, c domain.Certificate) (domain.Certificate, error) {
	const q = `
		INSERT INTO certificates (name, description, price, duration, create_date, last_update_date)
		VALUES (@name, @description, @price, @duration, @create_date, @last_update_date)
		RETURNING ` + certificateColumns

	args := pgx.NamedArgs{
		"name":             c.Name,
		"description":      c.Description,
		"price":            c.Price,
		"duration":         c.Duration,
		"create_date":      c.CreatedAt,
		"last_update_date": c.UpdatedAt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCertificate(row)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("repo.CertificateRepo.Insert: %w", err)
	}
	return result, nil
}

// UpdateFields builds the SET list through the query builder so that only
// supplied columns are written and all values are bound.
func (r *pgCertificateRepo) UpdateFields(ctx context.Context, id int64, fields domain.CertificateFields) (domain.Certificate, error) {
	assignments := []query.Assignment{{Field: "last_update_date", Value: fields.UpdatedAt}}
	if fields.Name != nil {
		assignments = append(assignments, query.Assignment{Field: "name", Value: *fields.Name})
	}
	if fields.Description != nil {
		assignments = append(assignments, query.Assignment{Field: "description", Value: *fields.Description})
	}
	if fields.Price != nil {
		assignments = append(assignments, query.Assignment{Field: "price", Value: *fields.Price})
	}
	if fields.Duration != nil {
		assignments = append(assignments, query.Assignment{Field: "duration", Value: *fields.Duration})
	}

	stmt, err := r.builder.BuildUpdate(`UPDATE certificates SET`, id, assignments)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("repo.CertificateRepo.UpdateFields: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt.SQL+` RETURNING `+certificateColumns, stmt.Args)
	result, err := scanCertificate(row)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("repo.CertificateRepo.UpdateFields: %w", err)
	}
	return result, nil
}

func (r *pgCertificateRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM certificates WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CertificateRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CertificateRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgCertificateRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Certificate, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := []domain.Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return certs, nil
}

// scanCertificate maps a single database row into a domain.Certificate.
// Tags are left nil; the service attaches them.
func scanCertificate(s scanner) (domain.Certificate, error) {
	var c domain.Certificate
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.Duration, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Certificate{}, domain.ErrNotFound
		}
		return domain.Certificate{}, err
	}
	return c, nil
}
