package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/gift-catalog/internal/domain"
)

// Postgres SQLSTATE codes mapped to domain errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// TagRepo defines the persistence operations for Tags.
// Name uniqueness is enforced by the tags_name_key index.
type TagRepo interface {
	// GetByID retrieves a single tag by primary key.
	// Returns domain.ErrNotFound if no tag with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Tag, error)

	// GetByIDs returns the tags with the given ids, ordered by name.
	// Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error)

	// GetByName retrieves a tag by its exact name.
	// Returns domain.ErrNotFound if no tag has that name.
	GetByName(ctx context.Context, name string) (domain.Tag, error)

	// List returns all tags ordered by name.
	List(ctx context.Context) ([]domain.Tag, error)

	// Insert creates a tag. Returns domain.ErrAlreadyExists if the name is taken.
	Insert(ctx context.Context, name string) (domain.Tag, error)

	// Upsert inserts a tag by name, or returns the existing tag if the name
	// already exists. Concurrent callers settle on the same row.
	Upsert(ctx context.Context, name string) (domain.Tag, error)

	// Delete removes a tag by ID. Returns domain.ErrNotFound if it does not exist.
	// Links to certificates are removed by the foreign key cascade.
	Delete(ctx context.Context, id int64) error
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

func (r *pgTagRepo) GetByID(ctx context.Context, id int64) (domain.Tag, error) {
	const q = `SELECT id, name FROM tags WHERE id = @id`

	result, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTagRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	const q = `SELECT id, name FROM tags WHERE id = ANY(@ids) ORDER BY name`

	tags, err := r.query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.GetByIDs: %w", err)
	}
	return tags, nil
}

func (r *pgTagRepo) GetByName(ctx context.Context, name string) (domain.Tag, error) {
	const q = `SELECT id, name FROM tags WHERE name = @name`

	result, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.GetByName: %w", err)
	}
	return result, nil
}

func (r *pgTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	const q = `SELECT id, name FROM tags ORDER BY name`

	tags, err := r.query(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	return tags, nil
}

func (r *pgTagRepo) Insert(ctx context.Context, name string) (domain.Tag, error) {
	const q = `INSERT INTO tags (name) VALUES (@name) RETURNING id, name`

	result, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Tag{}, fmt.Errorf("repo.TagRepo.Insert: %w: tag %q", domain.ErrAlreadyExists, name)
		}
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Insert: %w", err)
	}
	return result, nil
}

// Upsert inserts a tag or returns the existing row on name conflict.
// DO NOTHING would return no row on conflict; the no-op DO UPDATE makes
// RETURNING yield the existing one.
func (r *pgTagRepo) Upsert(ctx context.Context, name string) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (name)
		VALUES (@name)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	result, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgTagRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tags WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TagRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTagRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return tags, nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var t domain.Tag
	if err := s.Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	return t, nil
}
