package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/gift-catalog/internal/domain"
)

// CertificateTagRepo defines the persistence operations for the
// certificate_tags join table. The (certificate_id, tag_id) primary key
// guarantees at most one link per pair.
type CertificateTagRepo interface {
	// TagIDsFor returns the ids of all tags linked to a certificate, ascending.
	TagIDsFor(ctx context.Context, certificateID int64) ([]int64, error)

	// CertificateIDsFor returns the ids of all certificates linked to a tag, ascending.
	CertificateIDsFor(ctx context.Context, tagID int64) ([]int64, error)

	// InsertLink links a tag to a certificate. Linking an already linked pair is not an error.
	// Returns domain.ErrConflict if either side no longer exists.
	InsertLink(ctx context.Context, certificateID, tagID int64) error

	// DeleteLink unlinks a tag from a certificate. Unlinking a pair that is not
	// linked is not an error.
	DeleteLink(ctx context.Context, certificateID, tagID int64) error

	// DeleteAllFor removes every link of a certificate and reports how many went.
	DeleteAllFor(ctx context.Context, certificateID int64) (int64, error)
}

// pgCertificateTagRepo is the Postgres implementation of CertificateTagRepo.
type pgCertificateTagRepo struct {
	db db
}

// NewCertificateTagRepo constructs a CertificateTagRepo backed by the provided db connection.
func NewCertificateTagRepo(db db) CertificateTagRepo {
	return &pgCertificateTagRepo{db: db}
}

func (r *pgCertificateTagRepo) TagIDsFor(ctx context.Context, certificateID int64) ([]int64, error) {
	const q = `
		SELECT tag_id FROM certificate_tags
		WHERE certificate_id = @certificate_id
		ORDER BY tag_id`

	ids, err := r.ids(ctx, q, pgx.NamedArgs{"certificate_id": certificateID})
	if err != nil {
		return nil, fmt.Errorf("repo.CertificateTagRepo.TagIDsFor: %w", err)
	}
	return ids, nil
}

func (r *pgCertificateTagRepo) CertificateIDsFor(ctx context.Context, tagID int64) ([]int64, error) {
	const q = `
		SELECT certificate_id FROM certificate_tags
		WHERE tag_id = @tag_id
		ORDER BY certificate_id`

	ids, err := r.ids(ctx, q, pgx.NamedArgs{"tag_id": tagID})
	if err != nil {
		return nil, fmt.Errorf("repo.CertificateTagRepo.CertificateIDsFor: %w", err)
	}
	return ids, nil
}

// InsertLink is idempotent via ON CONFLICT DO NOTHING.
func (r *pgCertificateTagRepo) InsertLink(ctx context.Context, certificateID, tagID int64) error {
	const q = `
		INSERT INTO certificate_tags (certificate_id, tag_id)
		VALUES (@certificate_id, @tag_id)
		ON CONFLICT (certificate_id, tag_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"certificate_id": certificateID, "tag_id": tagID})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("repo.CertificateTagRepo.InsertLink: %w: certificate %d or tag %d was removed",
				domain.ErrConflict, certificateID, tagID)
		}
		return fmt.Errorf("repo.CertificateTagRepo.InsertLink: %w", err)
	}
	return nil
}

// DeleteLink ignores zero affected rows: a concurrent writer may already have
// removed the link after this transaction read it.
func (r *pgCertificateTagRepo) DeleteLink(ctx context.Context, certificateID, tagID int64) error {
	const q = `
		DELETE FROM certificate_tags
		WHERE certificate_id = @certificate_id AND tag_id = @tag_id`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"certificate_id": certificateID, "tag_id": tagID})
	if err != nil {
		return fmt.Errorf("repo.CertificateTagRepo.DeleteLink: %w", err)
	}
	return nil
}

func (r *pgCertificateTagRepo) DeleteAllFor(ctx context.Context, certificateID int64) (int64, error) {
	const q = `DELETE FROM certificate_tags WHERE certificate_id = @certificate_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"certificate_id": certificateID})
	if err != nil {
		return 0, fmt.Errorf("repo.CertificateTagRepo.DeleteAllFor: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgCertificateTagRepo) ids(ctx context.Context, q string, args pgx.NamedArgs) ([]int64, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
