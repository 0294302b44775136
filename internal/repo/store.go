// Package repo contains all database access logic for the gift catalog.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txBeginner is a db that can also open a transaction. *pgxpool.Pool opens a
// real transaction; pgx.Tx opens a savepoint.
type txBeginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles the three repositories that share one connection or transaction.
type Repos struct {
	Certificates CertificateRepo
	Tags         TagRepo
	Links        CertificateTagRepo
}

// New returns Repos all backed by db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func New(db db) Repos {
	return Repos{
		Certificates: NewCertificateRepo(db),
		Tags:         NewTagRepo(db),
		Links:        NewCertificateTagRepo(db),
	}
}

// Store hands out repositories, either bound to the shared connection for
// reads or bound to a fresh transaction for atomic writes.
type Store interface {
	// Repos returns repositories that run outside any transaction.
	Repos() Repos

	// InTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back on any error, which is returned unchanged.
	InTx(ctx context.Context, fn func(Repos) error) error
}

// pgStore is the Postgres implementation of Store.
type pgStore struct {
	conn  txBeginner
	repos Repos
}

// NewStore constructs a Store backed by conn.
func NewStore(conn txBeginner) Store {
	return &pgStore{conn: conn, repos: New(conn)}
}

func (s *pgStore) Repos() Repos {
	return s.repos
}

func (s *pgStore) InTx(ctx context.Context, fn func(Repos) error) error {
	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		return fn(New(tx))
	})
}
