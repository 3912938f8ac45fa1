package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLStore is the sqlx-backed Transactor.
type SQLStore struct {
	db *sqlx.DB
}

// New creates a new SQLStore on db.
func New(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Certificates returns a certificate repository bound to the connection pool.
func (s *SQLStore) Certificates() CertificateRepository {
	return NewCertificateStore(s.db)
}

// Tags returns a tag repository bound to the connection pool.
func (s *SQLStore) Tags() TagRepository {
	return NewTagStore(s.db)
}

// WithinTx runs fn with repositories bound to a single transaction. The
// transaction commits only if fn returns nil; any error or panic rolls back
// every write fn made.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(certs CertificateRepository, tags TagRepository) error) error {
	return s.runTx(ctx, txOptions(s.db.DriverName()), fn)
}

// WithinReadTx runs fn with repositories bound to a read-only transaction
// that sees a single snapshot, so a certificate row and its tag links always
// come from the same committed state.
func (s *SQLStore) WithinReadTx(ctx context.Context, fn func(certs CertificateRepository, tags TagRepository) error) error {
	return s.runTx(ctx, readTxOptions(s.db.DriverName()), fn)
}

func (s *SQLStore) runTx(ctx context.Context, opts *sql.TxOptions, fn func(certs CertificateRepository, tags TagRepository) error) error {
	tx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewCertificateStore(tx), NewTagStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// txOptions asks for read committed where the driver supports choosing an
// isolation level. SQLite transactions are always serializable.
func txOptions(driver string) *sql.TxOptions {
	switch driver {
	case "postgres", "mysql":
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	default:
		return nil
	}
}

// readTxOptions asks for a repeatable-read snapshot. A SQLite read
// transaction already holds one snapshot from its first read.
func readTxOptions(driver string) *sql.TxOptions {
	switch driver {
	case "postgres", "mysql":
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	default:
		return nil
	}
}
