package testutil

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/gift-certs/internal/db"
	_ "modernc.org/sqlite"
)

// NewTestDB opens an in-memory SQLite DB and runs all goose migrations.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	// A file URI with shared cache lets every pool connection see the same
	// in-memory database. Each test gets a unique name to avoid cross-test
	// interference; busy_timeout absorbs lock contention between a running
	// transaction and concurrent readers.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return conn
}
