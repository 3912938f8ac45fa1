// Package migrations contains dialect-aware Go database migrations. The
// catalog schema needs different identity, decimal and timestamp column types
// per database, so it cannot be a single cross-database SQL file.
package migrations

import (
	"context"
	"database/sql"
)

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}

func execAll(ctx context.Context, tx *sql.Tx, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
