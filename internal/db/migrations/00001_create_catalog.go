package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCatalog, downCreateCatalog)
}

// The unique index on gift_certificates.name is the authoritative duplicate
// guard; the service-level name lookup only short-circuits the common case.
func upCreateCatalog(ctx context.Context, tx *sql.Tx) error {
	if err := execAll(ctx, tx, catalogUpStmts()); err != nil {
		return fmt.Errorf("create catalog tables: %w", err)
	}
	return nil
}

func downCreateCatalog(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, []string{
		`DROP TABLE IF EXISTS certificate_tags`,
		`DROP TABLE IF EXISTS tags`,
		`DROP TABLE IF EXISTS gift_certificates`,
	})
}

func catalogUpStmts() []string {
	switch dialect {
	case "postgres":
		return []string{
			`CREATE TABLE IF NOT EXISTS gift_certificates (
    id               BIGSERIAL PRIMARY KEY,
    name             VARCHAR(100) NOT NULL,
    description      VARCHAR(500) NOT NULL,
    price            NUMERIC(12,2) NOT NULL,
    duration         INTEGER NOT NULL,
    create_date      TIMESTAMPTZ NOT NULL,
    last_update_date TIMESTAMPTZ NOT NULL,
    CONSTRAINT gift_certificates_name_key UNIQUE (name)
)`,
			`CREATE TABLE IF NOT EXISTS tags (
    id   BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    CONSTRAINT tags_name_key UNIQUE (name)
)`,
			`CREATE TABLE IF NOT EXISTS certificate_tags (
    certificate_id BIGINT NOT NULL REFERENCES gift_certificates (id),
    tag_id         BIGINT NOT NULL REFERENCES tags (id),
    PRIMARY KEY (certificate_id, tag_id)
)`,
			`CREATE INDEX IF NOT EXISTS certificate_tags_tag_idx ON certificate_tags (tag_id)`,
		}

	case "mysql":
		return []string{
			`CREATE TABLE IF NOT EXISTS gift_certificates (
    id               BIGINT AUTO_INCREMENT PRIMARY KEY,
    name             VARCHAR(100) NOT NULL,
    description      VARCHAR(500) NOT NULL,
    price            DECIMAL(12,2) NOT NULL,
    duration         INT NOT NULL,
    create_date      DATETIME(6) NOT NULL,
    last_update_date DATETIME(6) NOT NULL,
    UNIQUE KEY gift_certificates_name_key (name)
) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS tags (
    id   BIGINT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    UNIQUE KEY tags_name_key (name)
) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS certificate_tags (
    certificate_id BIGINT NOT NULL,
    tag_id         BIGINT NOT NULL,
    PRIMARY KEY (certificate_id, tag_id),
    KEY certificate_tags_tag_idx (tag_id),
    CONSTRAINT certificate_tags_certificate_fk FOREIGN KEY (certificate_id) REFERENCES gift_certificates (id),
    CONSTRAINT certificate_tags_tag_fk FOREIGN KEY (tag_id) REFERENCES tags (id)
) ENGINE=InnoDB`,
		}

	default: // sqlite3
		// price is TEXT so decimal values round-trip without float conversion.
		return []string{
			`CREATE TABLE IF NOT EXISTS gift_certificates (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    name             TEXT NOT NULL UNIQUE,
    description      TEXT NOT NULL,
    price            TEXT NOT NULL,
    duration         INTEGER NOT NULL,
    create_date      TIMESTAMP NOT NULL,
    last_update_date TIMESTAMP NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS tags (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
)`,
			`CREATE TABLE IF NOT EXISTS certificate_tags (
    certificate_id INTEGER NOT NULL REFERENCES gift_certificates (id),
    tag_id         INTEGER NOT NULL REFERENCES tags (id),
    PRIMARY KEY (certificate_id, tag_id)
)`,
			`CREATE INDEX IF NOT EXISTS certificate_tags_tag_idx ON certificate_tags (tag_id)`,
		}
	}
}
