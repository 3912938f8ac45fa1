package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Tag represents a row in the tags table.
type Tag struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TagStore is the sqlx-backed implementation of TagRepository.
type TagStore struct {
	q sqlx.ExtContext
}

// NewTagStore creates a new TagStore.
func NewTagStore(q sqlx.ExtContext) *TagStore {
	return &TagStore{q: q}
}

// AddIfAbsent returns the tag with the given name, creating it first if it
// doesn't exist. Concurrent callers racing on the same name end up with the
// same row: the insert is a no-op when the unique index already holds the name.
func (s *TagStore) AddIfAbsent(ctx context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	existing, err := s.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	insert := `INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING`
	if s.q.DriverName() == "mysql" {
		insert = `INSERT IGNORE INTO tags (name) VALUES (?)`
	}
	if _, err := s.q.ExecContext(ctx, s.q.Rebind(insert), name); err != nil {
		return nil, err
	}

	return s.FindByName(ctx, name)
}

// FindByName returns the tag matching name, or ErrNotFound.
func (s *TagStore) FindByName(ctx context.Context, name string) (*Tag, error) {
	var t Tag
	err := sqlx.GetContext(ctx, s.q, &t, s.q.Rebind(`SELECT id, name FROM tags WHERE name = ?`), strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll returns all tags ordered by name.
func (s *TagStore) ListAll(ctx context.Context) ([]*Tag, error) {
	var tags []*Tag
	err := sqlx.SelectContext(ctx, s.q, &tags, `SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return tags, nil
}
