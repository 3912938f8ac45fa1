package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNameTaken is returned when a write collides with the unique index on a
	// certificate name.
	ErrNameTaken = errors.New("name is already taken")
)

// CertificateRepository exposes all certificate data operations.
// Nothing outside this package queries the gift_certificates or
// certificate_tags tables directly.
type CertificateRepository interface {
	Add(ctx context.Context, c *Certificate) (int64, error)
	FindByID(ctx context.Context, id int64) (*Certificate, error)
	FindByName(ctx context.Context, name string) (*Certificate, error)
	FindAll(ctx context.Context) ([]*Certificate, error)
	Update(ctx context.Context, c *Certificate) error
	Remove(ctx context.Context, id int64) (bool, error)
	LinkTag(ctx context.Context, certificateID, tagID int64) error
	UnlinkAllTags(ctx context.Context, certificateID int64) error
}

// TagRepository exposes tag operations.
type TagRepository interface {
	AddIfAbsent(ctx context.Context, name string) (*Tag, error)
	FindByName(ctx context.Context, name string) (*Tag, error)
	ListAll(ctx context.Context) ([]*Tag, error)
}

// Transactor hands out repositories bound either to the connection pool or to
// a single transaction.
type Transactor interface {
	Certificates() CertificateRepository
	Tags() TagRepository
	WithinTx(ctx context.Context, fn func(certs CertificateRepository, tags TagRepository) error) error
	WithinReadTx(ctx context.Context, fn func(certs CertificateRepository, tags TagRepository) error) error
}
