package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Certificate represents a row in the gift_certificates table together with
// its linked tags. The validate tags describe the field invariants every
// persisted certificate satisfies; the price range is checked by
// service.Validator.
type Certificate struct {
	ID             int64           `db:"id" json:"id"`
	Name           string          `db:"name" json:"name" validate:"required,min=2,max=100"`
	Description    string          `db:"description" json:"description" validate:"required,min=15,max=500"`
	Price          decimal.Decimal `db:"price" json:"price" validate:"required"`
	Duration       int             `db:"duration" json:"duration" validate:"gte=8,lte=365"`
	CreateDate     time.Time       `db:"create_date" json:"createDate" validate:"required"`
	LastUpdateDate time.Time       `db:"last_update_date" json:"lastUpdateDate" validate:"required"`
	Tags           []Tag           `db:"-" json:"tags"`
}

const certificateColumns = `id, name, description, price, duration, create_date, last_update_date`

// CertificateStore is the sqlx-backed implementation of CertificateRepository.
// It runs against either the pool or a transaction.
type CertificateStore struct {
	q sqlx.ExtContext
}

// NewCertificateStore creates a new CertificateStore.
func NewCertificateStore(q sqlx.ExtContext) *CertificateStore {
	return &CertificateStore{q: q}
}

// Add inserts the certificate row (without tags) and returns the id assigned
// by the database. The id comes back from the insert itself, via RETURNING on
// PostgreSQL and SQLite and the driver's last insert id on MySQL.
func (s *CertificateStore) Add(ctx context.Context, c *Certificate) (int64, error) {
	query := `
		INSERT INTO gift_certificates (name, description, price, duration, create_date, last_update_date)
		VALUES (?, ?, ?, ?, ?, ?)`
	args := []any{c.Name, c.Description, c.Price, c.Duration, c.CreateDate, c.LastUpdateDate}

	if s.q.DriverName() == "mysql" {
		res, err := s.q.ExecContext(ctx, s.q.Rebind(query), args...)
		if err != nil {
			return 0, writeError(err)
		}
		return res.LastInsertId()
	}

	var id int64
	err := sqlx.GetContext(ctx, s.q, &id, s.q.Rebind(query+` RETURNING id`), args...)
	if err != nil {
		return 0, writeError(err)
	}
	return id, nil
}

// FindByID returns the certificate with its tags, or ErrNotFound.
func (s *CertificateStore) FindByID(ctx context.Context, id int64) (*Certificate, error) {
	return s.findOne(ctx, `SELECT `+certificateColumns+` FROM gift_certificates WHERE id = ?`, id)
}

// FindByName returns the certificate with the exact given name, or ErrNotFound.
func (s *CertificateStore) FindByName(ctx context.Context, name string) (*Certificate, error) {
	return s.findOne(ctx, `SELECT `+certificateColumns+` FROM gift_certificates WHERE name = ?`, name)
}

func (s *CertificateStore) findOne(ctx context.Context, query string, arg any) (*Certificate, error) {
	var c Certificate
	err := sqlx.GetContext(ctx, s.q, &c, s.q.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c.Tags = []Tag{}
	err = sqlx.SelectContext(ctx, s.q, &c.Tags, s.q.Rebind(`
		SELECT t.id, t.name FROM tags t
		INNER JOIN certificate_tags ct ON ct.tag_id = t.id
		WHERE ct.certificate_id = ?
		ORDER BY t.name ASC
	`), c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// certificateTag is one row of the certificate_tags join used to hydrate
// tag sets in bulk.
type certificateTag struct {
	CertificateID int64 `db:"certificate_id"`
	Tag
}

// FindAll returns every certificate ordered by id, each with its tag set.
func (s *CertificateStore) FindAll(ctx context.Context) ([]*Certificate, error) {
	var certs []*Certificate
	err := sqlx.SelectContext(ctx, s.q, &certs,
		`SELECT `+certificateColumns+` FROM gift_certificates ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}

	var links []certificateTag
	err = sqlx.SelectContext(ctx, s.q, &links, `
		SELECT ct.certificate_id, t.id, t.name FROM certificate_tags ct
		INNER JOIN tags t ON t.id = ct.tag_id
		ORDER BY t.name ASC
	`)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*Certificate, len(certs))
	for _, c := range certs {
		c.Tags = []Tag{}
		byID[c.ID] = c
	}
	for _, l := range links {
		if c, ok := byID[l.CertificateID]; ok {
			c.Tags = append(c.Tags, l.Tag)
		}
	}
	return certs, nil
}

// Update overwrites every column of the certificate row. Tag links are left
// untouched.
func (s *CertificateStore) Update(ctx context.Context, c *Certificate) error {
	_, err := s.q.ExecContext(ctx, s.q.Rebind(`
		UPDATE gift_certificates
		SET name = ?, description = ?, price = ?, duration = ?, create_date = ?, last_update_date = ?
		WHERE id = ?
	`), c.Name, c.Description, c.Price, c.Duration, c.CreateDate, c.LastUpdateDate, c.ID)
	if err != nil {
		return writeError(err)
	}
	return nil
}

// Remove deletes the certificate row and reports whether a row existed.
// Tag links must be cleared first with UnlinkAllTags.
func (s *CertificateStore) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, s.q.Rebind(`DELETE FROM gift_certificates WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LinkTag links tagID to certificateID.
func (s *CertificateStore) LinkTag(ctx context.Context, certificateID, tagID int64) error {
	_, err := s.q.ExecContext(ctx, s.q.Rebind(`
		INSERT INTO certificate_tags (certificate_id, tag_id) VALUES (?, ?)
	`), certificateID, tagID)
	return err
}

// UnlinkAllTags removes every tag link of certificateID.
func (s *CertificateStore) UnlinkAllTags(ctx context.Context, certificateID int64) error {
	_, err := s.q.ExecContext(ctx, s.q.Rebind(`DELETE FROM certificate_tags WHERE certificate_id = ?`), certificateID)
	return err
}

func writeError(err error) error {
	if isUniqueConstraintError(err) {
		return ErrNameTaken
	}
	return err
}
