package service

import (
	"context"
	"errors"

	"github.com/joestump/gift-certs/internal/store"
)

// DuplicationChecker looks up certificate names before a write. It is a fast
// path only: two concurrent writers can both pass the check, and the unique
// index on gift_certificates.name decides which one wins.
type DuplicationChecker struct {
	certs store.CertificateRepository
}

// NewDuplicationChecker creates a DuplicationChecker over certs.
func NewDuplicationChecker(certs store.CertificateRepository) *DuplicationChecker {
	return &DuplicationChecker{certs: certs}
}

// CheckForAdd reports false if any certificate already uses c.Name.
func (d *DuplicationChecker) CheckForAdd(ctx context.Context, c *store.Certificate) (bool, error) {
	existing, err := d.lookup(ctx, c.Name)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// CheckForUpdate reports false if a different certificate already uses
// c.Name. Keeping one's own name is fine.
func (d *DuplicationChecker) CheckForUpdate(ctx context.Context, c *store.Certificate) (bool, error) {
	existing, err := d.lookup(ctx, c.Name)
	if err != nil {
		return false, err
	}
	return existing == nil || existing.ID == c.ID, nil
}

func (d *DuplicationChecker) lookup(ctx context.Context, name string) (*store.Certificate, error) {
	existing, err := d.certs.FindByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return existing, nil
}
