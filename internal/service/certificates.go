package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joestump/gift-certs/internal/metrics"
	"github.com/joestump/gift-certs/internal/store"
)

// ListOptions controls CertificateService.List. Operations run in the given
// order. TagNames, when set, keeps only certificates carrying at least one of
// the named tags. Size 0 disables paging; Page is 1-based.
type ListOptions struct {
	Operations []Operation
	TagNames   []string
	Page       int
	Size       int
}

// CertificateService owns the certificate write paths. Every write runs in a
// single storage transaction so readers never see a certificate with a
// partially rewritten tag set, and a failure at any step leaves nothing behind.
type CertificateService struct {
	store     store.Transactor
	validator *Validator
	pipeline  *Pipeline
	now       func() time.Time
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(s store.Transactor, v *Validator, p *Pipeline) *CertificateService {
	return &CertificateService{
		store:     s,
		validator: v,
		pipeline:  p,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Add creates a certificate, resolving or creating its tags by name, and
// returns the stored entity.
func (s *CertificateService) Add(ctx context.Context, c *store.Certificate) (*store.Certificate, error) {
	in := *c
	in.ID = 0
	now := s.now()
	in.CreateDate = now
	in.LastUpdateDate = now

	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}

	var created *store.Certificate
	err := s.store.WithinTx(ctx, func(certs store.CertificateRepository, tags store.TagRepository) error {
		ok, err := NewDuplicationChecker(certs).CheckForAdd(ctx, &in)
		if err != nil {
			return err
		}
		if !ok {
			return duplicateCertificate(in.Name)
		}

		id, err := certs.Add(ctx, &in)
		if err != nil {
			return storeWriteError(err, in.Name)
		}
		if err := linkTags(ctx, certs, tags, id, in.Tags); err != nil {
			return err
		}

		created, err = reload(ctx, certs, id)
		return err
	})
	metrics.CertificateWritesTotal.WithLabelValues("add", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	log.Debug().Int64("certificate_id", created.ID).Str("name", created.Name).Msg("certificate added")
	return created, nil
}

// List loads every certificate, narrows it by TagNames and then runs the
// operation chain. A tag name that matches no tag fails the whole call with
// ErrUnknownEntity instead of producing an empty list.
func (s *CertificateService) List(ctx context.Context, opts ListOptions) ([]*store.Certificate, error) {
	var certs []*store.Certificate
	err := s.store.WithinReadTx(ctx, func(certRepo store.CertificateRepository, tagRepo store.TagRepository) error {
		all, err := certRepo.FindAll(ctx)
		if err != nil {
			return err
		}
		certs, err = filterByTagNames(ctx, tagRepo, all, opts.TagNames)
		return err
	})
	if err != nil {
		return nil, err
	}

	certs, err = s.pipeline.Apply(certs, opts.Operations)
	if err != nil {
		return nil, err
	}
	return paginate(certs, opts.Page, opts.Size), nil
}

// filterByTagNames keeps certificates carrying at least one of names. Every
// name must resolve to an existing tag.
func filterByTagNames(ctx context.Context, tags store.TagRepository, certs []*store.Certificate, names []string) ([]*store.Certificate, error) {
	if len(names) == 0 {
		return certs, nil
	}
	wanted := make(map[int64]bool, len(names))
	for _, name := range names {
		tag, err := tags.FindByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: tag %q", ErrUnknownEntity, name)
		}
		if err != nil {
			return nil, err
		}
		wanted[tag.ID] = true
	}
	return filter(certs, func(c *store.Certificate) bool {
		for _, t := range c.Tags {
			if wanted[t.ID] {
				return true
			}
		}
		return false
	}), nil
}

func paginate(certs []*store.Certificate, page, size int) []*store.Certificate {
	if size <= 0 {
		return certs
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(certs) {
		return []*store.Certificate{}
	}
	end := min(start+size, len(certs))
	return certs[start:end]
}

// FindByID returns the certificate with its tags.
func (s *CertificateService) FindByID(ctx context.Context, id int64) (*store.Certificate, error) {
	var c *store.Certificate
	err := s.store.WithinReadTx(ctx, func(certs store.CertificateRepository, _ store.TagRepository) error {
		var err error
		c, err = reload(ctx, certs, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces every field of certificate id. An empty tag list keeps the
// current tags; a non-empty one replaces them entirely. The creation date is
// always preserved.
func (s *CertificateService) Update(ctx context.Context, id int64, c *store.Certificate) (*store.Certificate, error) {
	in := *c
	var updated *store.Certificate
	err := s.store.WithinTx(ctx, func(certs store.CertificateRepository, tags store.TagRepository) error {
		current, err := certs.FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return unknownCertificate(id)
		}
		if err != nil {
			return err
		}
		updated, err = s.update(ctx, certs, tags, current, &in)
		return err
	})
	metrics.CertificateWritesTotal.WithLabelValues("update", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	log.Debug().Int64("certificate_id", id).Msg("certificate updated")
	return updated, nil
}

// Patch merges patch onto certificate id and processes the result as a full
// update, including validation and the duplicate-name check.
func (s *CertificateService) Patch(ctx context.Context, id int64, patch CertificatePatch) (*store.Certificate, error) {
	var updated *store.Certificate
	err := s.store.WithinTx(ctx, func(certs store.CertificateRepository, tags store.TagRepository) error {
		current, err := certs.FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return unknownCertificate(id)
		}
		if err != nil {
			return err
		}
		updated, err = s.update(ctx, certs, tags, current, CollectFullData(patch, current))
		return err
	})
	metrics.CertificateWritesTotal.WithLabelValues("patch", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	log.Debug().Int64("certificate_id", id).Msg("certificate patched")
	return updated, nil
}

// update must run inside a transaction; current is the stored state of the
// certificate being replaced by in.
func (s *CertificateService) update(ctx context.Context, certs store.CertificateRepository, tags store.TagRepository, current, in *store.Certificate) (*store.Certificate, error) {
	in.ID = current.ID
	if len(in.Tags) == 0 {
		in.Tags = current.Tags
	}
	in.CreateDate = current.CreateDate
	in.LastUpdateDate = s.now()

	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	ok, err := NewDuplicationChecker(certs).CheckForUpdate(ctx, in)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, duplicateCertificate(in.Name)
	}

	if err := certs.Update(ctx, in); err != nil {
		return nil, storeWriteError(err, in.Name)
	}
	if err := certs.UnlinkAllTags(ctx, in.ID); err != nil {
		return nil, err
	}
	if err := linkTags(ctx, certs, tags, in.ID, in.Tags); err != nil {
		return nil, err
	}
	return reload(ctx, certs, in.ID)
}

// Remove deletes certificate id and all of its tag links.
func (s *CertificateService) Remove(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(certs store.CertificateRepository, _ store.TagRepository) error {
		if _, err := certs.FindByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return unknownCertificate(id)
			}
			return err
		}
		if err := certs.UnlinkAllTags(ctx, id); err != nil {
			return err
		}
		removed, err := certs.Remove(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return unknownCertificate(id)
		}
		return nil
	})
	metrics.CertificateWritesTotal.WithLabelValues("remove", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	log.Debug().Int64("certificate_id", id).Msg("certificate removed")
	return nil
}

// linkTags resolves each requested tag by name, creating it on first use, and
// links it to certificateID. The certificate must start with no links; a name
// that resolves to an already linked tag is skipped.
func linkTags(ctx context.Context, certs store.CertificateRepository, tags store.TagRepository, certificateID int64, requested []store.Tag) error {
	linked := make(map[int64]bool, len(requested))
	for _, t := range requested {
		tag, err := tags.AddIfAbsent(ctx, t.Name)
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", t.Name, err)
		}
		if linked[tag.ID] {
			continue
		}
		if err := certs.LinkTag(ctx, certificateID, tag.ID); err != nil {
			return fmt.Errorf("link tag %q: %w", tag.Name, err)
		}
		linked[tag.ID] = true
	}
	return nil
}

func reload(ctx context.Context, certs store.CertificateRepository, id int64) (*store.Certificate, error) {
	c, err := certs.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, unknownCertificate(id)
	}
	return c, err
}

func storeWriteError(err error, name string) error {
	if errors.Is(err, store.ErrNameTaken) {
		return duplicateCertificate(name)
	}
	return err
}
