package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/joestump/gift-certs/internal/store"
)

// TagService exposes the tag catalog on its own.
type TagService struct {
	store     store.Transactor
	validator *Validator
}

// NewTagService creates a new TagService.
func NewTagService(s store.Transactor, v *Validator) *TagService {
	return &TagService{store: s, validator: v}
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]*store.Tag, error) {
	return s.store.Tags().ListAll(ctx)
}

// Create returns the tag called name, creating it if needed.
func (s *TagService) Create(ctx context.Context, name string) (*store.Tag, error) {
	if err := s.validator.ValidateTagName(name); err != nil {
		return nil, err
	}
	return s.store.Tags().AddIfAbsent(ctx, name)
}

// FindByName returns the tag called name.
func (s *TagService) FindByName(ctx context.Context, name string) (*store.Tag, error) {
	tag, err := s.store.Tags().FindByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: tag %q", ErrUnknownEntity, name)
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}
