package service

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/joestump/gift-certs/internal/store"
)

// CertificatePatch is a partial update. Nil or zero-valued fields are absent;
// an empty Tags list keeps the current tags rather than clearing them.
type CertificatePatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Duration    *int
	Tags        []string
}

// CollectFullData merges patch onto current and returns a complete
// certificate ready for the full update path. current is not modified.
func CollectFullData(patch CertificatePatch, current *store.Certificate) *store.Certificate {
	merged := *current
	merged.Tags = slices.Clone(current.Tags)

	if patch.Name != nil && *patch.Name != "" {
		merged.Name = *patch.Name
	}
	if patch.Description != nil && *patch.Description != "" {
		merged.Description = *patch.Description
	}
	if patch.Price != nil && !patch.Price.IsZero() {
		merged.Price = *patch.Price
	}
	if patch.Duration != nil && *patch.Duration != 0 {
		merged.Duration = *patch.Duration
	}
	if len(patch.Tags) > 0 {
		merged.Tags = TagsFromNames(patch.Tags)
	}
	return &merged
}

// TagsFromNames builds unresolved tags (no id yet) from their names.
func TagsFromNames(names []string) []store.Tag {
	tags := make([]store.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, store.Tag{Name: n})
	}
	return tags
}
