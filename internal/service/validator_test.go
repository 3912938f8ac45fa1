package service_test

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joestump/gift-certs/internal/service"
	"github.com/joestump/gift-certs/internal/store"
)

func validCertificate() *store.Certificate {
	now := time.Now().UTC()
	return &store.Certificate{
		Name:           "Yoga Pass",
		Description:    "Ten sessions of beginner yoga class",
		Price:          decimal.RequireFromString("49.99"),
		Duration:       30,
		CreateDate:     now,
		LastUpdateDate: now,
		Tags:           []store.Tag{{Name: "Wellness"}},
	}
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *store.Certificate)
		want   []string
	}{
		{name: "valid", modify: func(c *store.Certificate) {}},
		{name: "no tags", modify: func(c *store.Certificate) { c.Tags = nil }},
		{name: "shortest name", modify: func(c *store.Certificate) { c.Name = "Yo" }},
		{name: "longest name", modify: func(c *store.Certificate) { c.Name = strings.Repeat("n", 100) }},
		{name: "shortest description", modify: func(c *store.Certificate) { c.Description = strings.Repeat("d", 15) }},
		{name: "longest description", modify: func(c *store.Certificate) { c.Description = strings.Repeat("d", 500) }},
		{name: "lowest price", modify: func(c *store.Certificate) { c.Price = decimal.NewFromInt(1) }},
		{name: "highest price", modify: func(c *store.Certificate) { c.Price = decimal.NewFromInt(100000) }},
		{name: "shortest duration", modify: func(c *store.Certificate) { c.Duration = 8 }},
		{name: "price with trailing zeros", modify: func(c *store.Certificate) { c.Price = decimal.RequireFromString("49.9900") }},
		{name: "longest tag name", modify: func(c *store.Certificate) { c.Tags = []store.Tag{{Name: strings.Repeat("t", 255)}} }},
		{name: "longest duration", modify: func(c *store.Certificate) { c.Duration = 365 }},

		{name: "empty name", modify: func(c *store.Certificate) { c.Name = "" }, want: []string{"name"}},
		{name: "one char name", modify: func(c *store.Certificate) { c.Name = "Y" }, want: []string{"name"}},
		{name: "name too long", modify: func(c *store.Certificate) { c.Name = strings.Repeat("n", 101) }, want: []string{"name"}},
		{name: "empty description", modify: func(c *store.Certificate) { c.Description = "" }, want: []string{"description"}},
		{name: "description too short", modify: func(c *store.Certificate) { c.Description = strings.Repeat("d", 14) }, want: []string{"description"}},
		{name: "description too long", modify: func(c *store.Certificate) { c.Description = strings.Repeat("d", 501) }, want: []string{"description"}},
		{name: "missing price", modify: func(c *store.Certificate) { c.Price = decimal.Zero }, want: []string{"price"}},
		{name: "price below minimum", modify: func(c *store.Certificate) { c.Price = decimal.RequireFromString("0.99") }, want: []string{"price"}},
		{name: "price above maximum", modify: func(c *store.Certificate) { c.Price = decimal.RequireFromString("100000.01") }, want: []string{"price"}},
		{name: "price just above maximum", modify: func(c *store.Certificate) { c.Price = decimal.RequireFromString("100000.0000000000000001") }, want: []string{"price"}},
		{name: "price just below minimum", modify: func(c *store.Certificate) { c.Price = decimal.RequireFromString("0.99999999999999999999") }, want: []string{"price"}},
		{name: "price with three decimals", modify: func(c *store.Certificate) { c.Price = decimal.RequireFromString("49.995") }, want: []string{"price"}},
		{name: "negative price", modify: func(c *store.Certificate) { c.Price = decimal.NewFromInt(-5) }, want: []string{"price"}},
		{name: "duration too short", modify: func(c *store.Certificate) { c.Duration = 7 }, want: []string{"duration"}},
		{name: "duration too long", modify: func(c *store.Certificate) { c.Duration = 366 }, want: []string{"duration"}},
		{name: "missing create date", modify: func(c *store.Certificate) { c.CreateDate = time.Time{} }, want: []string{"createDate"}},
		{name: "missing last update date", modify: func(c *store.Certificate) { c.LastUpdateDate = time.Time{} }, want: []string{"lastUpdateDate"}},
		{name: "tag name too long", modify: func(c *store.Certificate) { c.Tags = []store.Tag{{Name: strings.Repeat("t", 256)}} }, want: []string{"tags"}},
		{
			name: "price out of range among other violations",
			modify: func(c *store.Certificate) {
				c.Name = ""
				c.Price = decimal.RequireFromString("100000.0000000000000001")
				c.Duration = 1
			},
			want: []string{"name", "price", "duration"},
		},
		{name: "blank tag name", modify: func(c *store.Certificate) { c.Tags = []store.Tag{{Name: " "}} }, want: []string{"tags"}},
		{
			name: "every field invalid",
			modify: func(c *store.Certificate) {
				*c = store.Certificate{Duration: 400, Tags: []store.Tag{{Name: ""}}}
			},
			want: []string{"name", "description", "price", "duration", "createDate", "lastUpdateDate", "tags"},
		},
	}

	v := service.NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCertificate()
			tt.modify(c)

			err := v.Validate(c)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}

			var verr *service.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate = %v, want *ValidationError", err)
			}
			if !errors.Is(err, service.ErrValidation) {
				t.Errorf("error does not wrap ErrValidation: %v", err)
			}
			if !slices.Equal(verr.Violations, tt.want) {
				t.Errorf("violations = %v, want %v", verr.Violations, tt.want)
			}
		})
	}
}

func TestValidator_Validate_Nil(t *testing.T) {
	err := service.NewValidator().Validate(nil)
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("Validate(nil) = %v, want ErrValidation", err)
	}
}

func TestValidator_Validate_FreshAccumulatorPerCall(t *testing.T) {
	v := service.NewValidator()

	bad := validCertificate()
	bad.Name = ""
	if err := v.Validate(bad); err == nil {
		t.Fatal("expected error for empty name")
	}

	other := validCertificate()
	other.Duration = 1
	var verr *service.ValidationError
	if !errors.As(v.Validate(other), &verr) {
		t.Fatal("expected *ValidationError")
	}
	if !slices.Equal(verr.Violations, []string{"duration"}) {
		t.Errorf("violations = %v, want [duration]", verr.Violations)
	}

	if err := v.Validate(validCertificate()); err != nil {
		t.Errorf("Validate(valid) after failures = %v, want nil", err)
	}
}

func TestValidator_ValidateTagName(t *testing.T) {
	v := service.NewValidator()

	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{name: "simple", tag: "Wellness"},
		{name: "padded", tag: "  Wellness  "},
		{name: "longest", tag: strings.Repeat("é", service.MaxTagNameLength)},
		{name: "blank", tag: "   ", wantErr: true},
		{name: "too long", tag: strings.Repeat("t", service.MaxTagNameLength+1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTagName(tt.tag)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidateTagName = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, service.ErrValidation) {
				t.Errorf("error does not wrap ErrValidation: %v", err)
			}
		})
	}
}
