package service_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/joestump/gift-certs/internal/service"
	"github.com/joestump/gift-certs/internal/store"
)

func catalog() []*store.Certificate {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	return []*store.Certificate{
		{ID: 1, Name: "spa day", Description: "A relaxing day at the spa", CreateDate: day(3),
			Tags: []store.Tag{{ID: 1, Name: "Wellness"}}},
		{ID: 2, Name: "Yoga Pass", Description: "Ten sessions of beginner yoga class", CreateDate: day(1),
			Tags: []store.Tag{{ID: 1, Name: "Wellness"}, {ID: 2, Name: "Free"}}},
		{ID: 3, Name: "Bungee Jump", Description: "One jump from the city bridge", CreateDate: day(2),
			Tags: []store.Tag{{ID: 3, Name: "Extreme"}}},
	}
}

func ids(certs []*store.Certificate) []int64 {
	out := make([]int64, 0, len(certs))
	for _, c := range certs {
		out = append(out, c.ID)
	}
	return out
}

func TestPipeline_Apply(t *testing.T) {
	tests := []struct {
		name string
		ops  []service.Operation
		want []int64
	}{
		{name: "no operations", ops: nil, want: []int64{1, 2, 3}},
		{name: "filter by tag", ops: []service.Operation{{"tag", "Wellness"}}, want: []int64{1, 2}},
		{name: "filter by unused tag", ops: []service.Operation{{"tag", "Nothing"}}, want: []int64{}},
		{name: "filter by name part", ops: []service.Operation{{"name", "YOGA"}}, want: []int64{2}},
		{name: "filter by description part", ops: []service.Operation{{"description", "jump"}}, want: []int64{3}},
		{name: "sort by name asc", ops: []service.Operation{{"sort_by_name", "asc"}}, want: []int64{3, 1, 2}},
		{name: "sort by name default", ops: []service.Operation{{"sort_by_name", ""}}, want: []int64{3, 1, 2}},
		{name: "sort by name desc", ops: []service.Operation{{"sort_by_name", "DESC"}}, want: []int64{2, 1, 3}},
		{name: "sort by date asc", ops: []service.Operation{{"sort_by_date", "asc"}}, want: []int64{2, 3, 1}},
		{name: "sort by date desc", ops: []service.Operation{{"sort_by_date", "desc"}}, want: []int64{1, 3, 2}},
		{name: "composite sort", ops: []service.Operation{{"sort", "name_desc"}}, want: []int64{2, 1, 3}},
		{name: "composite date sort", ops: []service.Operation{{"sort", "date_asc"}}, want: []int64{2, 3, 1}},
		{
			name: "filter then sort",
			ops:  []service.Operation{{"tag", "Wellness"}, {"sort_by_date", "asc"}},
			want: []int64{2, 1},
		},
		{
			name: "last sort wins",
			ops:  []service.Operation{{"sort_by_date", "asc"}, {"sort_by_name", "asc"}},
			want: []int64{3, 1, 2},
		},
	}

	p := service.DefaultPipeline()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Apply(catalog(), tt.ops)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("ids = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestPipeline_Apply_UnknownParameter(t *testing.T) {
	tests := []struct {
		name string
		ops  []service.Operation
	}{
		{name: "unknown operation", ops: []service.Operation{{"price", "10"}}},
		{name: "unknown after valid", ops: []service.Operation{{"tag", "Wellness"}, {"bogus", ""}}},
		{name: "bad direction", ops: []service.Operation{{"sort_by_name", "sideways"}}},
		{name: "bad composite key", ops: []service.Operation{{"sort", "price_asc"}}},
	}

	p := service.DefaultPipeline()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Apply(catalog(), tt.ops)
			if !errors.Is(err, service.ErrUnknownParameter) {
				t.Errorf("Apply = %v, want ErrUnknownParameter", err)
			}
		})
	}
}

func TestPipeline_Apply_DoesNotModifyInput(t *testing.T) {
	in := catalog()
	before := ids(in)

	_, err := service.DefaultPipeline().Apply(in, []service.Operation{{"sort_by_name", "desc"}, {"name", "a"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !slices.Equal(ids(in), before) {
		t.Errorf("input order changed to %v, want %v", ids(in), before)
	}
}

func TestPipeline_Register(t *testing.T) {
	p := service.NewPipeline()
	if _, err := p.Resolve("first"); !errors.Is(err, service.ErrUnknownParameter) {
		t.Fatalf("Resolve on empty pipeline = %v, want ErrUnknownParameter", err)
	}

	p.Register("first", func(certs []*store.Certificate, _ string) ([]*store.Certificate, error) {
		return certs[:1], nil
	})
	got, err := p.Apply(catalog(), []service.Operation{{Name: "first"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !slices.Equal(ids(got), []int64{1}) {
		t.Errorf("ids = %v, want [1]", ids(got))
	}
	if !slices.Equal(p.Names(), []string{"first"}) {
		t.Errorf("Names = %v, want [first]", p.Names())
	}
}
