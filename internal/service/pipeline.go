package service

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/joestump/gift-certs/internal/store"
)

// Operation is one named step of a listing chain, e.g. {"sort", "name_asc"}.
type Operation struct {
	Name  string
	Value string
}

// Transformer returns a new list derived from certs. It must not modify certs
// or the certificates it points to.
type Transformer func(certs []*store.Certificate, value string) ([]*store.Certificate, error)

// Pipeline is a registry of named transformers applied as a left-to-right
// fold over a certificate list. Register everything before the first Apply;
// the registry is read-only afterwards.
type Pipeline struct {
	ops map[string]Transformer
}

// NewPipeline creates an empty Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{ops: make(map[string]Transformer)}
}

// DefaultPipeline returns a pipeline holding the standard filter and sort
// operations.
func DefaultPipeline() *Pipeline {
	p := NewPipeline()
	p.Register("tag", FilterByTagName)
	p.Register("name", FilterByNamePart)
	p.Register("description", FilterByDescriptionPart)
	p.Register("sort_by_name", SortByName)
	p.Register("sort_by_date", SortByDate)
	p.Register("sort", Sort)
	return p
}

// Register adds or replaces the transformer for name.
func (p *Pipeline) Register(name string, fn Transformer) {
	p.ops[name] = fn
}

// Names returns the registered operation names in lexical order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.ops))
	for n := range p.ops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the transformer registered for name.
func (p *Pipeline) Resolve(name string) (Transformer, error) {
	fn, ok := p.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: operation %q", ErrUnknownParameter, name)
	}
	return fn, nil
}

// Apply runs ops in order, feeding each step the previous step's output.
func (p *Pipeline) Apply(certs []*store.Certificate, ops []Operation) ([]*store.Certificate, error) {
	out := certs
	for _, op := range ops {
		fn, err := p.Resolve(op.Name)
		if err != nil {
			return nil, err
		}
		out, err = fn(out, op.Value)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func filter(certs []*store.Certificate, keep func(*store.Certificate) bool) []*store.Certificate {
	out := make([]*store.Certificate, 0, len(certs))
	for _, c := range certs {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByTagName keeps certificates carrying a tag named exactly value.
func FilterByTagName(certs []*store.Certificate, value string) ([]*store.Certificate, error) {
	name := strings.TrimSpace(value)
	return filter(certs, func(c *store.Certificate) bool {
		return slices.ContainsFunc(c.Tags, func(t store.Tag) bool { return t.Name == name })
	}), nil
}

// FilterByNamePart keeps certificates whose name contains value, ignoring case.
func FilterByNamePart(certs []*store.Certificate, value string) ([]*store.Certificate, error) {
	part := strings.ToLower(value)
	return filter(certs, func(c *store.Certificate) bool {
		return strings.Contains(strings.ToLower(c.Name), part)
	}), nil
}

// FilterByDescriptionPart keeps certificates whose description contains
// value, ignoring case.
func FilterByDescriptionPart(certs []*store.Certificate, value string) ([]*store.Certificate, error) {
	part := strings.ToLower(value)
	return filter(certs, func(c *store.Certificate) bool {
		return strings.Contains(strings.ToLower(c.Description), part)
	}), nil
}

func byName(a, b *store.Certificate) int {
	return cmp.Or(
		strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		cmp.Compare(a.ID, b.ID),
	)
}

func byDate(a, b *store.Certificate) int {
	return cmp.Or(a.CreateDate.Compare(b.CreateDate), cmp.Compare(a.ID, b.ID))
}

// SortByName orders by name, case-insensitively. value is asc (default) or desc.
func SortByName(certs []*store.Certificate, value string) ([]*store.Certificate, error) {
	return sortBy(certs, value, byName)
}

// SortByDate orders by creation date. value is asc (default) or desc.
func SortByDate(certs []*store.Certificate, value string) ([]*store.Certificate, error) {
	return sortBy(certs, value, byDate)
}

// Sort accepts a combined key: name_asc, name_desc, date_asc or date_desc.
func Sort(certs []*store.Certificate, value string) ([]*store.Certificate, error) {
	field, dir, _ := strings.Cut(strings.ToLower(strings.TrimSpace(value)), "_")
	switch field {
	case "name":
		return sortBy(certs, dir, byName)
	case "date":
		return sortBy(certs, dir, byDate)
	default:
		return nil, fmt.Errorf("%w: sort key %q", ErrUnknownParameter, value)
	}
}

func sortBy(certs []*store.Certificate, direction string, compare func(a, b *store.Certificate) int) ([]*store.Certificate, error) {
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc":
	case "desc":
		asc := compare
		compare = func(a, b *store.Certificate) int { return asc(b, a) }
	default:
		return nil, fmt.Errorf("%w: sort direction %q", ErrUnknownParameter, direction)
	}
	out := slices.Clone(certs)
	slices.SortStableFunc(out, compare)
	return out, nil
}
