package service

import (
	"errors"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/joestump/gift-certs/internal/store"
)

// MaxTagNameLength matches the width of tags.name on PostgreSQL and MySQL.
const MaxTagNameLength = 255

var (
	minPrice = decimal.NewFromInt(1)
	maxPrice = decimal.NewFromInt(100000)
)

// Validator checks certificate field invariants. It never stops at the first
// failure: every field is evaluated and all violations are reported together.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator with the certificate rules registered.
func NewValidator() *Validator {
	v := validator.New()
	// Report violations under their JSON names (name, createDate, ...).
	v.RegisterTagNameFunc(jsonName)
	v.RegisterStructValidation(validatePrice, store.Certificate{})
	// required sees decimals as their float64 value; zero stays zero.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return &Validator{v: v}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

// validatePrice compares the price as a decimal, so values such as
// 100000.0000000000000001 are not rounded into range. More than two decimal
// places is rejected to match the NUMERIC(12,2) column. A zero price is left
// to the required rule.
func validatePrice(sl validator.StructLevel) {
	c, ok := sl.Current().Interface().(store.Certificate)
	if !ok || c.Price.IsZero() {
		return
	}
	if c.Price.Cmp(minPrice) < 0 || c.Price.Cmp(maxPrice) > 0 || !c.Price.Equal(c.Price.Round(2)) {
		sl.ReportError(c.Price, "price", "Price", "price_range", "")
	}
}

// fieldOrder ranks violations by the position of their field in
// store.Certificate, so struct-level errors sort in with the field errors.
var fieldOrder = func() map[string]int {
	t := reflect.TypeOf(store.Certificate{})
	order := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		order[jsonName(t.Field(i))] = i
	}
	return order
}()

// Validate returns a *ValidationError naming every invalid field of c, or nil.
func (v *Validator) Validate(c *store.Certificate) error {
	if c == nil {
		return &ValidationError{Violations: []string{"certificate"}}
	}

	var violations []string
	if err := v.v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			violations = append(violations, fe.Field())
		}
	}

	for _, t := range c.Tags {
		if v.ValidateTagName(t.Name) != nil {
			violations = append(violations, "tags")
			break
		}
	}

	if len(violations) > 0 {
		slices.SortStableFunc(violations, func(a, b string) int {
			return fieldOrder[a] - fieldOrder[b]
		})
		return &ValidationError{Violations: slices.Compact(violations)}
	}
	return nil
}

// ValidateTagName rejects blank names and names longer than
// MaxTagNameLength characters once trimmed.
func (v *Validator) ValidateTagName(name string) error {
	if err := v.v.Var(strings.TrimSpace(name), "required,max="+strconv.Itoa(MaxTagNameLength)); err != nil {
		return &ValidationError{Violations: []string{"name"}}
	}
	return nil
}
