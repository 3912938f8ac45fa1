package service

import (
	"errors"
	"fmt"
	"strings"
)

// Each error kind is terminal for the call that produced it. Callers match
// them with errors.Is; the wrapped message carries the offending name or id.
var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateEntity  = errors.New("duplicate entity")
	ErrUnknownEntity    = errors.New("unknown entity")
	ErrUnknownParameter = errors.New("unknown parameter")
)

// ValidationError lists every field that failed validation, in field order.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Violations, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func unknownCertificate(id int64) error {
	return fmt.Errorf("%w: certificate %d", ErrUnknownEntity, id)
}

func duplicateCertificate(name string) error {
	return fmt.Errorf("%w: certificate %q already exists", ErrDuplicateEntity, name)
}
