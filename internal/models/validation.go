package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError is returned when an entity violates its invariants. It
// carries every violation found, not just the first one.
type ValidationError struct {
	Entity string
	errs   *multierror.Error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.errs.Errors))
	for _, err := range e.errs.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual field errors to errors.Is / errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.errs.WrappedErrors()
}

// Fields returns the names of all invalid fields in the order they were found.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.errs.Errors))
	for _, err := range e.errs.Errors {
		var fe *FieldError
		if errors.As(err, &fe) {
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type validator struct {
	entity string
	errs   *multierror.Error
}

func newValidator(entity string) *validator {
	return &validator{entity: entity}
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		v.errs = multierror.Append(v.errs, &FieldError{Field: field, Message: message})
	}
}

func (v *validator) err() error {
	if v.errs == nil || len(v.errs.Errors) == 0 {
		return nil
	}
	return &ValidationError{Entity: v.entity, errs: v.errs}
}

func countNonBlank(values []string) int {
	n := 0
	for _, s := range values {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
