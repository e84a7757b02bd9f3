// Package apperr defines the error kinds surfaced by the clinic services.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad or missing caller input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an operation targeting a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStore marks a failed call to the record store.
	ErrStore = errors.New("store error")
)

// Validation returns an error of kind ErrValidation with the given message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns an error of kind ErrNotFound with the given message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Store wraps a persistence failure so that it matches both ErrStore and err.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsStore reports whether err is a store error.
func IsStore(err error) bool { return errors.Is(err, ErrStore) }
