package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors repositories return for expected conditions. Services
// translate them into response envelopes; they never reach the
// presentation layer as raw errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("store unavailable")
)

// ValidationError aggregates field-level validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NewValidationError wraps a non-empty error list.
func NewValidationError(errs []string) *ValidationError {
	return &ValidationError{Errors: errs}
}

// NotFound builds an ErrNotFound with the entity and id attached.
func NotFound(entite, id string) error {
	return fmt.Errorf("%s %q: %w", entite, id, ErrNotFound)
}
