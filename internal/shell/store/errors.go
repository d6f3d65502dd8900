// Package store provides persistence for contract template definitions.
package store

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrTemplateNotFound is returned when no definition exists for a kind.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrConnectionFailed is returned when database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when database migration fails.
	ErrMigrationFailed = errors.New("database migration failed")

	// ErrInvalidData is returned when serialization of a definition fails.
	ErrInvalidData = errors.New("invalid data format")

	// ErrInvalidDefinition is returned when a definition fails domain validation.
	ErrInvalidDefinition = errors.New("invalid template definition")
)

// StoreError wraps errors with additional context.
type StoreError struct {
	Op      string // Operation that failed (e.g., "Load")
	Kind    string // Template kind if applicable
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, kind, message string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// IsNotFound reports whether an error means the requested kind is unknown.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}
