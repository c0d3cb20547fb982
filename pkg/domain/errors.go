package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups that referenced a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks rejected input such as an empty name.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate marks a name that collides with a sibling entity.
	ErrDuplicate = errors.New("duplicate")
)

// NotFoundError reports which entity could not be located.
type NotFoundError struct {
	Entity EntityKind
	Key    string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// Unwrap allows errors.Is(err, ErrNotFound).
func (e NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a rejected input field. An empty Reason means the
// field was blank after trimming.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s cannot be empty", e.Field)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e ValidationError) Unwrap() error { return ErrValidation }

// DuplicateError reports a sibling name collision.
type DuplicateError struct {
	Entity EntityKind
	Key    string
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

// Unwrap allows errors.Is(err, ErrDuplicate).
func (e DuplicateError) Unwrap() error { return ErrDuplicate }
