package util

import (
	"errors"
	"fmt"
)

// Domain error types shared by all endpoint services. Handlers map these
// onto HTTP responses with the matching Call* helper.

// InvalidInputError reports a field value that fails a constraint.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid value for field %q", e.Field)
	}
	return fmt.Sprintf("invalid value for field %q: %s", e.Field, e.Reason)
}

// ErrInvalidInput builds an InvalidInputError for the named field.
func ErrInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// PermissionDeniedError reports that the actor lacks the role or
// relationship required for the operation.
type PermissionDeniedError struct {
	Reason string
}

func (e *PermissionDeniedError) Error() string {
	if e.Reason == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Reason
}

// ErrPermissionDenied builds a PermissionDeniedError.
func ErrPermissionDenied(reason string) error {
	return &PermissionDeniedError{Reason: reason}
}

// DuplicateEntryError reports a uniqueness invariant violation, naming
// the conflicting constraint.
type DuplicateEntryError struct {
	Constraint string
}

func (e *DuplicateEntryError) Error() string {
	return "duplicate entry: " + e.Constraint
}

// ErrDuplicateEntry builds a DuplicateEntryError.
func ErrDuplicateEntry(constraint string) error {
	return &DuplicateEntryError{Constraint: constraint}
}

// NotFoundError reports a missing or soft-deleted entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// ErrNotFound builds a NotFoundError for the named entity.
func ErrNotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var e *InvalidInputError
	return errors.As(err, &e)
}

// IsPermissionDenied reports whether err is a PermissionDeniedError.
func IsPermissionDenied(err error) bool {
	var e *PermissionDeniedError
	return errors.As(err, &e)
}

// IsDuplicateEntry reports whether err is a DuplicateEntryError.
func IsDuplicateEntry(err error) bool {
	var e *DuplicateEntryError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
