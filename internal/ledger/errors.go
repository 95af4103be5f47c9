package ledger

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes storage-layer failures.
type ErrorCode string

const (
	// ErrCodeSchemaFailed indicates the backing store is unreachable or
	// rejected DDL. Fatal: startup must abort.
	ErrCodeSchemaFailed ErrorCode = "SCHEMA_FAILED"

	// ErrCodeMigrationRecord indicates a single legacy record failed to
	// convert or insert. Logged and skipped; the migration continues.
	ErrCodeMigrationRecord ErrorCode = "MIGRATION_RECORD"

	// ErrCodeConstraintViolation indicates a foreign-key or enum-domain
	// constraint would be violated. Rejected, never silently coerced.
	ErrCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"

	// ErrCodeNotFound indicates an update or delete targeted a
	// nonexistent id. The caller decides whether that is expected.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeGenExhausted indicates the site-code generator fell back to
	// a suffixed code. Observable, not a failure.
	ErrCodeGenExhausted ErrorCode = "CODE_EXHAUSTED"
)

// Error is a typed storage-layer failure.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Entity names the affected entity kind ("site", "worker", ...).
	Entity string

	// ID identifies the affected row, when known.
	ID string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Entity != "" && e.ID != "":
		return fmt.Sprintf("%s: %s %s: %s", e.Code, e.Entity, e.ID, e.Message)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Entity, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// NewNotFound creates a NOT_FOUND error for an entity id.
func NewNotFound(entity, id string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Entity:  entity,
		ID:      id,
		Message: "no such row",
	}
}

// NewConstraint creates a CONSTRAINT_VIOLATION error.
func NewConstraint(entity, message string, cause error) *Error {
	return &Error{
		Code:    ErrCodeConstraintViolation,
		Entity:  entity,
		Message: message,
		Err:     cause,
	}
}

// IsNotFound reports whether err is a NOT_FOUND error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Code == ErrCodeNotFound
}

// IsConstraintViolation reports whether err is a CONSTRAINT_VIOLATION
// error. Uses errors.As to handle wrapped errors.
func IsConstraintViolation(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Code == ErrCodeConstraintViolation
}

// IsSchemaFailure reports whether err is a SCHEMA_FAILED error.
func IsSchemaFailure(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Code == ErrCodeSchemaFailed
}
