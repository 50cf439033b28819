package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/store"
)

// Service error kinds. Callers classify with errors.Is; the concrete types
// below carry the human-readable message.
//
// Error handling principles:
// 1. Validation runs before any store call, so an ErrInvalidInput from a
// write never leaves side effects behind
// 2. Store errors are translated exactly once, by TranslateStoreError
// 3. Transient store errors are returned unmodified and never retried here
// 4. The API layer maps these kinds to HTTP status codes
var (
	// ErrInvalidInput covers field validation failures, duplicate natural keys
	// and key parameters outside their domain.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrInvalidInput = errors.New("invalid input")

	// ErrVersionConflict indicates an update presented a stale version.
	// API layer should map this to HTTP 409 Conflict.
	ErrVersionConflict = errors.New("version conflict")

	// ErrNotFound indicates an operation that requires an existing row found none.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")
)

// InvalidInputError reports rejected input. Violations is set when the
// rejection came from field validation.
type InvalidInputError struct {
	Message    string
	Violations domain.Violations
	Err        error
}

// Error returns the caller-facing message.
func (e *InvalidInputError) Error() string { return e.Message }

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// Unwrap returns the underlying cause, if any.
func (e *InvalidInputError) Unwrap() error { return e.Err }

// NewInvalidInput builds an InvalidInputError with a formatted message.
func NewInvalidInput(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// FromViolations wraps field violations. The message joins them as
// "field: message" pairs in rule order.
func FromViolations(v domain.Violations) *InvalidInputError {
	return &InvalidInputError{Message: v.Error(), Violations: v, Err: v}
}

// ConflictError reports an optimistic locking failure.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) Is(target error) bool { return target == ErrVersionConflict }
func (e *ConflictError) Unwrap() error        { return e.Err }

// NotFoundError reports a missing row on an operation that requires one.
type NotFoundError struct {
	Message string
	Err     error
}

func (e *NotFoundError) Error() string        { return e.Message }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *NotFoundError) Unwrap() error        { return e.Err }

// StoreErrorMessages holds the caller-facing messages TranslateStoreError
// uses for one natural key.
type StoreErrorMessages struct {
	Duplicate string
	Conflict  string
	NotFound  string
}

// TranslateStoreError maps store sentinel errors onto service errors.
// Anything it does not recognize, including transient driver errors, is
// returned unmodified.
func TranslateStoreError(err error, msgs StoreErrorMessages) error {
	switch {
	case err == nil:
		return nil
	case store.IsDuplicateError(err):
		return &InvalidInputError{Message: msgs.Duplicate, Err: err}
	case store.IsVersionConflict(err):
		return &ConflictError{Message: msgs.Conflict, Err: err}
	case store.IsNotFoundError(err):
		return &NotFoundError{Message: msgs.NotFound, Err: err}
	case errors.Is(err, store.ErrInvalidEntity):
		return &InvalidInputError{Message: "Rejected by store constraint", Err: err}
	default:
		return err
	}
}
