package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested row does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a save would violate a natural-key
	// uniqueness constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrVersionConflict is returned when an update presents a version that no
	// longer matches the stored row, meaning another writer won the race.
	ErrVersionConflict = errors.New("version conflict")

	// ErrInvalidEntity is returned when a row is rejected by a storage-level
	// constraint other than uniqueness (check, not null, foreign key).
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrProductNotFound indicates that the requested product row does not exist.
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)

	// ErrReviewNotFound indicates that the requested review row does not exist.
	ErrReviewNotFound = fmt.Errorf("%w: review", ErrNotFound)

	// ErrDuplicateProduct indicates that a product with the same productId exists.
	ErrDuplicateProduct = fmt.Errorf("%w: product", ErrDuplicate)

	// ErrDuplicateReview indicates that a review with the same
	// (productId, reviewId) exists.
	ErrDuplicateReview = fmt.Errorf("%w: review", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsVersionConflict checks if the error reports a stale version.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "product", "review")
	Operation string // The operation that failed (e.g., "save", "delete")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
