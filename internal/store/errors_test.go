package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
		conflict  bool
	}{
		{name: "nil error"},
		{name: "generic error", err: errors.New("some error")},
		{name: "ErrNotFound", err: ErrNotFound, notFound: true},
		{name: "ErrProductNotFound", err: ErrProductNotFound, notFound: true},
		{
			name:     "wrapped ErrReviewNotFound",
			err:      fmt.Errorf("failed to find review: %w", ErrReviewNotFound),
			notFound: true,
		},
		{name: "ErrDuplicateProduct", err: ErrDuplicateProduct, duplicate: true},
		{
			name:      "StoreError wrapping ErrDuplicateReview",
			err:       NewStoreError("review", "save", "unique violation", ErrDuplicateReview),
			duplicate: true,
		},
		{name: "ErrVersionConflict", err: ErrVersionConflict, conflict: true},
		{
			name:     "wrapped ErrVersionConflict",
			err:      fmt.Errorf("save product: %w", ErrVersionConflict),
			conflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err), "IsNotFoundError")
			assert.Equal(t, tt.duplicate, IsDuplicateError(tt.err), "IsDuplicateError")
			assert.Equal(t, tt.conflict, IsVersionConflict(tt.err), "IsVersionConflict")
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")

	withCause := NewStoreError("product", "save", "insert failed", cause)
	assert.Equal(t, "save operation on product failed: insert failed: connection reset", withCause.Error())
	assert.ErrorIs(t, withCause, cause)

	noCause := NewStoreError("review", "delete", "no rows", nil)
	assert.Equal(t, "delete operation on review failed: no rows", noCause.Error())
	assert.Nil(t, noCause.Unwrap())
}
