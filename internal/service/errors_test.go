package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessages = StoreErrorMessages{
	Duplicate: "Duplicate key, Product Id: 1",
	Conflict:  "Version conflict, Product Id: 1",
	NotFound:  "No product found for productId: 1",
}

func TestTranslateStoreError(t *testing.T) {
	transient := errors.New("connection refused")

	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{
			name:    "duplicate",
			err:     store.NewStoreError("product", "create", "unique", store.ErrDuplicateProduct),
			kind:    ErrInvalidInput,
			message: "Duplicate key, Product Id: 1",
		},
		{
			name:    "version conflict",
			err:     fmt.Errorf("%w: product 3 is at version 2, not 1", store.ErrVersionConflict),
			kind:    ErrVersionConflict,
			message: "Version conflict, Product Id: 1",
		},
		{
			name:    "not found",
			err:     store.ErrProductNotFound,
			kind:    ErrNotFound,
			message: "No product found for productId: 1",
		},
		{
			name:    "constraint",
			err:     fmt.Errorf("%w: check", store.ErrInvalidEntity),
			kind:    ErrInvalidInput,
			message: "Rejected by store constraint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateStoreError(tt.err, testMessages)

			require.Error(t, got)
			assert.ErrorIs(t, got, tt.kind)
			assert.Equal(t, tt.message, got.Error())
			assert.ErrorIs(t, got, tt.err, "the store error stays reachable")
		})
	}

	assert.NoError(t, TranslateStoreError(nil, testMessages))
	assert.Same(t, transient, TranslateStoreError(transient, testMessages))
}

func TestFromViolations(t *testing.T) {
	v := domain.Violations{
		{Field: "productId", Message: "must be greater than or equal to 0"},
		{Field: "weight", Message: "must be greater than or equal to 1"},
	}

	err := FromViolations(v)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "productId: must be greater than or equal to 0, weight: must be greater than or equal to 1", err.Error())

	var target *InvalidInputError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, []string{"productId", "weight"}, target.Violations.Fields())
}

func TestErrorKindsAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, NewInvalidInput("Invalid productId: %d", -1), ErrNotFound)
	assert.NotErrorIs(t, &ConflictError{Message: "x"}, ErrInvalidInput)
	assert.NotErrorIs(t, &NotFoundError{Message: "x"}, ErrVersionConflict)
	assert.Equal(t, "Invalid productId: -1", NewInvalidInput("Invalid productId: %d", -1).Error())
}
