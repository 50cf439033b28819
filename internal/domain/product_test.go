package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductValidate(t *testing.T) {
	name100 := strings.Repeat("1234567890", 10)

	tests := []struct {
		name    string
		product Product
		want    []string
	}{
		{
			name:    "valid product",
			product: Product{ProductID: 0, Name: "Water", Weight: 4},
		},
		{
			name:    "name at minimum length",
			product: Product{ProductID: 1, Name: "Tests", Weight: 1},
		},
		{
			name:    "name at maximum length",
			product: Product{ProductID: 1, Name: name100, Weight: 1},
		},
		{
			name:    "name one below minimum",
			product: Product{ProductID: 1, Name: "Test", Weight: 1},
			want:    []string{"name: size must be between 5 and 100"},
		},
		{
			name:    "name one above maximum",
			product: Product{ProductID: 1, Name: name100 + "1", Weight: 1},
			want:    []string{"name: size must be between 5 and 100"},
		},
		{
			name:    "empty name is blank and too short",
			product: Product{ProductID: 1, Name: "", Weight: 1},
			want:    []string{"name: must not be blank", "name: size must be between 5 and 100"},
		},
		{
			name:    "whitespace name is blank",
			product: Product{ProductID: 1, Name: "       ", Weight: 1},
			want:    []string{"name: must not be blank"},
		},
		{
			name:    "negative product id",
			product: Product{ProductID: -1, Name: "Valid Product", Weight: 1},
			want:    []string{"productId: must be greater than or equal to 0"},
		},
		{
			name:    "zero weight",
			product: Product{ProductID: 1, Name: "Valid Product", Weight: 0},
			want:    []string{"weight: must be greater than or equal to 1"},
		},
		{
			name:    "negative weight",
			product: Product{ProductID: 1, Name: "Valid Product", Weight: -5},
			want:    []string{"weight: must be greater than or equal to 1"},
		},
		{
			name:    "all fields invalid are reported together in order",
			product: Product{ProductID: -1, Name: "Bad", Weight: 0},
			want: []string{
				"productId: must be greater than or equal to 0",
				"name: size must be between 5 and 100",
				"weight: must be greater than or equal to 1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := tt.product.Validate()

			got := make([]string, len(violations))
			for i, v := range violations {
				got[i] = v.String()
			}
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				assert.NoError(t, violations.Err())
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestViolationsError(t *testing.T) {
	violations := Product{ProductID: -1, Name: "Bad", Weight: 0}.Validate()

	err := violations.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t,
		"productId: must be greater than or equal to 0, name: size must be between 5 and 100, weight: must be greater than or equal to 1",
		err.Error())
	assert.Equal(t, []string{"productId", "name", "weight"}, violations.Fields())
}

func TestValidateProductID(t *testing.T) {
	assert.NoError(t, ValidateProductID(0))
	assert.NoError(t, ValidateProductID(213))

	err := ValidateProductID(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestProductWithServiceAddress(t *testing.T) {
	p := Product{ProductID: 1, Name: "Tests", Weight: 1}

	stamped := p.WithServiceAddress("host/10.0.0.1:7001")

	assert.Equal(t, "host/10.0.0.1:7001", stamped.ServiceAddress)
	assert.Empty(t, p.ServiceAddress, "original must not be modified")
}
