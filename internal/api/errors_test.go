package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/shop-api/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", newBadRequest(msgTypeMismatch, nil), http.StatusBadRequest},
		{"invalid input", service.NewInvalidInput("Invalid productId: -1"), http.StatusUnprocessableEntity},
		{"wrapped invalid input", fmt.Errorf("create: %w", service.NewInvalidInput("x")), http.StatusUnprocessableEntity},
		{"not found", &service.NotFoundError{Message: "No product found for productId: 1"}, http.StatusNotFound},
		{"conflict", &service.ConflictError{Message: "raced"}, http.StatusConflict},
		{"transient", errors.New("dial tcp: i/o timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, msgUnexpected, GetSafeErrorMessage(nil))
	assert.Equal(t, msgUnexpected, GetSafeErrorMessage(errors.New("password=hunter22 rejected")))
	assert.Equal(t, "Invalid productId: -1", GetSafeErrorMessage(service.NewInvalidInput("Invalid productId: -1")))
	assert.Equal(t, msgTypeMismatch, GetSafeErrorMessage(newBadRequest(msgTypeMismatch, errors.New("strconv"))))
}
