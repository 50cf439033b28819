package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/shop-api/internal/api/shared"
)

// getPathInt extracts an integer path parameter.
func getPathInt(r *http.Request, paramName string) (int, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, newBadRequest(fmt.Sprintf("Required path variable '%s' is not present.", paramName), nil)
	}
	return parseInt(raw)
}

// getQueryInt extracts a required integer query parameter.
func getQueryInt(r *http.Request, paramName string) (int, error) {
	values, ok := r.URL.Query()[paramName]
	if !ok || len(values) == 0 {
		return 0, newBadRequest(fmt.Sprintf("Required query parameter '%s' is not present.", paramName), nil)
	}
	return parseInt(values[0])
}

func parseInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newBadRequest(msgTypeMismatch, err)
	}
	return n, nil
}

// decodeAndValidate reads a JSON body into v and checks its transport rules.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := shared.DecodeJSON(r, v); err != nil {
		return newBadRequest(msgMalformedRequest, err)
	}
	if err := shared.ValidateRequest(v); err != nil {
		return newBadRequest(shared.ValidationMessage(err), err)
	}
	return nil
}
