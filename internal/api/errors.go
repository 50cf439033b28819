package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/service"
)

// Transport-level messages.
const (
	msgTypeMismatch     = "Type mismatch."
	msgMalformedRequest = "Malformed request body."
	msgUnexpected       = "An unexpected error occurred"
)

// errBadRequest marks failures detected before a service is called.
var errBadRequest = errors.New("bad request")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message a client may see for err. Service
// errors carry messages written for callers; anything else is replaced.
func GetSafeErrorMessage(err error) string {
	if err == nil || MapErrorToStatusCode(err) == http.StatusInternalServerError {
		return msgUnexpected
	}
	return err.Error()
}

// HandleAPIError writes the error response for err.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// badRequest is a transport failure with a caller-facing message.
type badRequest struct {
	message string
	err     error
}

func (e *badRequest) Error() string        { return e.message }
func (e *badRequest) Is(target error) bool { return target == errBadRequest }
func (e *badRequest) Unwrap() error        { return e.err }

func newBadRequest(message string, err error) error {
	return &badRequest{message: message, err: err}
}
