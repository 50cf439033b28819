package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/redact"
)

// HTTPErrorInfo is the body of every error response.
type HTTPErrorInfo struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
}

// Now is the clock used for error timestamps.
var Now = func() time.Time { return time.Now().UTC() }

// StatusName returns the upper snake case name of an HTTP status, for
// example UNPROCESSABLE_ENTITY for 422.
func StatusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("STATUS_%d", status)
	}
	text = strings.ToUpper(text)
	text = strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text)
	return text
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes an HTTPErrorInfo with the given status and message
// and logs err, redacted, next to it. The raw error never reaches the client.
//
// Log level strategy:
// - 5xx errors: ERROR
// - 4xx errors: DEBUG
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	log := logger.FromContext(r.Context())

	attrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", message),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.LogAttrs(r.Context(), level, "API error response", attrs...)

	RespondWithJSON(w, r, status, HTTPErrorInfo{
		Timestamp: Now(),
		Path:      r.URL.Path,
		Status:    StatusName(status),
		Message:   message,
	})
}
