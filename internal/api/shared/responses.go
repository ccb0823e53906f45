package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lkemp/userbase/internal/redact"
)

// NormalizedError is the uniform error body returned to clients regardless
// of where the error originated.
type NormalizedError struct {
	Message   string `json:"message"`
	Status    int    `json:"status,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Path      string `json:"path,omitempty"`
}

// NewNormalizedError builds the error body for the given request, stamping
// the originating route and an ISO-8601 timestamp.
func NewNormalizedError(r *http.Request, status int, message string) NormalizedError {
	return NormalizedError{
		Message:   message,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	}
}

// FieldError describes one invalid field in a rejected request.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrorBody is the 400 payload for requests rejected by validation
// anywhere in the pipeline: the normalized error shape plus per-field detail.
type ValidationErrorBody struct {
	NormalizedError
	Errors []FieldError `json:"errors"`
}

// RespondWithValidationError writes the structured 400 body for a request
// that failed validation. The errors array is always present, even when no
// field could be singled out.
func RespondWithValidationError(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fieldErrs []FieldError,
) {
	if fieldErrs == nil {
		fieldErrs = []FieldError{}
	}

	body := ValidationErrorBody{
		NormalizedError: NewNormalizedError(r, http.StatusBadRequest, message),
		Errors:          fieldErrs,
	}
	RespondWithJSON(w, r, http.StatusBadRequest, body)
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a normalized JSON error response with the given
// status code and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, NewNormalizedError(r, status, message))
}

// RespondWithErrorAndLog writes a normalized JSON error response and also
// logs the detailed error. This is the single point where errors carrying an
// explicit status are translated for the client: the full error is logged
// server-side, only the sanitized message is sent.
//
// Log level strategy:
// - 5xx errors: always logged at ERROR level with the redacted error detail
// - 4xx errors: logged at DEBUG level
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	// The raw error detail goes to the logs only, redacted, never to the client.
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, NewNormalizedError(r, status, userMessage))
}
