package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lkemp/userbase/internal/api/shared"
	"github.com/lkemp/userbase/internal/domain"
	"github.com/lkemp/userbase/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrEmptyUserID),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest

	// Default: internal server error. The documented surface has no 409 or
	// 503, so duplicate IDs and an unavailable store both land here.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrUserExists):
		return "User already exists"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrEmptyUserID),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid user data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// validationFieldErrors flattens a validator/v10 failure into the per-field
// entries of the validation error body. Every handler-level 400 carries this
// shape so it matches the documented ValidationError schema regardless of
// which pipeline stage rejected the request.
func validationFieldErrors(err error) []shared.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []shared.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]shared.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, shared.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed on the %q rule", fe.Tag()),
			Value:   fe.Value(),
		})
	}
	return out
}
