package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lkemp/userbase/internal/domain"
	"github.com/lkemp/userbase/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "user not found maps to 404",
			err:        store.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped user not found maps to 404",
			err:        fmt.Errorf("failed to retrieve user: %w", store.ErrUserNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid entity maps to 400",
			err:        fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyName),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email maps to 400",
			err:        domain.ErrInvalidEmail,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate user maps to 500",
			err:        store.ErrUserExists,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "store unavailable maps to 500",
			err:        store.ErrUnavailable,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("connection reset by peer"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "nil error",
			err:         nil,
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "user not found",
			err:         fmt.Errorf("failed to retrieve user: %w", store.ErrUserNotFound),
			wantMessage: "User not found",
		},
		{
			name:        "duplicate user",
			err:         fmt.Errorf("failed to create user: %w", store.ErrUserExists),
			wantMessage: "User already exists",
		},
		{
			name:        "invalid user data",
			err:         fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidEmail),
			wantMessage: "Invalid user data",
		},
		{
			name:        "internal details never leak",
			err:         errors.New("mongodb://admin:hunter2@db:27017 dial failed"),
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantMessage, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestValidationFieldErrors(t *testing.T) {
	t.Parallel()

	t.Run("flattens validator failures per field", func(t *testing.T) {
		t.Parallel()
		err := validator.New().Struct(&CreateUserRequest{
			ID:    "u1",
			Name:  "Ann",
			Email: "not-an-email",
		})
		require.Error(t, err)

		fieldErrs := validationFieldErrors(err)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "email", fieldErrs[0].Field)
		assert.Contains(t, fieldErrs[0].Message, "email")
		assert.Equal(t, "not-an-email", fieldErrs[0].Value)
	})

	t.Run("non-validator errors fall back to a body entry", func(t *testing.T) {
		t.Parallel()
		fieldErrs := validationFieldErrors(errors.New("something else"))
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "body", fieldErrs[0].Field)
	})
}
