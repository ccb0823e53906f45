package store

import (
	"context"

	"github.com/lkemp/userbase/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrUserExists if a user with the same ID is already stored.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Absence is an explicit result: ErrUserNotFound is returned rather
	// than a nil user.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// List retrieves all users. An empty store yields an empty slice,
	// not an error.
	List(ctx context.Context) ([]domain.User, error)

	// Update replaces an existing user's record with the given complete
	// user object. Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id string) error
}
