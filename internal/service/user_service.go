package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lkemp/userbase/internal/domain"
	"github.com/lkemp/userbase/internal/store"
)

// UserService provides user-related operations over the user store.
type UserService interface {
	// CreateUser creates a new user with the specified id, name and email.
	// A zero createdAt is stamped with the current UTC time.
	CreateUser(ctx context.Context, id, name, email string, createdAt time.Time) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	// Returns store.ErrUserNotFound (wrapped) if no such user exists.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// ListUsers retrieves all users.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateUser applies the non-nil fields to the stored user.
	// It follows the pattern of first retrieving the full user, updating the
	// specific fields, and passing the complete user object back to the
	// store layer.
	UpdateUser(ctx context.Context, id string, name, email *string) (*domain.User, error)

	// DeleteUser deletes a user by their ID.
	DeleteUser(ctx context.Context, id string) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, logger *slog.Logger) UserService {
	return &UserServiceImpl{
		userStore: userStore,
		logger:    logger.With("component", "user_service"),
	}
}

// CreateUser creates a new user with the specified id, name and email
func (s *UserServiceImpl) CreateUser(
	ctx context.Context,
	id, name, email string,
	createdAt time.Time,
) (*domain.User, error) {
	user, err := domain.NewUser(id, name, email, createdAt)
	if err != nil {
		s.logger.Debug("failed to create user object",
			"error", err,
			"user_id", id)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("attempted to create user with existing id",
				"user_id", id)
		} else {
			s.logger.Error("failed to save user to store",
				"error", err,
				"user_id", id)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found", "user_id", id)
		} else {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", id)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	s.logger.Debug("retrieved user successfully",
		"user_id", id,
		"email", user.Email)

	return user, nil
}

// ListUsers retrieves all users
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.logger.Debug("listed users successfully", "count", len(users))
	return users, nil
}

// UpdateUser applies the non-nil fields to the stored user
// Following the pattern of getting the complete user first, then updating
// the specific fields
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	id string,
	name, email *string,
) (*domain.User, error) {
	// First, retrieve the current user to get the complete user object
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found for update", "user_id", id)
		} else {
			s.logger.Error("failed to retrieve user for update",
				"error", err,
				"user_id", id)
		}
		return nil, fmt.Errorf("failed to retrieve user for update: %w", err)
	}

	// Update only the provided fields
	if name != nil {
		user.Name = *name
	}
	if email != nil {
		user.Email = *email
	}

	// Save the complete user object back to the store
	if err := s.userStore.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user",
			"error", err,
			"user_id", id)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated successfully", "user_id", id)
	return user, nil
}

// DeleteUser deletes a user by their ID
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	if err := s.userStore.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("attempted to delete non-existent user",
				"user_id", id)
		} else {
			s.logger.Error("failed to delete user",
				"error", err,
				"user_id", id)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted successfully", "user_id", id)
	return nil
}
