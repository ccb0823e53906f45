package api

import (
	"time"

	"github.com/lkemp/userbase/internal/domain"
)

// Common request/response structures

// CreateUserRequest defines the payload for the user creation endpoint.
// The API contract enforces the same constraints at the edge; these tags
// guard handlers invoked outside the validated pipeline (tests, future
// internal callers).
type CreateUserRequest struct {
	ID        string     `json:"id"                  validate:"required"`
	Name      string     `json:"name"                validate:"required"`
	Email     string     `json:"email"               validate:"required,email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UpdateUserRequest defines the payload for the user update endpoint.
// Both fields are optional; absent fields keep their stored value.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UserResponse represents the response data for a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// SuccessMessageResponse confirms a destructive operation.
type SuccessMessageResponse struct {
	Message string `json:"message"`
}

// userToResponse transforms the domain entity to its response shape.
func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
