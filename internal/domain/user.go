package domain

import (
	"errors"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrEmptyUserID  = errors.New("user ID cannot be empty")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyEmail   = errors.New("email cannot be empty")
	ErrInvalidEmail = errors.New("invalid email format")
)

// User represents a registered user of the service.
// IDs are supplied by the client on creation and are unique within the store.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser creates a new User with the given id, name and email.
// A zero createdAt is replaced with the current UTC time.
// Returns an error if validation fails.
func NewUser(id, name, email string, createdAt time.Time) (*User, error) {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	user := &User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: createdAt,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// validateEmailFormat performs basic validation of email format: a local
// part, an @, and a dotted domain. The API contract performs the schema-level
// check; this guards entities constructed inside the process.
func validateEmailFormat(email string) bool {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domain := email[atIndex+1:]
	dotIndex := strings.Index(domain, ".")
	if dotIndex <= 0 || dotIndex == len(domain)-1 {
		return false
	}

	return true
}
