package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field length limits for User.
const (
	MaxUserNameLength  = 100
	MaxUserEmailLength = 255
)

// Common validation errors
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyUserName    = errors.New("user name cannot be empty")
	ErrUserNameTooLong  = fmt.Errorf("user name must be at most %d characters", MaxUserNameLength)
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrUserEmailTooLong = fmt.Errorf("email must be at most %d characters", MaxUserEmailLength)
)

// User represents a task assignee. A user owns zero or more tasks via
// Task.UserID; deleting a user detaches their tasks (the store sets the
// reference to null) and never cascades into task deletion.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a new User with the given name and email.
// It generates a new UUID for the user ID and stamps the creation time.
// Returns an error if validation fails.
func NewUser(name, email string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyUserName
	}

	if len(u.Name) > MaxUserNameLength {
		return ErrUserNameTooLong
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if len(u.Email) > MaxUserEmailLength {
		return ErrUserEmailTooLong
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// validateEmailFormat performs basic validation of email shape: one '@'
// that is neither first nor last, with a '.' somewhere after it.
// Stricter RFC 5322 checks are left to the transport-level validator.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if strings.IndexByte(domainPart, '@') != -1 {
		return false
	}

	dotIndex := strings.IndexByte(domainPart, '.')
	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
