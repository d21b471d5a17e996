package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Create saves a new user to the store.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
