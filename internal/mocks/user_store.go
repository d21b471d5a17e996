package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CreateFn  func(ctx context.Context, user *domain.User) error

	// Data for default implementation
	Users map[uuid.UUID]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[uuid.UUID]*domain.User),
	}
}

// SeedUser stores a copy of the user directly, bypassing validation.
func (m *MockUserStore) SeedUser(user *domain.User) {
	cp := *user
	m.Users[user.ID] = &cp
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	user, exists := m.Users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if err := user.Validate(); err != nil {
		return err
	}

	cp := *user
	m.Users[user.ID] = &cp
	return nil
}

// WithTx implements the UserStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
