package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.TaskWithUser, error)
	GetAllFn      func(ctx context.Context) ([]*domain.TaskWithUser, error)
	CreateFn      func(ctx context.Context, task *domain.Task) error
	UpdateFn      func(ctx context.Context, task *domain.Task) error
	SoftDeleteFn  func(ctx context.Context, id uuid.UUID) error
	GetFilteredFn func(ctx context.Context, filter store.TaskFilter) ([]*domain.TaskWithUser, int, error)
	GetByUserIDFn func(ctx context.Context, userID uuid.UUID) ([]*domain.TaskWithUser, error)

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.Task
	Users map[uuid.UUID]*domain.User

	// Write counters for asserting that an operation never reached storage
	CreateCalls     int
	UpdateCalls     int
	SoftDeleteCalls int
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
		Users: make(map[uuid.UUID]*domain.User),
	}
}

// SeedTask stores a copy of the task directly, bypassing validation.
func (m *MockTaskStore) SeedTask(task *domain.Task) {
	cp := *task
	m.Tasks[task.ID] = &cp
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskWithUser, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	task, exists := m.Tasks[id]
	if !exists || task.IsDeleted {
		return nil, store.ErrTaskNotFound
	}

	return m.withUser(task), nil
}

// GetAll implements the TaskStore interface
func (m *MockTaskStore) GetAll(ctx context.Context) ([]*domain.TaskWithUser, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}

	result := make([]*domain.TaskWithUser, 0)
	for _, task := range m.Tasks {
		if task.IsDeleted {
			continue
		}
		result = append(result, m.withUser(task))
	}
	sortNewestFirst(result)
	return result, nil
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.CreateCalls++

	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return err
	}

	if task.UserID != nil {
		if _, exists := m.Users[*task.UserID]; !exists {
			return store.ErrInvalidEntity
		}
	}

	task.Version = 1
	cp := *task
	m.Tasks[task.ID] = &cp
	return nil
}

// Update implements the TaskStore interface with the same version check
// as the real store.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.UpdateCalls++

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return err
	}

	current, exists := m.Tasks[task.ID]
	if !exists || current.IsDeleted {
		return store.ErrTaskNotFound
	}

	if current.Version != task.Version {
		return store.ErrConcurrencyConflict
	}

	if task.UserID != nil {
		if _, ok := m.Users[*task.UserID]; !ok {
			return store.ErrInvalidEntity
		}
	}

	task.Version++
	cp := *task
	m.Tasks[task.ID] = &cp
	return nil
}

// SoftDelete implements the TaskStore interface. Missing or already
// deleted tasks are a silent no-op.
func (m *MockTaskStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	m.SoftDeleteCalls++

	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id)
	}

	task, exists := m.Tasks[id]
	if !exists || task.IsDeleted {
		return nil
	}

	task.IsDeleted = true
	task.Version++
	return nil
}

// GetFiltered implements the TaskStore interface
func (m *MockTaskStore) GetFiltered(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*domain.TaskWithUser, int, error) {
	if m.GetFilteredFn != nil {
		return m.GetFilteredFn(ctx, filter)
	}

	filter.Normalize()

	matches := make([]*domain.TaskWithUser, 0)
	for _, task := range m.Tasks {
		if task.IsDeleted {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && (task.UserID == nil || *task.UserID != *filter.UserID) {
			continue
		}
		matches = append(matches, m.withUser(task))
	}

	sortFiltered(matches, filter)

	total := len(matches)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return []*domain.TaskWithUser{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

// GetByUserID implements the TaskStore interface
func (m *MockTaskStore) GetByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TaskWithUser, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}

	result := make([]*domain.TaskWithUser, 0)
	for _, task := range m.Tasks {
		if task.IsDeleted || task.UserID == nil || *task.UserID != userID {
			continue
		}
		result = append(result, m.withUser(task))
	}
	sortNewestFirst(result)
	return result, nil
}

// WithTx implements the TaskStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func (m *MockTaskStore) withUser(task *domain.Task) *domain.TaskWithUser {
	cp := *task
	enriched := &domain.TaskWithUser{Task: cp}
	if task.UserID != nil {
		if user, exists := m.Users[*task.UserID]; exists {
			name := user.Name
			email := user.Email
			enriched.UserName = &name
			enriched.UserEmail = &email
		}
	}
	return enriched
}

func sortNewestFirst(tasks []*domain.TaskWithUser) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID.String() < tasks[j].ID.String()
	})
}

func sortFiltered(tasks []*domain.TaskWithUser, filter store.TaskFilter) {
	asc := filter.Ascending()

	less := func(i, j int) bool {
		var cmp int
		switch strings.ToLower(filter.SortBy) {
		case "title":
			cmp = strings.Compare(tasks[i].Title, tasks[j].Title)
		case "deadline":
			cmp = compareTimePtr(tasks[i].Deadline, tasks[j].Deadline)
		default:
			switch {
			case tasks[i].CreatedAt.Before(tasks[j].CreatedAt):
				cmp = -1
			case tasks[i].CreatedAt.After(tasks[j].CreatedAt):
				cmp = 1
			}
		}
		if cmp == 0 {
			return tasks[i].ID.String() < tasks[j].ID.String()
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	}

	sort.Slice(tasks, less)
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}
