package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/domain"
)

// Filter defaults applied by TaskFilter.Normalize.
const (
	DefaultSortBy        = "createdAt"
	DefaultSortDirection = "desc"
	DefaultPage          = 1
	DefaultPageSize      = 10
)

// TaskFilter describes a filtered, sorted, paged task listing request.
// Nil Status/UserID mean "no constraint". Page is 1-based; the window is
// skip=(Page-1)*PageSize, take=PageSize. PageSize is not capped here —
// callers own the guard against unbounded scans.
type TaskFilter struct {
	Status        *domain.TaskStatus
	UserID        *uuid.UUID
	SortBy        string
	SortDirection string
	Page          int
	PageSize      int
}

// Normalize fills zero-valued fields with the listing defaults:
// sort by creation time, newest first, first page of ten.
func (f *TaskFilter) Normalize() {
	if f.SortBy == "" {
		f.SortBy = DefaultSortBy
	}
	if f.SortDirection == "" {
		f.SortDirection = DefaultSortDirection
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
}

// Ascending reports whether the filter requests ascending order.
// Only "asc" (case-insensitive) sorts ascending; every other value,
// including the default "desc", sorts descending.
func (f *TaskFilter) Ascending() bool {
	return strings.EqualFold(f.SortDirection, "asc")
}

// TaskStore defines the interface for task data persistence.
//
// Every read implicitly excludes soft-deleted rows; implementations must
// enforce that as a standing query predicate rather than per call site.
type TaskStore interface {
	// GetByID retrieves a task by its unique ID, enriched with the
	// assignee's name and email when the task is assigned.
	// Returns ErrTaskNotFound if the task does not exist or is soft-deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskWithUser, error)

	// GetAll retrieves every non-deleted task, newest first.
	GetAll(ctx context.Context) ([]*domain.TaskWithUser, error)

	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the task data is invalid or the assigned
	// user does not exist (foreign key violation).
	Create(ctx context.Context, task *domain.Task) error

	// Update overwrites an existing task's mutable fields. The write is
	// compared-and-swapped against task.Version: on success the store bumps
	// the version both in the row and on the passed task.
	// Returns ErrTaskNotFound if the task does not exist or is soft-deleted.
	// Returns ErrConcurrencyConflict if the row changed since it was read.
	// Returns ErrInvalidEntity on validation or foreign key failure.
	Update(ctx context.Context, task *domain.Task) error

	// SoftDelete marks a task deleted, hiding it from every read path.
	// Deleting an absent or already-deleted task is a silent no-op.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// GetFiltered returns the page of non-deleted tasks matching the filter
	// together with the total match count before pagination.
	//
	// The count and the page rows come from two independent queries with no
	// shared snapshot; under concurrent writes they can disagree slightly.
	// That skew is accepted for a listing endpoint.
	GetFiltered(ctx context.Context, filter TaskFilter) ([]*domain.TaskWithUser, int, error)

	// GetByUserID retrieves all non-deleted tasks assigned to the given
	// user, newest first, without pagination. An unknown user simply
	// yields an empty slice.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.TaskWithUser, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
