package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/store"
)

func TestBuildFilterConditions(t *testing.T) {
	t.Parallel()

	status := domain.TaskStatusInProgress
	userID := uuid.New()

	tests := []struct {
		name      string
		filter    store.TaskFilter
		wantWhere string
		wantArgs  int
	}{
		{
			name:      "empty filter keeps only the soft-delete predicate",
			filter:    store.TaskFilter{},
			wantWhere: "t.is_deleted = FALSE",
			wantArgs:  0,
		},
		{
			name:      "status filter appends a status condition",
			filter:    store.TaskFilter{Status: &status},
			wantWhere: "t.is_deleted = FALSE AND t.status = $1",
			wantArgs:  1,
		},
		{
			name:      "user filter appends a user condition",
			filter:    store.TaskFilter{UserID: &userID},
			wantWhere: "t.is_deleted = FALSE AND t.user_id = $1",
			wantArgs:  1,
		},
		{
			name:      "status and user combine with sequential placeholders",
			filter:    store.TaskFilter{Status: &status, UserID: &userID},
			wantWhere: "t.is_deleted = FALSE AND t.status = $1 AND t.user_id = $2",
			wantArgs:  2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			where, args := buildFilterConditions(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestOrderByClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sortBy  string
		sortDir string
		want    string
	}{
		{
			name:    "defaults to created_at descending",
			sortBy:  "createdAt",
			sortDir: "desc",
			want:    "t.created_at DESC, t.id",
		},
		{
			name:    "title is whitelisted",
			sortBy:  "title",
			sortDir: "desc",
			want:    "t.title DESC, t.id",
		},
		{
			name:    "deadline is whitelisted case-insensitively",
			sortBy:  "DeadLine",
			sortDir: "desc",
			want:    "t.deadline DESC, t.id",
		},
		{
			name:    "unknown sort field falls back to created_at",
			sortBy:  "status; DROP TABLE tasks",
			sortDir: "desc",
			want:    "t.created_at DESC, t.id",
		},
		{
			name:    "asc sorts ascending",
			sortBy:  "title",
			sortDir: "asc",
			want:    "t.title ASC, t.id",
		},
		{
			name:    "ASC is recognized case-insensitively",
			sortBy:  "title",
			sortDir: "ASC",
			want:    "t.title ASC, t.id",
		},
		{
			name:    "anything other than asc sorts descending",
			sortBy:  "title",
			sortDir: "sideways",
			want:    "t.title DESC, t.id",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filter := store.TaskFilter{SortBy: tt.sortBy, SortDirection: tt.sortDir}
			assert.Equal(t, tt.want, orderByClause(filter))
		})
	}
}

// newMockStore returns a task store backed by a sqlmock connection.
func newMockStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresTaskStore(db, nil), mock
}

func validTask(t *testing.T) *domain.Task {
	t.Helper()

	task, err := domain.NewTask("Write report", "Quarterly numbers", nil, nil)
	require.NoError(t, err)
	return task
}

func TestTaskStoreGetByIDNotFound(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM tasks t`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	task, err := s.GetByID(context.Background(), id)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreUpdateConcurrencyConflict(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	task := validTask(t)
	task.Version = 3

	// The CAS update misses because the stored version moved on, yet the
	// row still exists, so the miss is a conflict, not a disappearance.
	mock.ExpectExec(`UPDATE tasks`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(task.ID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := s.Update(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
	assert.Equal(t, int64(3), task.Version, "version must not advance on conflict")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreUpdateNotFound(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	task := validTask(t)
	task.Version = 1

	mock.ExpectExec(`UPDATE tasks`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(task.ID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := s.Update(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreUpdateBumpsVersion(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	task := validTask(t)
	task.Version = 2

	mock.ExpectExec(`UPDATE tasks`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Update(context.Background(), task)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), task.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreSoftDeleteMissIsNoOp(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE tasks`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.SoftDelete(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreGetFilteredReturnsCountAndPage(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tasks t`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM tasks t`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "status", "created_at",
			"updated_at", "deadline", "user_id", "version", "name", "email",
		}))

	tasks, total, err := s.GetFiltered(context.Background(), store.TaskFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, tasks, "empty result must be an empty slice, not nil")
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
