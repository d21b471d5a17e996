package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/mocks"
)

func TestNewUserServiceRequiresTaskStore(t *testing.T) {
	t.Parallel()

	_, err := NewUserService(nil, nil)
	assert.Error(t, err)

	svc, err := NewUserService(mocks.NewMockTaskStore(), nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGetUserTasksUnknownUserYieldsEmptyList(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	svc, err := NewUserService(taskStore, nil)
	require.NoError(t, err)

	tasks, err := svc.GetUserTasks(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestGetUserTasksReturnsOnlyTheUsersTasks(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	userID := uuid.New()

	mine, err := domain.NewTask("Mine", "", nil, &userID)
	require.NoError(t, err)
	taskStore.SeedTask(mine)

	other, err := domain.NewTask("Somebody else's", "", nil, nil)
	require.NoError(t, err)
	taskStore.SeedTask(other)

	deleted, err := domain.NewTask("Mine but gone", "", nil, &userID)
	require.NoError(t, err)
	deleted.IsDeleted = true
	taskStore.SeedTask(deleted)

	svc, err := NewUserService(taskStore, nil)
	require.NoError(t, err)

	tasks, err := svc.GetUserTasks(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, mine.ID, tasks[0].ID)
}

func TestGetUserTasksWrapsStoreErrors(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	taskStore.GetByUserIDFn = func(ctx context.Context, userID uuid.UUID) ([]*domain.TaskWithUser, error) {
		return nil, errors.New("connection reset")
	}

	svc, err := NewUserService(taskStore, nil)
	require.NoError(t, err)

	_, err = svc.GetUserTasks(context.Background(), uuid.New())
	require.Error(t, err)

	var svcErr *TaskServiceError
	assert.ErrorAs(t, err, &svcErr)
}
