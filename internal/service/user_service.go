package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/platform/logger"
	"github.com/tasksys/task-api/internal/store"
)

// UserService provides user-related operations
type UserService interface {
	// GetUserTasks retrieves every task assigned to the given user, newest
	// first. The user's existence is deliberately not verified: an unknown
	// user simply has no tasks, so the result is an empty list.
	GetUserTasks(ctx context.Context, userID uuid.UUID) ([]*domain.TaskWithUser, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(taskStore store.TaskStore, logger *slog.Logger) (UserService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// GetUserTasks implements UserService.GetUserTasks
func (s *userServiceImpl) GetUserTasks(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TaskWithUser, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, NewTaskServiceError("get_user_tasks", "failed to list user tasks", err)
	}

	log.Debug("listed user tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}
