package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/events"
	"github.com/tasksys/task-api/internal/platform/logger"
	"github.com/tasksys/task-api/internal/store"
)

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CreateTaskParams carries the caller-supplied fields for a new task.
type CreateTaskParams struct {
	Title       string
	Description string
	Deadline    *time.Time
	UserID      *uuid.UUID
}

// UpdateTaskParams carries the full replacement state for an existing task.
// Version is the optimistic-concurrency token the caller read; the write is
// rejected if the task has changed since.
type UpdateTaskParams struct {
	Title       string
	Description string
	Deadline    *time.Time
	UserID      *uuid.UUID
	Version     int64
}

// TaskPage is one page of a filtered task listing together with the total
// number of matches before pagination.
type TaskPage struct {
	Items      []*domain.TaskWithUser
	TotalCount int
	Page       int
	PageSize   int
}

// TaskService provides task-related operations
type TaskService interface {
	// GetTask retrieves a task by its ID. A missing task is not an error:
	// the method returns (nil, nil) and leaves the interpretation to the
	// caller.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.TaskWithUser, error)

	// ListTasks retrieves every task, newest first.
	ListTasks(ctx context.Context) ([]*domain.TaskWithUser, error)

	// CreateTask creates a new task with status "new".
	// Returns ErrInvalidUserReference if the assignee does not exist.
	CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error)

	// UpdateTask replaces the mutable fields of an existing task.
	// The user reference is validated before task existence is checked.
	// Returns store.ErrTaskNotFound, ErrInvalidUserReference or
	// store.ErrConcurrencyConflict.
	UpdateTask(ctx context.Context, id uuid.UUID, params UpdateTaskParams) error

	// DeleteTask soft-deletes a task. Deleting a missing or already
	// deleted task succeeds without effect.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// ChangeTaskStatus moves a task to the given status. The status value
	// is validated before any store access.
	ChangeTaskStatus(ctx context.Context, id uuid.UUID, status string) error

	// GetFilteredTasks returns one page of tasks matching the filter plus
	// the pre-pagination match count.
	GetFilteredTasks(ctx context.Context, filter store.TaskFilter) (*TaskPage, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.TaskWithUser, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			// A miss is a neutral outcome here, not a failure.
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, nil
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.TaskWithUser, error) {
	tasks, err := s.taskStore.GetAll(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	params CreateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkUserReference(ctx, params.UserID); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(params.Title, params.Description, params.Deadline, params.UserID)
	if err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			// The assignee vanished between the reference check and the
			// insert; the database constraint is the authority.
			return nil, fmt.Errorf("%w: %v", ErrInvalidUserReference, err)
		}
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.emitter.EmitEvent(ctx, events.NewAuditEvent(events.TaskCreated, task.ID, map[string]string{
		"title": task.Title,
	}))

	log.Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
// The user reference is checked before task existence so an update that is
// wrong on both counts reports the reference problem.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	params UpdateTaskParams,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkUserReference(ctx, params.UserID); err != nil {
		return err
	}

	current, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		return NewTaskServiceError("update_task", "failed to load task", err)
	}

	task := current.Task
	task.Version = params.Version

	if err := task.Apply(params.Title, params.Description, params.Deadline, params.UserID); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if err := s.taskStore.Update(ctx, &task); err != nil {
		switch {
		case errors.Is(err, store.ErrTaskNotFound),
			errors.Is(err, store.ErrConcurrencyConflict):
			return err
		case errors.Is(err, store.ErrInvalidEntity):
			return fmt.Errorf("%w: %v", ErrInvalidUserReference, err)
		default:
			return NewTaskServiceError("update_task", "failed to save task", err)
		}
	}

	s.emitter.EmitEvent(ctx, events.NewAuditEvent(events.TaskUpdated, id, nil))

	log.Info("task updated", slog.String("task_id", id.String()))
	return nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.SoftDelete(ctx, id); err != nil {
		return NewTaskServiceError("delete_task", "failed to soft delete task", err)
	}

	s.emitter.EmitEvent(ctx, events.NewAuditEvent(events.TaskDeleted, id, nil))

	log.Info("task soft deleted", slog.String("task_id", id.String()))
	return nil
}

// ChangeTaskStatus implements TaskService.ChangeTaskStatus
// An invalid status is rejected before the store is touched, so a bad
// request never reveals whether the task exists.
func (s *taskServiceImpl) ChangeTaskStatus(ctx context.Context, id uuid.UUID, status string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	parsed, err := domain.ParseTaskStatus(status)
	if err != nil {
		log.Warn("rejected invalid task status", slog.String("status", status))
		return err
	}

	current, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		return NewTaskServiceError("change_task_status", "failed to load task", err)
	}

	task := current.Task
	if err := task.ChangeStatus(parsed); err != nil {
		return err
	}

	if err := s.taskStore.Update(ctx, &task); err != nil {
		switch {
		case errors.Is(err, store.ErrTaskNotFound),
			errors.Is(err, store.ErrConcurrencyConflict):
			return err
		default:
			return NewTaskServiceError("change_task_status", "failed to save task", err)
		}
	}

	s.emitter.EmitEvent(ctx, events.NewAuditEvent(events.TaskStatusChanged, id, map[string]string{
		"new_status": string(parsed),
	}))

	log.Info("task status changed",
		slog.String("task_id", id.String()),
		slog.String("new_status", string(parsed)))
	return nil
}

// GetFilteredTasks implements TaskService.GetFilteredTasks
func (s *taskServiceImpl) GetFilteredTasks(
	ctx context.Context,
	filter store.TaskFilter,
) (*TaskPage, error) {
	filter.Normalize()

	items, total, err := s.taskStore.GetFiltered(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("get_filtered_tasks", "failed to query tasks", err)
	}

	return &TaskPage{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

// checkUserReference verifies that the optional assignee exists.
// A nil userID means unassigned and always passes.
func (s *taskServiceImpl) checkUserReference(ctx context.Context, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}

	if _, err := s.userStore.GetByID(ctx, *userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("%w: user %s", ErrInvalidUserReference, userID.String())
		}
		return NewTaskServiceError("check_user_reference", "failed to look up user", err)
	}
	return nil
}
