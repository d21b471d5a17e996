package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Field length limits for Task.
const (
	MaxTaskTitleLength       = 100
	MaxTaskDescriptionLength = 1000
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskTitleTooLong is returned when a task's title exceeds the limit.
	ErrTaskTitleTooLong = fmt.Errorf(
		"task title must be at most %d characters",
		MaxTaskTitleLength,
	)

	// ErrTaskDescriptionTooLong is returned when a task's description exceeds the limit.
	ErrTaskDescriptionTooLong = fmt.Errorf(
		"task description must be at most %d characters",
		MaxTaskDescriptionLength,
	)

	// ErrInvalidTaskStatus is returned when a status value is not one of the
	// defined TaskStatus variants.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrTaskDeadlinePast is returned when a task's deadline is not in the future.
	ErrTaskDeadlinePast = errors.New("task deadline must be in the future")
)

// Task represents one unit of work, optionally assigned to a user.
// Deleted tasks are never removed physically; IsDeleted marks them
// invisible to all normal reads. Version is the optimistic-concurrency
// token: the store bumps it on every write and rejects writes made
// against a stale value.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	IsDeleted   bool       `json:"-"`
	Version     int64      `json:"-"`
}

// TaskWithUser is a Task enriched with the assignee's name and email.
// Both are nil when the task is unassigned or the user no longer exists.
type TaskWithUser struct {
	Task
	UserName  *string `json:"user_name,omitempty"`
	UserEmail *string `json:"user_email,omitempty"`
}

// NewTask creates a new Task with the given title, description, deadline
// and optional assignee. It generates a new UUID for the task ID, sets the
// status to new and stamps the creation time. UpdatedAt stays nil until the
// first mutation. Returns an error if validation fails.
func NewTask(title, description string, deadline *time.Time, userID *uuid.UUID) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      TaskStatusNew,
		CreatedAt:   time.Now().UTC(),
		Deadline:    deadline,
		UserID:      userID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := validateDeadline(task.Deadline); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
// The deadline is deliberately not checked here: a persisted task whose
// deadline has elapsed is still a valid task and must remain writable.
// Future-deadline enforcement happens in NewTask and Apply, where the
// deadline value actually enters the task.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	if len(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}

	if len(t.Description) > MaxTaskDescriptionLength {
		return ErrTaskDescriptionTooLong
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// validateDeadline rejects a deadline that is not strictly in the future.
// Only called when a deadline is being set or replaced.
func validateDeadline(deadline *time.Time) error {
	if deadline != nil && !deadline.After(time.Now().UTC()) {
		return ErrTaskDeadlinePast
	}
	return nil
}

// Apply overwrites the task's mutable fields and stamps UpdatedAt.
// Status, CreatedAt, IsDeleted and Version are untouched.
// Returns an error if the resulting task is invalid.
func (t *Task) Apply(title, description string, deadline *time.Time, userID *uuid.UUID) error {
	origTitle, origDescription := t.Title, t.Description
	origDeadline, origUserID := t.Deadline, t.UserID

	if err := validateDeadline(deadline); err != nil {
		return err
	}

	t.Title = title
	t.Description = description
	t.Deadline = deadline
	t.UserID = userID

	if err := t.Validate(); err != nil {
		t.Title, t.Description = origTitle, origDescription
		t.Deadline, t.UserID = origDeadline, origUserID
		return err
	}

	now := time.Now().UTC()
	t.UpdatedAt = &now
	return nil
}

// ChangeStatus sets the task's status and stamps UpdatedAt.
// Returns ErrInvalidTaskStatus if the status is not a defined variant.
func (t *Task) ChangeStatus(status TaskStatus) error {
	if !IsValidTaskStatus(status) {
		return ErrInvalidTaskStatus
	}

	t.Status = status
	now := time.Now().UTC()
	t.UpdatedAt = &now
	return nil
}

// IsValidTaskStatus checks if the given status is a defined TaskStatus.
// The membership test is exhaustive: values outside the three known
// variants are rejected rather than silently carried along.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a string into a TaskStatus, case-insensitively.
// Returns ErrInvalidTaskStatus for anything outside the defined variants.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidTaskStatus(status) {
		return "", ErrInvalidTaskStatus
	}
	return status, nil
}
