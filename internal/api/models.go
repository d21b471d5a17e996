package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/service"
)

// CreateTaskRequest represents the create task request payload
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=100"`
	Description string     `json:"description" validate:"max=1000"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
}

// UpdateTaskRequest represents the full-replacement update payload.
// Version is the concurrency token read from a previous GET.
type UpdateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=100"`
	Description string     `json:"description" validate:"max=1000"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Version     int64      `json:"version"     validate:"required,min=1"`
}

// ChangeStatusRequest represents the status transition payload
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateTaskResponse carries the identifier of a newly created task.
type CreateTaskResponse struct {
	ID uuid.UUID `json:"id"`
}

// TaskResponse represents one task in API responses, enriched with the
// assignee's name and email when the task is assigned.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	UserName    *string    `json:"user_name,omitempty"`
	UserEmail   *string    `json:"user_email,omitempty"`
	Version     int64      `json:"version"`
}

// PagedTasksResponse is one page of a filtered listing plus the total
// number of matches before pagination.
type PagedTasksResponse struct {
	Items      []TaskResponse `json:"items"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// NewTaskResponse converts a user-enriched task to its API representation.
func NewTaskResponse(task *domain.TaskWithUser) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Deadline:    task.Deadline,
		UserID:      task.UserID,
		UserName:    task.UserName,
		UserEmail:   task.UserEmail,
		Version:     task.Version,
	}
}

// NewTaskListResponse converts a slice of enriched tasks. A nil or empty
// input yields an empty, non-nil slice so the JSON is always an array.
func NewTaskListResponse(tasks []*domain.TaskWithUser) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, NewTaskResponse(task))
	}
	return out
}

// NewPagedTasksResponse converts a service page to its API representation.
func NewPagedTasksResponse(page *service.TaskPage) PagedTasksResponse {
	return PagedTasksResponse{
		Items:      NewTaskListResponse(page.Items),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}
}
