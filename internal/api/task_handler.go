package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/api/shared"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/platform/logger"
	"github.com/tasksys/task-api/internal/service"
	"github.com/tasksys/task-api/internal/store"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
// If logger is nil, a default logger will be used.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// filterQueryParams are the recognized listing query parameters.
var filterQueryParams = []string{
	"status", "user_id", "sort_by", "sort_direction", "page", "page_size",
}

// ListTasks handles GET /api/tasks
// Without query parameters it returns the complete task list. With any
// filter parameter it returns one page plus the total match count.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if !hasFilterParams(r) {
		tasks, err := h.taskService.ListTasks(r.Context())
		if err != nil {
			log.Error("failed to list tasks", slog.String("error", err.Error()))
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		log.Debug("invalid filter parameters", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.taskService.GetFilteredTasks(r.Context(), filter)
	if err != nil {
		log.Error("failed to query filtered tasks", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPagedTasksResponse(page))
}

// GetTask handles GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		HandleAPIError(w, r, err, "")
		return
	}

	// The service reports a miss as a nil task; the HTTP surface turns
	// that into 404.
	if task == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode create task request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		UserID:      req.UserID,
	})
	if err != nil {
		log.Debug("failed to create task", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+task.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{ID: task.ID})
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode update task request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err = h.taskService.UpdateTask(r.Context(), id, service.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		UserID:      req.UserID,
		Version:     req.Version,
	})
	if err != nil {
		log.Debug("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTask handles DELETE /api/tasks/{id}
// Deleting a missing task still returns 204: the end state is the same.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeTaskStatus handles PATCH /api/tasks/{id}/status
func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ChangeStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode change status request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.taskService.ChangeTaskStatus(r.Context(), id, req.Status); err != nil {
		log.Debug("failed to change task status",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// hasFilterParams reports whether the request carries any recognized
// listing query parameter.
func hasFilterParams(r *http.Request) bool {
	query := r.URL.Query()
	for _, name := range filterQueryParams {
		if query.Has(name) {
			return true
		}
	}
	return false
}

// parseTaskFilter builds a store filter from the query string. Defaults for
// absent parameters are applied by the filter's own normalization.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	query := r.URL.Query()
	var filter store.TaskFilter

	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if raw := query.Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return filter, domain.NewValidationError("user_id", "has invalid format", domain.ErrInvalidID)
		}
		filter.UserID = &userID
	}

	filter.SortBy = query.Get("sort_by")
	filter.SortDirection = query.Get("sort_direction")

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, domain.NewValidationError("page", "must be an integer", domain.ErrValidation)
		}
		filter.Page = page
	}

	if raw := query.Get("page_size"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return filter, domain.NewValidationError("page_size", "must be an integer", domain.ErrValidation)
		}
		filter.PageSize = pageSize
	}

	return filter, nil
}
