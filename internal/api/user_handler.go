package api

import (
	"log/slog"
	"net/http"

	"github.com/tasksys/task-api/internal/api/shared"
	"github.com/tasksys/task-api/internal/platform/logger"
	"github.com/tasksys/task-api/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
// If logger is nil, a default logger will be used.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// GetUserTasks handles GET /api/users/{id}/tasks
// An unknown user is indistinguishable from a user with no tasks: both
// yield an empty array.
func (h *UserHandler) GetUserTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.userService.GetUserTasks(r.Context(), userID)
	if err != nil {
		log.Error("failed to list user tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}
