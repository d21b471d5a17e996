package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tasksys/task-api/internal/api/shared"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/service"
	"github.com/tasksys/task-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors, generic and entity-specific alike
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsConcurrencyConflict(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrInvalidUserReference),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrTaskTitleEmpty),
		errors.Is(err, domain.ErrTaskTitleTooLong),
		errors.Is(err, domain.ErrTaskDescriptionTooLong),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrTaskDeadlinePast):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	// Conflict errors
	case store.IsConcurrencyConflict(err):
		return "The task was modified by another request; re-fetch and retry"

	// Bad request errors
	case errors.Is(err, service.ErrInvalidUserReference),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid user reference"

	case errors.Is(err, domain.ErrTaskTitleEmpty):
		return "Task title is required"

	case errors.Is(err, domain.ErrTaskTitleTooLong):
		return fmt.Sprintf("Task title must be at most %d characters", domain.MaxTaskTitleLength)

	case errors.Is(err, domain.ErrTaskDescriptionTooLong):
		return fmt.Sprintf(
			"Task description must be at most %d characters",
			domain.MaxTaskDescriptionLength,
		)

	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid task status"

	case errors.Is(err, domain.ErrTaskDeadlinePast):
		return "Task deadline must be in the future"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier format"

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the sanitized response for err and logs the full
// redacted details. defaultMsg overrides the derived safe message when
// non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if defaultMsg != "" {
		message = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validator errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'CreateTaskRequest.Title' Error:Field validation
	// for 'Title' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
