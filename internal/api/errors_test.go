package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/service"
	"github.com/tasksys/task-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", store.ErrTaskNotFound), http.StatusNotFound},
		{"concurrency conflict", store.ErrConcurrencyConflict, http.StatusConflict},
		{"invalid user reference", service.ErrInvalidUserReference, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"validation error", domain.NewValidationError("title", "is required", domain.ErrValidation), http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid status", domain.ErrInvalidTaskStatus, http.StatusBadRequest},
		{"past deadline", domain.ErrTaskDeadlinePast, http.StatusBadRequest},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	t.Parallel()

	internal := errors.New("pq: connection to host db.internal:5432 refused")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "db.internal")

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "Invalid user reference", GetSafeErrorMessage(service.ErrInvalidUserReference))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	raw := errors.New(
		"Key: 'CreateTaskRequest.Title' Error:Field validation for 'Title' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Title: required field", SanitizeValidationError(raw))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
