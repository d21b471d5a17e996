package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, TraceIDLength*2, "trace ID should be a 32-char hex string")

	other := SetTraceID(context.Background())
	assert.NotEqual(t, traceID, GetTraceID(other))
}

func TestGetTraceIDWithoutValue(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(rr, req, http.StatusCreated, map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"42"}`, rr.Body.String())
}

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetTraceID(req.Context()))

	RespondWithError(rr, req, http.StatusNotFound, "Task not found")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Task not found", resp.Error)
	assert.Equal(t, GetTraceID(req.Context()), resp.TraceID)
}

func TestRespondWithErrorAndLogHidesRawError(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	internal := errors.New("password=hunter2 dial tcp refused")
	RespondWithErrorAndLog(rr, req, http.StatusInternalServerError, "An unexpected error occurred", internal)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hunter2")
	assert.Contains(t, rr.Body.String(), "An unexpected error occurred")
}

func TestDecodeJSONRejectsTrailingContent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))

	var dst struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(req, &dst)
	assert.ErrorIs(t, err, ErrTrailingContent)
}

func TestValidateRequestUsesStructTags(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `validate:"required"`
	}

	assert.Error(t, ValidateRequest(payload{}))
	assert.NoError(t, ValidateRequest(payload{Name: "ok"}))
}
