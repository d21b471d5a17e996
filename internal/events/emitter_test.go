package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []*AuditEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *AuditEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestEmitEventFansOutToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.Default())
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := NewAuditEvent(TaskCreated, uuid.New(), nil)
	emitter.EmitEvent(context.Background(), event)

	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count())
}

func TestEmitEventSwallowsHandlerErrors(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.Default())
	failing := &recordingHandler{err: errors.New("sink unavailable")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	emitter.EmitEvent(context.Background(), NewAuditEvent(TaskDeleted, uuid.New(), nil))

	// The failure must not stop delivery to later handlers.
	assert.Equal(t, 1, healthy.count())
}

func TestEmitEventWithNoHandlersIsHarmless(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.Default())
	emitter.EmitEvent(context.Background(), NewAuditEvent(TaskUpdated, uuid.New(), nil))
}

func TestAuditLogHandlerWritesAuditLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := NewAuditLogHandler(logger)

	taskID := uuid.New()
	event := NewAuditEvent(TaskStatusChanged, taskID, map[string]string{
		"new_status": "completed",
	})

	err := handler.HandleEvent(context.Background(), event)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Task status changed")
	assert.Contains(t, out, taskID.String())
	assert.Contains(t, out, "completed")
}
