package events

import (
	"context"
	"log/slog"
)

// auditMessages maps event types to the human-readable audit line.
var auditMessages = map[AuditEventType]string{
	TaskCreated:       "Task created",
	TaskUpdated:       "Task updated",
	TaskDeleted:       "Task soft deleted",
	TaskStatusChanged: "Task status changed",
}

// AuditLogHandler writes audit events to the structured log.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler creates a handler that records audit events via the
// given logger.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogHandler{
		logger: logger.With("component", "audit"),
	}
}

// Ensure AuditLogHandler implements EventHandler
var _ EventHandler = (*AuditLogHandler)(nil)

// HandleEvent implements EventHandler by logging one line per event.
func (h *AuditLogHandler) HandleEvent(_ context.Context, event *AuditEvent) error {
	msg, ok := auditMessages[event.Type]
	if !ok {
		msg = string(event.Type)
	}

	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("task_id", event.TaskID.String()),
		slog.Time("occurred_at", event.OccurredAt),
	}
	for k, v := range event.Detail {
		attrs = append(attrs, slog.String(k, v))
	}

	h.logger.Info(msg, attrs...)
	return nil
}
