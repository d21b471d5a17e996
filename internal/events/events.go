package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEventType identifies the kind of change an audit event records.
type AuditEventType string

// Audit event types for the task lifecycle.
const (
	TaskCreated       AuditEventType = "task.created"
	TaskUpdated       AuditEventType = "task.updated"
	TaskDeleted       AuditEventType = "task.deleted"
	TaskStatusChanged AuditEventType = "task.status_changed"
)

// AuditEvent records one state change to a task. Detail carries optional
// event-specific context such as the new status.
type AuditEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates which lifecycle change happened
	Type AuditEventType `json:"type"`

	// TaskID is the task the change applies to
	TaskID uuid.UUID `json:"task_id"`

	// Detail holds optional event-specific attributes
	Detail map[string]string `json:"detail,omitempty"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAuditEvent creates an audit event for the given change.
func NewAuditEvent(eventType AuditEventType, taskID uuid.UUID, detail map[string]string) *AuditEvent {
	return &AuditEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     taskID,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle audit events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *AuditEvent) error
}

// EventEmitter defines an interface for components that can emit audit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *AuditEvent)
}
