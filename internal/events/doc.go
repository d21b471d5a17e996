// Package events defines the audit event types emitted by the service layer
// when tasks change, together with a small in-memory emitter that fans events
// out to registered handlers. Emission is advisory: a failing handler never
// fails the operation that produced the event.
package events
