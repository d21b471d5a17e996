// Package api contains the HTTP handlers, request/response models and
// error mapping for the task management REST surface. Handlers decode and
// validate requests, call the service layer, and translate service errors
// into sanitized JSON responses with appropriate status codes.
package api
