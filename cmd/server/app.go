package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tasksys/task-api/internal/config"
	"github.com/tasksys/task-api/internal/events"
	"github.com/tasksys/task-api/internal/platform/postgres"
	"github.com/tasksys/task-api/internal/service"
	"github.com/tasksys/task-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	taskStore store.TaskStore
	userStore store.UserStore

	// Service interfaces
	taskService service.TaskService
	userService service.UserService

	// Event system
	eventEmitter events.EventEmitter
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.userStore = postgres.NewPostgresUserStore(db, logger)

	// Initialize the audit event pipeline
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewAuditLogHandler(logger))
	app.eventEmitter = emitter

	// Initialize services
	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, app.userStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.userService, err = service.NewUserService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
