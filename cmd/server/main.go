// Package main implements the entry point for the task management API
// server, which exposes CRUD, status-change and filtered-listing endpoints
// for tasks assigned to users.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/tasksys/task-api/internal/config"
	"github.com/tasksys/task-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run migrations instead of the server: up, down or status")
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrationCommand(cfg, *migrateCmd); err != nil {
			appLogger.Error("Migration failed", "command", *migrateCmd, "error", err)
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := applyMigrations(db, appLogger); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	if err := seedDemoData(context.Background(), cfg, db, appLogger); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	return cfg, appLogger, nil
}
