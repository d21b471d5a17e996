package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/tasksys/task-api/internal/config"
	"github.com/tasksys/task-api/migrations"
)

// configureGoose points goose at the embedded migration files.
func configureGoose() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(migrations.FS)
	return nil
}

// applyMigrations brings the schema up to date on server startup.
func applyMigrations(db *sql.DB, logger *slog.Logger) error {
	if err := configureGoose(); err != nil {
		return err
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Database migrations applied")
	return nil
}

// runMigrationCommand executes an explicit migration operation passed via
// the -migrate flag and exits without starting the server.
func runMigrationCommand(cfg *config.Config, command string) error {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
		}
	}()

	if err := configureGoose(); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.Up(db, ".")
	case "down":
		return goose.Down(db, ".")
	case "status":
		return goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q (want up, down or status)", command)
	}
}
