package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/config"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/platform/postgres"
	"github.com/tasksys/task-api/internal/store"
)

// Fixed IDs so repeated seeding on a wiped database stays deterministic.
var (
	seedUser1ID = uuid.MustParse("f1811537-a05b-49bb-bee9-7a9480267c12")
	seedUser2ID = uuid.MustParse("f67b8dc6-0bee-4732-85fc-ff31a90615ad")
)

// seedDemoData inserts two demo users and two tasks when the users table is
// empty. It only runs when enabled via configuration and is meant for local
// development environments.
func seedDemoData(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger) error {
	if !cfg.Database.SeedDemoData {
		return nil
	}

	var userCount int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if userCount > 0 {
		logger.Debug("Users already present, skipping demo seed")
		return nil
	}

	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		userStore := postgres.NewPostgresUserStore(tx, logger)
		taskStore := postgres.NewPostgresTaskStore(tx, logger)

		user1 := &domain.User{
			ID:        seedUser1ID,
			Name:      "TestUser1",
			Email:     "user1@test.ru",
			CreatedAt: time.Now().UTC(),
		}
		user2 := &domain.User{
			ID:        seedUser2ID,
			Name:      "TestUser2",
			Email:     "user2@test.ru",
			CreatedAt: time.Now().UTC(),
		}

		for _, user := range []*domain.User{user1, user2} {
			if err := userStore.Create(ctx, user); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", user.Name, err)
			}
		}

		task1, err := domain.NewTask("Task1", "Description of Task1", nil, &user1.ID)
		if err != nil {
			return fmt.Errorf("failed to build seed task: %w", err)
		}

		task2, err := domain.NewTask("Task2", "", nil, &user2.ID)
		if err != nil {
			return fmt.Errorf("failed to build seed task: %w", err)
		}

		for _, task := range []*domain.Task{task1, task2} {
			if err := taskStore.Create(ctx, task); err != nil {
				return fmt.Errorf("failed to seed task %s: %w", task.Title, err)
			}
		}

		if err := task2.ChangeStatus(domain.TaskStatusInProgress); err != nil {
			return err
		}
		if err := taskStore.Update(ctx, task2); err != nil {
			return fmt.Errorf("failed to move seed task to in_progress: %w", err)
		}

		logger.Info("Demo data seeded", "users", 2, "tasks", 2)
		return nil
	})
}
