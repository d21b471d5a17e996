package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasksys/task-api/internal/domain"
	"github.com/tasksys/task-api/internal/platform/logger"
	"github.com/tasksys/task-api/internal/store"
)

// notDeleted is the standing soft-delete predicate. Every task query is
// composed with it, so no read path can observe a soft-deleted row; new
// queries must include it rather than re-deciding per call site.
const notDeleted = "t.is_deleted = FALSE"

// taskColumns is the shared select list: task fields followed by the
// LEFT-JOINed assignee name/email.
const taskColumns = `t.id, t.title, t.description, t.status, t.created_at,
	t.updated_at, t.deadline, t.user_id, t.version, u.name, u.email`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed
// by the caller. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a new store instance bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a non-deleted task by its unique ID, enriched with the
// assignee's name and email when the task is assigned.
// Returns store.ErrTaskNotFound if the task does not exist or is soft-deleted.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskWithUser, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID", slog.String("task_id", id.String()))

	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.id = $1 AND ` + notDeleted + `
	`

	task, err := scanTaskWithUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// GetAll implements store.TaskStore.GetAll
// It retrieves every non-deleted task, newest first.
func (s *PostgresTaskStore) GetAll(ctx context.Context) ([]*domain.TaskWithUser, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE ` + notDeleted + `
		ORDER BY t.created_at DESC, t.id
	`

	return s.queryTasks(ctx, query)
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the assigned user does not exist
// (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, status, created_at, updated_at,
			deadline, user_id, is_deleted, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)
	`

	task.Version = 1

	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
		task.Deadline,
		task.UserID,
		task.Version,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: assigned user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Update implements store.TaskStore.Update
// The write is compared-and-swapped against task.Version: the UPDATE only
// matches a row still carrying the version the caller read. On success the
// version is bumped both in the row and on the passed task.
// Returns store.ErrTaskNotFound if the task does not exist or is soft-deleted.
// Returns store.ErrConcurrencyConflict if the row changed since it was read.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, updated_at = $4,
			deadline = $5, user_id = $6, version = version + 1
		WHERE id = $7 AND version = $8 AND is_deleted = FALSE
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.UpdatedAt,
		task.Deadline,
		task.UserID,
		task.ID,
		task.Version,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task update",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: assigned user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		// Zero rows means either the row is gone (or soft-deleted) or
		// another writer bumped the version. Probe to tell them apart.
		exists, probeErr := s.exists(ctx, task.ID)
		if probeErr != nil {
			log.Error("failed to probe task existence after update miss",
				slog.String("error", probeErr.Error()),
				slog.String("task_id", task.ID.String()))
			return probeErr
		}
		if exists {
			log.Warn("concurrent modification detected",
				slog.String("task_id", task.ID.String()),
				slog.Int64("stale_version", task.Version))
			return store.ErrConcurrencyConflict
		}
		log.Debug("task not found for update",
			slog.String("task_id", task.ID.String()))
		return store.ErrTaskNotFound
	}

	task.Version++

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)),
		slog.Int64("version", task.Version))
	return nil
}

// SoftDelete implements store.TaskStore.SoftDelete
// It flips the is_deleted flag, hiding the task from every read path.
// Deleting an absent or already-deleted task is a silent no-op.
func (s *PostgresTaskStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET is_deleted = TRUE, updated_at = $1, version = version + 1
		WHERE id = $2 AND is_deleted = FALSE
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to soft delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task absent or already deleted, treating as no-op",
			slog.String("task_id", id.String()))
		return nil
	}

	log.Info("task soft deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// GetFiltered implements store.TaskStore.GetFiltered
// It returns the requested page of matching non-deleted tasks and the total
// match count before pagination. The count and the page rows come from two
// independent queries with no shared snapshot; under concurrent writes they
// can disagree slightly, which is accepted for a listing endpoint.
func (s *PostgresTaskStore) GetFiltered(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*domain.TaskWithUser, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter.Normalize()

	where, args := buildFilterConditions(filter)

	log.Debug("querying filtered tasks",
		slog.String("where", where),
		slog.String("order_by", orderByClause(filter)),
		slog.Int("page", filter.Page),
		slog.Int("page_size", filter.PageSize))

	countQuery := `SELECT COUNT(*) FROM tasks t WHERE ` + where

	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		log.Error("failed to count filtered tasks",
			slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	offset := (filter.Page - 1) * filter.PageSize

	pageQuery := fmt.Sprintf(`
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE `+where+`
		ORDER BY `+orderByClause(filter)+`
		LIMIT $%d OFFSET $%d
	`, len(args)+1, len(args)+2)

	pageArgs := append(args, filter.PageSize, offset)

	tasks, err := s.queryTasks(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, err
	}

	return tasks, totalCount, nil
}

// GetByUserID implements store.TaskStore.GetByUserID
// It retrieves all non-deleted tasks assigned to the given user, newest
// first, without pagination. An unknown user yields an empty slice.
func (s *PostgresTaskStore) GetByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TaskWithUser, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE ` + notDeleted + ` AND t.user_id = $1
		ORDER BY t.created_at DESC, t.id
	`

	return s.queryTasks(ctx, query, userID)
}

// exists reports whether a non-deleted task row with the given ID is present,
// regardless of its version.
func (s *PostgresTaskStore) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks t WHERE t.id = $1 AND ` + notDeleted + `)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// queryTasks runs a select over the shared column list and scans all rows.
func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.TaskWithUser, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.TaskWithUser
	for rows.Next() {
		task, err := scanTaskWithUser(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	// Return empty slice instead of nil if no tasks found
	if tasks == nil {
		tasks = []*domain.TaskWithUser{}
	}

	return tasks, nil
}

// buildFilterConditions composes the WHERE clause for a task listing.
// The soft-delete predicate is always the first condition; status and
// assignee constraints are appended only when the filter carries them.
func buildFilterConditions(filter store.TaskFilter) (string, []any) {
	conditions := []string{notDeleted}
	var args []any

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("t.user_id = $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

// orderByClause maps the filter's sort request onto the column whitelist.
// Unrecognized sort fields fall back to creation time; only "asc" sorts
// ascending. The task ID is a tiebreaker so pagination stays deterministic
// when the sort key has duplicates.
func orderByClause(filter store.TaskFilter) string {
	column := "t.created_at"
	switch strings.ToLower(filter.SortBy) {
	case "title":
		column = "t.title"
	case "deadline":
		column = "t.deadline"
	}

	direction := "DESC"
	if filter.Ascending() {
		direction = "ASC"
	}

	return column + " " + direction + ", t.id"
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTaskWithUser scans one row of the shared column list.
func scanTaskWithUser(row rowScanner) (*domain.TaskWithUser, error) {
	var (
		task        domain.TaskWithUser
		description sql.NullString
		status      string
		updatedAt   sql.NullTime
		deadline    sql.NullTime
		userID      uuid.NullUUID
		userName    sql.NullString
		userEmail   sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&task.CreatedAt,
		&updatedAt,
		&deadline,
		&userID,
		&task.Version,
		&userName,
		&userEmail,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Status = domain.TaskStatus(status)
	if updatedAt.Valid {
		t := updatedAt.Time
		task.UpdatedAt = &t
	}
	if deadline.Valid {
		t := deadline.Time
		task.Deadline = &t
	}
	if userID.Valid {
		id := userID.UUID
		task.UserID = &id
	}
	if userName.Valid {
		name := userName.String
		task.UserName = &name
	}
	if userEmail.Valid {
		email := userEmail.String
		task.UserEmail = &email
	}

	return &task, nil
}
