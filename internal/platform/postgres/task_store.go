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
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/platform/logger"
	"github.com/nikhil240896/tms-api/internal/store"
)

// taskColumns is the select list shared by every plain task read.
const taskColumns = "id, title, description, due_date, priority, status, user_id, assigned_by, assignee_role, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
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

// WithTx returns a TaskStore bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, due_date, priority, status, user_id, assigned_by, assignee_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.AssigneeID,
		task.AssignedBy,
		roleOrNil(task.AssigneeRole),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created successfully", slog.String("task_id", task.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1", taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return task, nil
}

// Update implements store.TaskStore.Update
// Nil fields in the update are left unchanged. Returns the updated task, or
// store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.DueDate != nil {
		add("due_date", *update.DueDate)
	}
	if update.Priority != nil {
		add("priority", *update.Priority)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "),
		len(args),
		taskColumns,
	)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("task updated successfully", slog.String("task_id", id.String()))
	return task, nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// AssignToUser implements store.TaskStore.AssignToUser
// Task ids that match no row are silently skipped; the caller only learns
// the total number of rows changed.
func (s *PostgresTaskStore) AssignToUser(
	ctx context.Context,
	taskIDs []uuid.UUID,
	assigneeID, assignedBy uuid.UUID,
	assigneeRole domain.Role,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(taskIDs) == 0 {
		return 0, nil
	}

	args := []any{assigneeID, assignedBy, assigneeRole, time.Now().UTC()}
	query := fmt.Sprintf(`
		UPDATE tasks
		SET user_id = $1, assigned_by = $2, assignee_role = $3, updated_at = $4
		WHERE id IN (%s)
	`, placeholders(len(args)+1, len(taskIDs)))
	for _, id := range taskIDs {
		args = append(args, id)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to assign tasks",
			slog.String("error", err.Error()),
			slog.String("assignee_id", assigneeID.String()),
			slog.Int("task_count", len(taskIDs)))
		return 0, MapError(err)
	}

	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("tasks assigned",
		slog.String("assignee_id", assigneeID.String()),
		slog.Int64("changed", changed))
	return changed, nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Info("task status updated",
		slog.String("task_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// FindWithRefs implements store.TaskStore.FindWithRefs
// Tasks come back sorted by due date ascending with the assignee and
// assigner expanded to minimal display projections via left joins.
func (s *PostgresTaskStore) FindWithRefs(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*store.TaskWithRefs, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskWhere(filter, "t.")
	query := fmt.Sprintf(`
		SELECT t.id, t.title, t.description, t.due_date, t.priority, t.status,
		       t.user_id, t.assigned_by, t.assignee_role, t.created_at, t.updated_at,
		       u.id, u.user_name, u.email,
		       a.id, a.user_name, a.email
		FROM tasks t
		LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN users a ON a.id = t.assigned_by
		%s
		ORDER BY t.due_date ASC
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tasks []*store.TaskWithRefs
	for rows.Next() {
		var t store.TaskWithRefs
		var priority, status string
		var assigneeID, assignedByID sql.Null[uuid.UUID]
		var assigneeRole sql.NullString
		var refID, asgID sql.Null[uuid.UUID]
		var refName, refEmail, asgName, asgEmail sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.DueDate,
			&priority,
			&status,
			&assigneeID,
			&assignedByID,
			&assigneeRole,
			&t.CreatedAt,
			&t.UpdatedAt,
			&refID,
			&refName,
			&refEmail,
			&asgID,
			&asgName,
			&asgEmail,
		)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}

		t.Priority = domain.TaskPriority(priority)
		t.Status = domain.TaskStatus(status)
		if assigneeID.Valid {
			t.Task.AssigneeID = &assigneeID.V
		}
		if assignedByID.Valid {
			t.Task.AssignedBy = &assignedByID.V
		}
		if assigneeRole.Valid {
			role := domain.Role(assigneeRole.String)
			t.Task.AssigneeRole = &role
		}
		if refID.Valid {
			t.Assignee = &store.UserRef{ID: refID.V, UserName: refName.String, Email: refEmail.String}
		}
		if asgID.Valid {
			t.AssignedBy = &store.UserRef{ID: asgID.V, UserName: asgName.String, Email: asgEmail.String}
		}

		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning task rows", slog.String("error", err.Error()))
		return nil, err
	}

	if tasks == nil {
		tasks = []*store.TaskWithRefs{}
	}

	log.Debug("found tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(
	ctx context.Context,
	filter store.TaskFilter,
) (map[domain.TaskStatus]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskWhere(filter, "")
	query := fmt.Sprintf(`
		SELECT status, COUNT(*)
		FROM tasks
		%s
		GROUP BY status
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to count tasks by status", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.TaskStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// buildTaskWhere renders a task filter as a WHERE clause over the given
// column prefix ("t." for joined queries, "" otherwise). Returns an empty
// string when the filter has no predicates.
func buildTaskWhere(filter store.TaskFilter, prefix string) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, prefix, len(args)))
	}

	if filter.AssignedBy != nil {
		add("%sassigned_by = $%d", *filter.AssignedBy)
	}
	if filter.AssigneeRole != nil {
		add("%sassignee_role = $%d", *filter.AssigneeRole)
	}
	if filter.AssigneeID != nil {
		add("%suser_id = $%d", *filter.AssigneeID)
	}
	if filter.Status != nil {
		add("%sstatus = $%d", *filter.Status)
	}
	if filter.Priority != nil {
		add("%spriority = $%d", *filter.Priority)
	}
	if filter.Assigned != nil {
		if *filter.Assigned {
			clauses = append(clauses, fmt.Sprintf("%suser_id IS NOT NULL", prefix))
		} else {
			clauses = append(clauses, fmt.Sprintf("%suser_id IS NULL", prefix))
		}
	}
	if filter.DueOn != nil {
		// Exact-day match expressed as a half-open interval.
		add("%sdue_date >= $%d", *filter.DueOn)
		add("%sdue_date < $%d", filter.DueOn.Add(24*time.Hour))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(%[1]sstatus ILIKE $%[2]d OR %[1]spriority ILIKE $%[2]d)", prefix, n))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// scanTask reads one task row from a QueryRow result.
func scanTask(row *sql.Row) (*domain.Task, error) {
	var task domain.Task
	var priority, status string
	var assigneeID, assignedBy sql.Null[uuid.UUID]
	var assigneeRole sql.NullString

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&priority,
		&status,
		&assigneeID,
		&assignedBy,
		&assigneeRole,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = domain.TaskPriority(priority)
	task.Status = domain.TaskStatus(status)
	if assigneeID.Valid {
		task.AssigneeID = &assigneeID.V
	}
	if assignedBy.Valid {
		task.AssignedBy = &assignedBy.V
	}
	if assigneeRole.Valid {
		role := domain.Role(assigneeRole.String)
		task.AssigneeRole = &role
	}
	return &task, nil
}

// roleOrNil converts an optional role to a driver-friendly value.
func roleOrNil(role *domain.Role) any {
	if role == nil {
		return nil
	}
	return *role
}
