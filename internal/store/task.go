package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/domain"
)

// TaskFilter is a conjunction of optional predicates over tasks. Nil fields
// do not constrain the query. The role-derived scope predicates
// (AssignedBy/AssigneeRole/AssigneeID) are produced by the authz package;
// the remaining fields come from search input.
type TaskFilter struct {
	// Scope predicates.
	AssignedBy   *uuid.UUID
	AssigneeRole *domain.Role
	AssigneeID   *uuid.UUID

	// Search predicates.
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	Assigned *bool

	// DueOn restricts due dates to the half-open interval
	// [DueOn, DueOn+24h). It must be a start-of-day instant.
	DueOn *time.Time

	// Search is a free-text token matched case-insensitively against the
	// status and priority fields as an OR condition.
	Search string
}

// TaskUpdate carries the partially updated fields for a task.
// Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *domain.TaskPriority
}

// UserRef is the minimal display projection of a user embedded in
// reference-expanded task reads.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"userName"`
	Email    string    `json:"email"`
}

// TaskWithRefs is a task with its user references resolved to display
// projections. Assignee and AssignedBy are nil for unassigned tasks.
type TaskWithRefs struct {
	domain.Task
	Assignee   *UserRef `json:"userRef,omitempty"`
	AssignedBy *UserRef `json:"assignedByRef,omitempty"`
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update applies a partial update to a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// Delete removes a task from the store.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AssignToUser bulk-sets the assignment triple on every task whose id
	// is in taskIDs. Ids that match no task are silently skipped.
	// Returns the number of rows changed.
	AssignToUser(
		ctx context.Context,
		taskIDs []uuid.UUID,
		assigneeID, assignedBy uuid.UUID,
		assigneeRole domain.Role,
	) (int64, error)

	// UpdateStatus sets the status of a single task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error

	// FindWithRefs retrieves tasks matching the filter, sorted by due date
	// ascending, with assignee and assigner expanded to display projections.
	// Returns an empty slice when nothing matches.
	FindWithRefs(ctx context.Context, filter TaskFilter) ([]*TaskWithRefs, error)

	// CountByStatus groups tasks matching the filter by status and counts
	// each group. Statuses with no tasks are absent from the result.
	CountByStatus(ctx context.Context, filter TaskFilter) (map[domain.TaskStatus]int, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction, so multiple operations can share one transaction.
	WithTx(tx *sql.Tx) TaskStore
}
