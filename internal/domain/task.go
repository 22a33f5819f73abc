package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// TaskPriority is the urgency band assigned to a task.
type TaskPriority string

// Task priorities.
const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is a known value.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task. The service never transitions
// a task to overdue on its own; overdue is only ever set through an explicit
// status update.
type TaskStatus string

// Task statuses.
const (
	StatusPending   TaskStatus = "pending"
	StatusOverdue   TaskStatus = "overdue"
	StatusCompleted TaskStatus = "completed"
)

// Valid reports whether the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

// Task validation errors. All of them wrap ErrValidation so the HTTP
// layer can map the whole family to a single status code.
var (
	ErrEmptyTaskID       = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTitle        = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrEmptyDescription  = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrInvalidDueDate    = fmt.Errorf("%w: invalid dueDate format, use YYYY-MM-DD", ErrValidation)
	ErrInvalidPriority   = fmt.Errorf("%w: invalid priority", ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrInvalidAssignment = fmt.Errorf("%w: assignment requires assignee, assigner and assigner role", ErrValidation)
)

// dueDateFormat is the only accepted wire format for due dates.
var dueDateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Task represents a unit of work tracked by the service.
//
// AssigneeID, AssignedBy and AssigneeRole are set together when a task is
// assigned: AssignedBy records who performed the assignment and AssigneeRole
// the role they held at that moment, which later scope-filtered reads key on.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	DueDate      time.Time    `json:"dueDate"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	AssigneeID   *uuid.UUID   `json:"user,omitempty"`
	AssignedBy   *uuid.UUID   `json:"assignedBy,omitempty"`
	AssigneeRole *Role        `json:"assigneeRole,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ParseDueDate validates and parses a YYYY-MM-DD due date string.
// Returns ErrInvalidDueDate if the value does not match the format exactly.
func ParseDueDate(value string) (time.Time, error) {
	if !dueDateFormat.MatchString(value) {
		return time.Time{}, ErrInvalidDueDate
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidDueDate
	}
	return t.UTC(), nil
}

// NewTask creates a new unassigned pending task.
// dueDate must be in YYYY-MM-DD format. priority is required.
func NewTask(title, description, dueDate string, priority TaskPriority) (*Task, error) {
	due, err := ParseDueDate(dueDate)
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		DueDate:     due,
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}

	// Assignment is atomic: either all three assignment fields are set
	// or none of them are.
	assigned := t.AssigneeID != nil
	if assigned != (t.AssignedBy != nil) || assigned != (t.AssigneeRole != nil) {
		return ErrInvalidAssignment
	}
	if t.AssigneeRole != nil && *t.AssigneeRole != RoleManager && *t.AssigneeRole != RoleAdmin {
		return ErrInvalidAssignment
	}

	return nil
}

// Assigned reports whether the task has an assignee.
func (t *Task) Assigned() bool { return t.AssigneeID != nil }
