package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/store"
)

// TaskInput carries the user-supplied fields for task creation. DueDate is the
// raw string so format validation happens in one place.
type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    domain.TaskPriority
}

// TaskPatch carries a partial task update. Nil fields are left unchanged;
// a non-nil DueDate is revalidated against the date format.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *domain.TaskPriority
}

// TaskService implements the task lifecycle: creation, reads, partial
// updates and deletion. Assignment and status transitions live in
// AssignmentService, listing and stats in QueryService.
type TaskService struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}
}

// Create validates the input and persists a new unassigned pending task.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input.Title, input.Description, input.DueDate, input.Priority)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task", "error", err)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "priority", task.Priority)
	return task, nil
}

// GetByID retrieves a single task.
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies a partial update to a task and returns the updated row.
// A supplied due date is revalidated; other assignment and status fields are
// not updatable through this path.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, patch TaskPatch) (*domain.Task, error) {
	update := store.TaskUpdate{
		Title:       patch.Title,
		Description: patch.Description,
		Priority:    patch.Priority,
	}

	if patch.Title != nil && *patch.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if patch.Description != nil && *patch.Description == "" {
		return nil, domain.ErrEmptyDescription
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}
	if patch.DueDate != nil {
		due, err := domain.ParseDueDate(*patch.DueDate)
		if err != nil {
			return nil, err
		}
		update.DueDate = &due
	}

	task, err := s.taskStore.Update(ctx, id, update)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("task updated", "task_id", id)
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		s.logger.Error("failed to delete task", "error", err, "task_id", id)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}
