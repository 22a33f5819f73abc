package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/authz"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/store"
)

// AssignmentService implements task assignment and status transitions, both
// of which are role-conditional and therefore consult the authz engine.
type AssignmentService struct {
	taskStore store.TaskStore
	userStore store.UserStore
	logger    *slog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	logger *slog.Logger,
) *AssignmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignmentService{
		taskStore: taskStore,
		userStore: userStore,
		logger:    logger.With("component", "assignment_service"),
	}
}

// AssignTasksToUser bulk-assigns the given tasks to a single user-role
// target. The caller's role decides eligibility: admins may assign to any
// user, managers only to their own team. Ids naming no task are skipped; the
// returned count is the number of tasks actually assigned.
func (s *AssignmentService) AssignTasksToUser(
	ctx context.Context,
	caller *domain.User,
	taskIDs []uuid.UUID,
	targetUserID uuid.UUID,
) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, ErrEmptyTaskIDs
	}
	if targetUserID == uuid.Nil {
		return 0, ErrMissingUserID
	}

	target, err := s.userStore.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return 0, store.ErrUserNotFound
		}
		s.logger.Error("failed to load assignment target", "error", err, "user_id", targetUserID)
		return 0, fmt.Errorf("failed to load assignment target: %w", err)
	}

	if err := authz.CanAssignToUser(caller, target); err != nil {
		if errors.Is(err, authz.ErrNotAssignable) {
			// A non-user target is reported the same way as a missing one.
			return 0, store.ErrUserNotFound
		}
		s.logger.Warn("assignment denied",
			"caller_id", caller.ID,
			"caller_role", caller.Role,
			"target_id", target.ID)
		return 0, err
	}

	count, err := s.taskStore.AssignToUser(ctx, taskIDs, target.ID, caller.ID, caller.Role)
	if err != nil {
		s.logger.Error("failed to assign tasks", "error", err, "target_id", target.ID)
		return 0, fmt.Errorf("failed to assign tasks: %w", err)
	}

	s.logger.Info("tasks assigned",
		"count", count,
		"requested", len(taskIDs),
		"target_id", target.ID,
		"assigned_by", caller.ID)
	return count, nil
}

// UpdateTaskStatus sets a task's status. The chain check runs against the
// named user, not the task's current assignee, so an unassigned task's status
// can still be set by a permitted caller.
func (s *AssignmentService) UpdateTaskStatus(
	ctx context.Context,
	caller *domain.User,
	taskID uuid.UUID,
	userID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if taskID == uuid.Nil || status == "" {
		return nil, ErrMissingStatus
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	named, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, store.ErrUserNotFound
		}
		s.logger.Error("failed to load named user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to load named user: %w", err)
	}

	if err := authz.CanUpdateStatusFor(caller, named); err != nil {
		s.logger.Warn("status update denied",
			"caller_id", caller.ID,
			"caller_role", caller.Role,
			"task_id", taskID)
		return nil, err
	}

	if err := s.taskStore.UpdateStatus(ctx, taskID, status); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Error("failed to update task status", "error", err, "task_id", taskID)
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	task.Status = status
	s.logger.Info("task status updated", "task_id", taskID, "status", status)
	return task, nil
}
