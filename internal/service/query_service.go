package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikhil240896/tms-api/internal/authz"
	"github.com/nikhil240896/tms-api/internal/cache"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/store"
)

const assignedTasksKeyPrefix = "assignedTasks:"

// SearchInput carries the optional search predicates applied on top of the
// caller's role scope. DueDate is the raw string; empty fields do not
// constrain the search.
type SearchInput struct {
	Status   string
	Priority string
	DueDate  string
	Assigned *bool
	Search   string
}

// TaskStats is the zero-filled per-status task count for a caller's scope.
type TaskStats struct {
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
	Completed int `json:"completed"`
}

// QueryService implements the scoped read paths over tasks: the cached
// assigned-task listing, the stats aggregation and filtered search. All three
// derive their base filter from the authz scope tables, never from input.
type QueryService struct {
	taskStore store.TaskStore
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// NewQueryService creates a new QueryService. The cache may be nil, in which
// case every listing goes to the store.
func NewQueryService(
	taskStore store.TaskStore,
	c cache.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{
		taskStore: taskStore,
		cache:     c,
		cacheTTL:  cacheTTL,
		logger:    logger.With("component", "query_service"),
	}
}

// scopeCacheKey serializes a scope filter into a deterministic cache key.
// Only the scope predicates participate; search results are never cached.
func scopeCacheKey(filter store.TaskFilter) string {
	parts := make([]string, 0, 3)
	if filter.AssignedBy != nil {
		parts = append(parts, `"assignedBy":"`+filter.AssignedBy.String()+`"`)
	}
	if filter.AssigneeRole != nil {
		parts = append(parts, `"assigneeRole":"`+string(*filter.AssigneeRole)+`"`)
	}
	if filter.AssigneeID != nil {
		parts = append(parts, `"user":"`+filter.AssigneeID.String()+`"`)
	}
	return assignedTasksKeyPrefix + "{" + strings.Join(parts, ",") + "}"
}

// GetAssignedTasks lists the tasks in the caller's role scope, due date
// ascending, through a read-through cache. The second return reports whether
// the result came from the cache. An empty scope is a not-found condition and
// is never cached. Cache failures degrade to the store silently.
func (s *QueryService) GetAssignedTasks(ctx context.Context, caller *domain.User) ([]*store.TaskWithRefs, bool, error) {
	filter := authz.ListScope(caller)
	key := scopeCacheKey(filter)

	if s.cache != nil {
		data, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("cache read failed, falling back to store", "error", err, "key", key)
		} else if found {
			var tasks []*store.TaskWithRefs
			if err := json.Unmarshal(data, &tasks); err != nil {
				s.logger.Warn("cache entry corrupt, falling back to store", "error", err, "key", key)
			} else {
				return tasks, true, nil
			}
		}
	}

	tasks, err := s.taskStore.FindWithRefs(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list assigned tasks", "error", err, "caller_id", caller.ID)
		return nil, false, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, false, ErrNoAssignedTasks
	}

	if s.cache != nil {
		data, err := json.Marshal(tasks)
		if err != nil {
			s.logger.Warn("failed to encode tasks for caching", "error", err)
		} else if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Warn("cache write failed", "error", err, "key", key)
		}
	}

	return tasks, false, nil
}

// GetTaskStats counts the tasks in the caller's stats scope per status. The
// result always carries all three statuses, zero-filled. Note the admin
// scope here is unconstrained, unlike the listing.
func (s *QueryService) GetTaskStats(ctx context.Context, caller *domain.User) (*TaskStats, error) {
	filter := authz.StatsScope(caller)

	counts, err := s.taskStore.CountByStatus(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count tasks", "error", err, "caller_id", caller.ID)
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &TaskStats{
		Pending:   counts[domain.StatusPending],
		Overdue:   counts[domain.StatusOverdue],
		Completed: counts[domain.StatusCompleted],
	}, nil
}

// SearchTasks lists the tasks in the caller's role scope narrowed by the
// given predicates, due date ascending. Invalid status, priority or due date
// values are rejected rather than matched against nothing. An empty result
// is returned as an empty slice, not an error.
func (s *QueryService) SearchTasks(
	ctx context.Context,
	caller *domain.User,
	input SearchInput,
) ([]*store.TaskWithRefs, error) {
	filter := authz.ListScope(caller)

	if input.Status != "" {
		status := domain.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority := domain.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, domain.ErrInvalidPriority
		}
		filter.Priority = &priority
	}
	if input.DueDate != "" {
		due, err := domain.ParseDueDate(input.DueDate)
		if err != nil {
			return nil, err
		}
		filter.DueOn = &due
	}
	filter.Assigned = input.Assigned
	filter.Search = strings.TrimSpace(input.Search)

	tasks, err := s.taskStore.FindWithRefs(ctx, filter)
	if err != nil {
		s.logger.Error("failed to search tasks", "error", err, "caller_id", caller.ID)
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return tasks, nil
}
