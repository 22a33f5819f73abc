package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/mocks"
	"github.com/nikhil240896/tms-api/internal/service"
	"github.com/nikhil240896/tms-api/internal/store"
)

func newTestUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser("tester", "tester-"+uuid.NewString()[:8]+"@example.com", "hashed")
	require.NoError(t, err)
	user.Role = role
	return user
}

func newTestTaskWithRefs(t *testing.T, title string) *store.TaskWithRefs {
	t.Helper()
	task, err := domain.NewTask(title, "description", "2026-09-15", domain.PriorityMedium)
	require.NoError(t, err)
	return &store.TaskWithRefs{Task: *task}
}

func TestGetAssignedTasksCachesResults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caller := newTestUser(t, domain.RoleUser)
	tasks := []*store.TaskWithRefs{newTestTaskWithRefs(t, "first"), newTestTaskWithRefs(t, "second")}

	taskStore := &mocks.MockTaskStore{
		FindWithRefsFn: func(ctx context.Context, filter store.TaskFilter) ([]*store.TaskWithRefs, error) {
			return tasks, nil
		},
	}
	cache := &mocks.MockCache{}

	svc := service.NewQueryService(taskStore, cache, 10*time.Minute, nil)

	got, cached, err := svc.GetAssignedTasks(ctx, caller)
	require.NoError(t, err)
	assert.False(t, cached, "first read comes from the store")
	assert.Len(t, got, 2)

	require.Len(t, cache.SetCalls, 1)
	assert.Equal(t, 10*time.Minute, cache.SetCalls[0].TTL)
	assert.Contains(t, cache.SetCalls[0].Key, "assignedTasks:")
	assert.Contains(t, cache.SetCalls[0].Key, caller.ID.String(),
		"cache key must be scoped to the caller")
}

func TestGetAssignedTasksServesFromCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caller := newTestUser(t, domain.RoleUser)
	tasks := []*store.TaskWithRefs{newTestTaskWithRefs(t, "cached task")}

	storeCalls := 0
	taskStore := &mocks.MockTaskStore{
		FindWithRefsFn: func(ctx context.Context, filter store.TaskFilter) ([]*store.TaskWithRefs, error) {
			storeCalls++
			return tasks, nil
		},
	}

	memoryCache := &mocks.MockCache{}
	// Back the mock with a real map so the second read observes the write.
	values := map[string][]byte{}
	memoryCache.GetFn = func(ctx context.Context, key string) ([]byte, bool, error) {
		v, ok := values[key]
		return v, ok, nil
	}
	memoryCache.SetFn = func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
		values[key] = value
		return nil
	}

	svc := service.NewQueryService(taskStore, memoryCache, time.Minute, nil)

	_, cached, err := svc.GetAssignedTasks(ctx, caller)
	require.NoError(t, err)
	assert.False(t, cached)

	got, cached, err := svc.GetAssignedTasks(ctx, caller)
	require.NoError(t, err)
	assert.True(t, cached, "second read should be served from the cache")
	assert.Equal(t, 1, storeCalls, "store should only be hit once")
	require.Len(t, got, 1)
	assert.Equal(t, "cached task", got[0].Title)
}

func TestGetAssignedTasksEmptyScopeIsNotFoundAndNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caller := newTestUser(t, domain.RoleUser)

	taskStore := &mocks.MockTaskStore{
		FindWithRefsFn: func(ctx context.Context, filter store.TaskFilter) ([]*store.TaskWithRefs, error) {
			return nil, nil
		},
	}
	cache := &mocks.MockCache{}

	svc := service.NewQueryService(taskStore, cache, time.Minute, nil)

	_, _, err := svc.GetAssignedTasks(ctx, caller)
	assert.ErrorIs(t, err, service.ErrNoAssignedTasks)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, cache.SetCalls, "empty results must never be cached")
}

func TestGetAssignedTasksDegradesOnCacheFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caller := newTestUser(t, domain.RoleUser)
	tasks := []*store.TaskWithRefs{newTestTaskWithRefs(t, "survives")}

	taskStore := &mocks.MockTaskStore{
		FindWithRefsFn: func(ctx context.Context, filter store.TaskFilter) ([]*store.TaskWithRefs, error) {
			return tasks, nil
		},
	}
	cache := &mocks.MockCache{
		GetFn: func(ctx context.Context, key string) ([]byte, bool, error) {
			return nil, false, errors.New("connection refused")
		},
		SetFn: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			return errors.New("connection refused")
		},
	}

	svc := service.NewQueryService(taskStore, cache, time.Minute, nil)

	got, cached, err := svc.GetAssignedTasks(ctx, caller)
	require.NoError(t, err, "cache failures must not fail the read")
	assert.False(t, cached)
	assert.Len(t, got, 1)
}

func TestGetAssignedTasksWithoutCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caller := newTestUser(t, domain.RoleAdmin)
	tasks := []*store.TaskWithRefs{newTestTaskWithRefs(t, "direct")}

	taskStore := &mocks.MockTaskStore{
		FindWithRefsFn: func(ctx context.Context, filter store.TaskFilter) ([]*store.TaskWithRefs, error) {
			return tasks, nil
		},
	}

	svc := service.NewQueryService(taskStore, nil, time.Minute, nil)

	got, cached, err := svc.GetAssignedTasks(ctx, caller)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, got, 1)
}

func TestGetTaskStatsZeroFills(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caller := newTestUser(t, domain.RoleManager)

	taskStore := &mocks.MockTaskStore{
		CountByStatusFn: func(ctx context.Context, filter store.TaskFilter) (map[domain.TaskStatus]int, error) {
			return map[domain.TaskStatus]int{domain.StatusCompleted: 3}, nil
		},
	}

	svc := service.NewQueryService(taskStore, nil, time.Minute, nil)

	stats, err := svc.GetTaskStats(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.Overdue)
	assert.Equal(t, 3, stats.Completed)
}

func TestGetTaskStatsScopeAsymmetry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	taskStore := &mocks.MockTaskStore{}
	svc := service.NewQueryService(taskStore, nil, time.Minute, nil)

	admin := newTestUser(t, domain.RoleAdmin)
	_, err := svc.GetTaskStats(ctx, admin)
	require.NoError(t, err)

	require.Len(t, taskStore.CountFilters, 1)
	assert.Nil(t, taskStore.CountFilters[0].AssignedBy, "admin stats are unconstrained")
	assert.Nil(t, taskStore.CountFilters[0].AssigneeID)

	manager := newTestUser(t, domain.RoleManager)
	_, err = svc.GetTaskStats(ctx, manager)
	require.NoError(t, err)

	require.Len(t, taskStore.CountFilters, 2)
	require.NotNil(t, taskStore.CountFilters[1].AssignedBy)
	assert.Equal(t, manager.ID, *taskStore.CountFilters[1].AssignedBy)
}

func TestSearchTasks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caller := newTestUser(t, domain.RoleManager)

	t.Run("applies predicates on top of the scope", func(t *testing.T) {
		t.Parallel()

		taskStore := &mocks.MockTaskStore{}
		svc := service.NewQueryService(taskStore, nil, time.Minute, nil)

		assigned := true
		_, err := svc.SearchTasks(ctx, caller, service.SearchInput{
			Status:   "pending",
			Priority: "high",
			DueDate:  "2026-09-15",
			Assigned: &assigned,
			Search:   "over",
		})
		require.NoError(t, err)

		require.Len(t, taskStore.FindFilters, 1)
		filter := taskStore.FindFilters[0]

		require.NotNil(t, filter.AssignedBy)
		assert.Equal(t, caller.ID, *filter.AssignedBy, "scope must come from the caller, not input")
		require.NotNil(t, filter.Status)
		assert.Equal(t, domain.StatusPending, *filter.Status)
		require.NotNil(t, filter.Priority)
		assert.Equal(t, domain.PriorityHigh, *filter.Priority)
		require.NotNil(t, filter.DueOn)
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *filter.DueOn)
		require.NotNil(t, filter.Assigned)
		assert.True(t, *filter.Assigned)
		assert.Equal(t, "over", filter.Search)
	})

	t.Run("rejects invalid predicates", func(t *testing.T) {
		t.Parallel()

		svc := service.NewQueryService(&mocks.MockTaskStore{}, nil, time.Minute, nil)

		_, err := svc.SearchTasks(ctx, caller, service.SearchInput{Status: "done"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)

		_, err = svc.SearchTasks(ctx, caller, service.SearchInput{Priority: "urgent"})
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)

		_, err = svc.SearchTasks(ctx, caller, service.SearchInput{DueDate: "15-09-2026"})
		assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		t.Parallel()

		svc := service.NewQueryService(&mocks.MockTaskStore{}, nil, time.Minute, nil)

		got, err := svc.SearchTasks(ctx, caller, service.SearchInput{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
