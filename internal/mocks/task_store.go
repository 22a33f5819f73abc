package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/store"
)

// AssignToUserCall records the arguments of one AssignToUser invocation.
type AssignToUserCall struct {
	TaskIDs      []uuid.UUID
	AssigneeID   uuid.UUID
	AssignedBy   uuid.UUID
	AssigneeRole domain.Role
}

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn        func(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error)
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	AssignToUserFn  func(ctx context.Context, taskIDs []uuid.UUID, assigneeID, assignedBy uuid.UUID, assigneeRole domain.Role) (int64, error)
	UpdateStatusFn  func(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error
	FindWithRefsFn  func(ctx context.Context, filter store.TaskFilter) ([]*store.TaskWithRefs, error)
	CountByStatusFn func(ctx context.Context, filter store.TaskFilter) (map[domain.TaskStatus]int, error)

	// Call tracking
	CreateCalls       []*domain.Task
	AssignCalls       []AssignToUserCall
	FindFilters       []store.TaskFilter
	CountFilters      []store.TaskFilter
	UpdateStatusCalls []uuid.UUID
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.CreateCalls = append(m.CreateCalls, task)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return nil
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockTaskStore) AssignToUser(
	ctx context.Context,
	taskIDs []uuid.UUID,
	assigneeID, assignedBy uuid.UUID,
	assigneeRole domain.Role,
) (int64, error) {
	m.AssignCalls = append(m.AssignCalls, AssignToUserCall{
		TaskIDs:      taskIDs,
		AssigneeID:   assigneeID,
		AssignedBy:   assignedBy,
		AssigneeRole: assigneeRole,
	})
	if m.AssignToUserFn != nil {
		return m.AssignToUserFn(ctx, taskIDs, assigneeID, assignedBy, assigneeRole)
	}
	return int64(len(taskIDs)), nil
}

func (m *MockTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, id)
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *MockTaskStore) FindWithRefs(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*store.TaskWithRefs, error) {
	m.FindFilters = append(m.FindFilters, filter)
	if m.FindWithRefsFn != nil {
		return m.FindWithRefsFn(ctx, filter)
	}
	return nil, nil
}

func (m *MockTaskStore) CountByStatus(
	ctx context.Context,
	filter store.TaskFilter,
) (map[domain.TaskStatus]int, error) {
	m.CountFilters = append(m.CountFilters, filter)
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, filter)
	}
	return map[domain.TaskStatus]int{}, nil
}

func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }
