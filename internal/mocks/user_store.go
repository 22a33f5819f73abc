package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn            func(ctx context.Context, user *domain.User) error
	GetByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn        func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn            func(ctx context.Context, user *domain.User) error
	ListByRoleFn        func(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.User, int, error)
	ListManagersFn      func(ctx context.Context) ([]*domain.User, error)
	SearchManagersFn    func(ctx context.Context, email, userName string) ([]*domain.User, error)
	PromoteToManagersFn func(ctx context.Context, ids []uuid.UUID) (int64, error)
	AssignManagerFn     func(ctx context.Context, ids []uuid.UUID, managerID uuid.UUID) (int64, error)

	// Call tracking
	CreateCalls  []*domain.User
	UpdateCalls  []*domain.User
	GetByIDCalls []uuid.UUID
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.CreateCalls = append(m.CreateCalls, user)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.GetByIDCalls = append(m.GetByIDCalls, id)
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	m.UpdateCalls = append(m.UpdateCalls, user)
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) ListByRole(
	ctx context.Context,
	role domain.Role,
	limit, offset int,
) ([]*domain.User, int, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role, limit, offset)
	}
	return nil, 0, nil
}

func (m *MockUserStore) ListManagers(ctx context.Context) ([]*domain.User, error) {
	if m.ListManagersFn != nil {
		return m.ListManagersFn(ctx)
	}
	return nil, nil
}

func (m *MockUserStore) SearchManagers(ctx context.Context, email, userName string) ([]*domain.User, error) {
	if m.SearchManagersFn != nil {
		return m.SearchManagersFn(ctx, email, userName)
	}
	return nil, nil
}

func (m *MockUserStore) PromoteToManagers(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if m.PromoteToManagersFn != nil {
		return m.PromoteToManagersFn(ctx, ids)
	}
	return 0, nil
}

func (m *MockUserStore) AssignManager(
	ctx context.Context,
	ids []uuid.UUID,
	managerID uuid.UUID,
) (int64, error) {
	if m.AssignManagerFn != nil {
		return m.AssignManagerFn(ctx, ids, managerID)
	}
	return 0, nil
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }
