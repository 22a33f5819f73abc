package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/store"
)

// Listing page bounds. Requests outside these are clamped, not rejected.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// AdminService implements the user-administration operations: paginated user
// listing, manager directory and search, bulk promotion and bulk
// manager assignment.
type AdminService struct {
	db        *sql.DB
	userStore store.UserStore
	logger    *slog.Logger
}

// NewAdminService creates a new AdminService. The db handle backs the
// transactional bulk operations; when nil, those operations run without a
// transaction.
func NewAdminService(db *sql.DB, userStore store.UserStore, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		db:        db,
		userStore: userStore,
		logger:    logger.With("component", "admin_service"),
	}
}

// ListUsers returns one page of user-role accounts, newest first, together
// with pagination totals. Page numbering starts at 1.
func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int) (*store.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	users, total, err := s.userStore.ListByRole(ctx, domain.RoleUser, pageSize, offset)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &store.UserPage{
		Users:       users,
		TotalUsers:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// ListManagers returns every manager-role account, oldest first.
// Returns ErrNoManagersFound when there are none.
func (s *AdminService) ListManagers(ctx context.Context) ([]*domain.User, error) {
	managers, err := s.userStore.ListManagers(ctx)
	if err != nil {
		s.logger.Error("failed to list managers", "error", err)
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	if len(managers) == 0 {
		return nil, ErrNoManagersFound
	}
	return managers, nil
}

// SearchManagers finds manager-role accounts whose email or user name
// contains the given fragments, case-insensitively. At least one fragment is
// required. Returns ErrNoManagersFound on an empty match.
func (s *AdminService) SearchManagers(ctx context.Context, email, userName string) ([]*domain.User, error) {
	email = strings.TrimSpace(email)
	userName = strings.TrimSpace(userName)
	if email == "" && userName == "" {
		return nil, ErrMissingSearchCriteria
	}

	managers, err := s.userStore.SearchManagers(ctx, email, userName)
	if err != nil {
		s.logger.Error("failed to search managers", "error", err)
		return nil, fmt.Errorf("failed to search managers: %w", err)
	}
	if len(managers) == 0 {
		return nil, ErrNoManagersFound
	}
	return managers, nil
}

// PromoteToManagers bulk-promotes the given accounts from the user role to
// the manager role. Ids not currently holding the user role are skipped;
// if nothing matched at all, ErrNoMatchingUsers is returned.
func (s *AdminService) PromoteToManagers(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyUserIDs
	}

	count, err := s.userStore.PromoteToManagers(ctx, ids)
	if err != nil {
		s.logger.Error("failed to promote users", "error", err)
		return 0, fmt.Errorf("failed to promote users: %w", err)
	}
	if count == 0 {
		return 0, ErrNoMatchingUsers
	}

	s.logger.Info("users promoted to manager", "count", count, "requested", len(ids))
	return count, nil
}

// AssignUsersToManager bulk-links the given user-role accounts to a manager.
// The manager must exist and hold the manager role; otherwise
// ErrManagerNotFound is returned. Ids not currently holding the user role
// are skipped; a fully empty match yields ErrNoMatchingUsers.
func (s *AdminService) AssignUsersToManager(
	ctx context.Context,
	ids []uuid.UUID,
	managerID uuid.UUID,
) (int64, error) {
	if managerID == uuid.Nil {
		return 0, ErrMissingManagerID
	}
	if len(ids) == 0 {
		return 0, ErrEmptyUserIDs
	}

	// The manager check and the bulk update must see the same state, so
	// both run inside one transaction when a db handle is available.
	var count int64
	assign := func(ctx context.Context, users store.UserStore) error {
		manager, err := users.GetByID(ctx, managerID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return store.ErrManagerNotFound
			}
			s.logger.Error("failed to load manager", "error", err, "manager_id", managerID)
			return fmt.Errorf("failed to load manager: %w", err)
		}
		if !manager.IsManager() {
			return store.ErrManagerNotFound
		}

		count, err = users.AssignManager(ctx, ids, manager.ID)
		if err != nil {
			s.logger.Error("failed to assign users to manager", "error", err, "manager_id", managerID)
			return fmt.Errorf("failed to assign users to manager: %w", err)
		}
		if count == 0 {
			return ErrNoMatchingUsers
		}
		return nil
	}

	var err error
	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return assign(ctx, s.userStore.WithTx(tx))
		})
	} else {
		err = assign(ctx, s.userStore)
	}
	if err != nil {
		return 0, err
	}

	s.logger.Info("users assigned to manager",
		"count", count,
		"requested", len(ids),
		"manager_id", managerID)
	return count, nil
}
