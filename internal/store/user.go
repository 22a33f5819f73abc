package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/domain"
)

// UserPage is one page of a role-scoped user listing, with the totals the
// admin UI paginates on.
type UserPage struct {
	Users       []*domain.User
	TotalUsers  int
	TotalPages  int
	CurrentPage int
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (case-insensitive).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's details from a complete user object.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// ListByRole retrieves users holding the given role, newest first,
	// with offset/limit pagination. Also returns the total count for the role.
	ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.User, int, error)

	// ListManagers retrieves all manager-role users, oldest first.
	ListManagers(ctx context.Context) ([]*domain.User, error)

	// SearchManagers retrieves manager-role users whose email or name
	// contains the given fragments, case-insensitively. Empty fragments
	// are ignored.
	SearchManagers(ctx context.Context, email, userName string) ([]*domain.User, error)

	// PromoteToManagers bulk-promotes the given ids from role=user to
	// role=manager. Ids that do not currently hold the user role are
	// silently skipped. Returns the number of rows changed.
	PromoteToManagers(ctx context.Context, ids []uuid.UUID) (int64, error)

	// AssignManager bulk-sets the manager reference on the given ids,
	// restricted to rows currently holding the user role.
	// Returns the number of rows changed.
	AssignManager(ctx context.Context, ids []uuid.UUID, managerID uuid.UUID) (int64, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction, so multiple operations can share one transaction.
	WithTx(tx *sql.Tx) UserStore
}
