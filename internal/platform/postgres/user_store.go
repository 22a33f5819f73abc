package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/platform/logger"
	"github.com/nikhil240896/tms-api/internal/store"
)

// userColumns is the select list shared by every user read.
const userColumns = "id, user_name, email, hashed_password, role, manager_id, token_version, created_at, updated_at"

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx returns a UserStore bound to the given transaction.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, user_name, email, hashed_password, role, manager_id, token_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.UserName,
		strings.ToLower(user.Email),
		user.HashedPassword,
		user.Role,
		user.ManagerID,
		user.TokenVersion,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("attempted to create user with existing email",
				slog.String("email", user.Email))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.UserStore.GetByEmail
// The lookup is case-insensitive; emails are stored lowercased.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	return s.getOne(ctx, query, strings.ToLower(email))
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	var role string
	var managerID sql.Null[uuid.UUID]

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.UserName,
		&user.Email,
		&user.HashedPassword,
		&role,
		&managerID,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	user.Role = domain.Role(role)
	if managerID.Valid {
		user.ManagerID = &managerID.V
	}
	return &user, nil
}

// Update implements store.UserStore.Update
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		UPDATE users
		SET user_name = $1, email = $2, hashed_password = $3, role = $4,
		    manager_id = $5, token_version = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.UserName,
		strings.ToLower(user.Email),
		user.HashedPassword,
		user.Role,
		user.ManagerID,
		user.TokenVersion,
		time.Now().UTC(),
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		return store.ErrUserNotFound
	}
	return nil
}

// ListByRole implements store.UserStore.ListByRole
// Results are ordered newest first; the second return value is the total
// number of users holding the role, for pagination.
func (s *PostgresUserStore) ListByRole(
	ctx context.Context,
	role domain.Role,
	limit, offset int,
) ([]*domain.User, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userColumns)

	rows, err := s.db.QueryContext(ctx, query, role, limit, offset)
	if err != nil {
		log.Error("failed to list users by role",
			slog.String("error", err.Error()),
			slog.String("role", string(role)))
		return nil, 0, MapError(err)
	}
	users, err := scanUsers(rows)
	if err != nil {
		log.Error("failed to scan user rows", slog.String("error", err.Error()))
		return nil, 0, err
	}

	var total int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role = $1", role).Scan(&total)
	if err != nil {
		log.Error("failed to count users by role",
			slog.String("error", err.Error()),
			slog.String("role", string(role)))
		return nil, 0, MapError(err)
	}

	return users, total, nil
}

// ListManagers implements store.UserStore.ListManagers
func (s *PostgresUserStore) ListManagers(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1
		ORDER BY created_at ASC
	`, userColumns)

	rows, err := s.db.QueryContext(ctx, query, domain.RoleManager)
	if err != nil {
		log.Error("failed to list managers", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return scanUsers(rows)
}

// SearchManagers implements store.UserStore.SearchManagers
// Email and name fragments are matched case-insensitively as substrings.
func (s *PostgresUserStore) SearchManagers(
	ctx context.Context,
	email, userName string,
) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM users WHERE role = $1", userColumns)
	args := []any{domain.RoleManager}

	if email != "" {
		args = append(args, "%"+email+"%")
		fmt.Fprintf(&sb, " AND email ILIKE $%d", len(args))
	}
	if userName != "" {
		args = append(args, "%"+userName+"%")
		fmt.Fprintf(&sb, " AND user_name ILIKE $%d", len(args))
	}
	sb.WriteString(" ORDER BY created_at ASC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to search managers", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return scanUsers(rows)
}

// PromoteToManagers implements store.UserStore.PromoteToManagers
// Only rows currently holding the user role are changed.
func (s *PostgresUserStore) PromoteToManagers(
	ctx context.Context,
	ids []uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return 0, nil
	}

	args := []any{domain.RoleManager, time.Now().UTC()}
	query := fmt.Sprintf(`
		UPDATE users
		SET role = $1, updated_at = $2
		WHERE id IN (%s) AND role = 'user'
	`, placeholders(len(args)+1, len(ids)))
	for _, id := range ids {
		args = append(args, id)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to promote users to manager",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return 0, MapError(err)
	}

	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("promoted users to manager role", slog.Int64("changed", changed))
	return changed, nil
}

// AssignManager implements store.UserStore.AssignManager
// Only rows currently holding the user role are changed.
func (s *PostgresUserStore) AssignManager(
	ctx context.Context,
	ids []uuid.UUID,
	managerID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return 0, nil
	}

	args := []any{managerID, time.Now().UTC()}
	query := fmt.Sprintf(`
		UPDATE users
		SET manager_id = $1, updated_at = $2
		WHERE id IN (%s) AND role = 'user'
	`, placeholders(len(args)+1, len(ids)))
	for _, id := range ids {
		args = append(args, id)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to assign users to manager",
			slog.String("error", err.Error()),
			slog.String("manager_id", managerID.String()),
			slog.Int("id_count", len(ids)))
		return 0, MapError(err)
	}

	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("assigned users to manager",
		slog.String("manager_id", managerID.String()),
		slog.Int64("changed", changed))
	return changed, nil
}

// scanUsers drains rows into user records, closing the row set.
func scanUsers(rows *sql.Rows) ([]*domain.User, error) {
	defer func() {
		_ = rows.Close()
	}()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var role string
		var managerID sql.Null[uuid.UUID]

		err := rows.Scan(
			&user.ID,
			&user.UserName,
			&user.Email,
			&user.HashedPassword,
			&role,
			&managerID,
			&user.TokenVersion,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		user.Role = domain.Role(role)
		if managerID.Valid {
			user.ManagerID = &managerID.V
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// placeholders renders a comma-separated run of n positional parameters
// starting at index start, e.g. placeholders(3, 2) == "$3, $4".
func placeholders(start, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%d", start+i)
	}
	return sb.String()
}
