package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/platform/mail"
	"github.com/nikhil240896/tms-api/internal/service/auth"
	"github.com/nikhil240896/tms-api/internal/store"
)

// registration email content, sent after the user row is durable.
const (
	registrationSubject = "Registration completed"
	registrationBody    = "You have registered successfully"
)

// UserService implements registration, login and session management.
type UserService struct {
	userStore  store.UserStore
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	jwtService auth.JWTService
	mailer     mail.Mailer
	logger     *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	mailer mail.Mailer,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		userStore:  userStore,
		hasher:     hasher,
		verifier:   verifier,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger.With("component", "user_service"),
	}
}

// Register validates the registration input, persists the new user and sends
// the confirmation email. Success is only reported once both the row is
// durable and the mail transport accepted the message; a mail failure after
// the insert surfaces as an error even though the user row remains.
func (s *UserService) Register(
	ctx context.Context,
	userName, email, password, confirmPassword string,
) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !domain.ValidateEmailFormat(email) {
		return nil, domain.ErrInvalidEmail
	}
	if err := domain.ValidatePassword(password, confirmPassword); err != nil {
		return nil, err
	}

	// Duplicate check up front for a clean message; the unique index still
	// backstops concurrent registrations.
	_, err := s.userStore.GetByEmail(ctx, email)
	if err == nil {
		return nil, store.ErrEmailExists
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		s.logger.Error("failed to check for existing email", "error", err)
		return nil, fmt.Errorf("failed to check for existing email: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(userName, email, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, err
		}
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.Send(ctx, email, registrationSubject, registrationBody); err != nil {
		// The user row is already durable; that inconsistency is accepted,
		// but the caller must not see a success.
		s.logger.Error("registration email failed after user was persisted",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to send registration email: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", email)
	return user, nil
}

// Login authenticates the email/password pair and returns the user together
// with a fresh session token bound to the user's current token version.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !domain.ValidateEmailFormat(email) {
		return nil, "", domain.ErrInvalidEmail
	}
	if password == "" {
		return nil, "", fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("failed to get user by email", "error", err)
		return nil, "", fmt.Errorf("failed to authenticate user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID, user.TokenVersion)
	if err != nil {
		s.logger.Error("failed to generate token", "error", err, "user_id", user.ID)
		return nil, "", fmt.Errorf("failed to generate authentication token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Logout invalidates every session the user holds by bumping the token
// version counter stored on the user record.
func (s *UserService) Logout(ctx context.Context, caller *domain.User) error {
	caller.TokenVersion++
	if err := s.userStore.Update(ctx, caller); err != nil {
		s.logger.Error("failed to bump token version", "error", err, "user_id", caller.ID)
		return fmt.Errorf("failed to log out: %w", err)
	}

	s.logger.Info("user logged out everywhere", "user_id", caller.ID)
	return nil
}
