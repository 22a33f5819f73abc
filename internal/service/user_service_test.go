package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/mocks"
	"github.com/nikhil240896/tms-api/internal/service"
	"github.com/nikhil240896/tms-api/internal/service/auth"
	"github.com/nikhil240896/tms-api/internal/store"
)

func newUserService(
	userStore *mocks.MockUserStore,
	jwtService *mocks.MockJWTService,
	mailer *mocks.MockMailer,
) *service.UserService {
	hasher := auth.NewBcryptHasher(4)
	return service.NewUserService(userStore, hasher, hasher, jwtService, mailer, nil)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success persists the user and sends the email", func(t *testing.T) {
		t.Parallel()

		userStore := &mocks.MockUserStore{}
		mailer := &mocks.MockMailer{}
		svc := newUserService(userStore, &mocks.MockJWTService{}, mailer)

		user, err := svc.Register(ctx, "alice", "Alice@Example.com", "Passw0rd!", "Passw0rd!")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.NotEqual(t, "Passw0rd!", user.HashedPassword, "password must be stored hashed")

		require.Len(t, userStore.CreateCalls, 1)
		require.Len(t, mailer.SendCalls, 1)
		assert.Equal(t, "alice@example.com", mailer.SendCalls[0].To)
		assert.Equal(t, "Registration completed", mailer.SendCalls[0].Subject)
		assert.Equal(t, "You have registered successfully", mailer.SendCalls[0].Body)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		t.Parallel()

		svc := newUserService(&mocks.MockUserStore{}, &mocks.MockJWTService{}, &mocks.MockMailer{})

		_, err := svc.Register(ctx, "alice", "not-an-email", "Passw0rd!", "Passw0rd!")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("rejects weak password before touching the store", func(t *testing.T) {
		t.Parallel()

		userStore := &mocks.MockUserStore{}
		svc := newUserService(userStore, &mocks.MockJWTService{}, &mocks.MockMailer{})

		_, err := svc.Register(ctx, "alice", "alice@example.com", "weak", "weak")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, userStore.CreateCalls)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()

		existing := newTestUser(t, domain.RoleUser)
		userStore := &mocks.MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return existing, nil
			},
		}
		svc := newUserService(userStore, &mocks.MockJWTService{}, &mocks.MockMailer{})

		_, err := svc.Register(ctx, "alice", existing.Email, "Passw0rd!", "Passw0rd!")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("mail failure after persistence is an error", func(t *testing.T) {
		t.Parallel()

		userStore := &mocks.MockUserStore{}
		mailer := &mocks.MockMailer{
			SendFn: func(ctx context.Context, to, subject, body string) error {
				return errors.New("smtp unavailable")
			},
		}
		svc := newUserService(userStore, &mocks.MockJWTService{}, mailer)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "Passw0rd!", "Passw0rd!")
		require.Error(t, err)
		assert.Len(t, userStore.CreateCalls, 1, "the user row is created before the mail attempt")
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hasher := auth.NewBcryptHasher(4)

	hashed, err := hasher.Hash("Passw0rd!")
	require.NoError(t, err)

	known := newTestUser(t, domain.RoleManager)
	known.HashedPassword = hashed
	known.TokenVersion = 3

	userStore := &mocks.MockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email == known.Email {
				return known, nil
			}
			return nil, store.ErrUserNotFound
		},
	}

	t.Run("success returns the user and a token", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{Token: "signed-token"}
		svc := newUserService(userStore, jwtService, &mocks.MockMailer{})

		user, token, err := svc.Login(ctx, known.Email, "Passw0rd!")
		require.NoError(t, err)
		assert.Equal(t, known.ID, user.ID)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("token carries the current token version", func(t *testing.T) {
		t.Parallel()

		var seenVersion int
		jwtService := &mocks.MockJWTService{}
		jwtService.GenerateTokenFn = func(ctx context.Context, userID uuid.UUID, tokenVersion int) (string, error) {
			seenVersion = tokenVersion
			return "t", nil
		}
		svc := newUserService(userStore, jwtService, &mocks.MockMailer{})

		_, _, err := svc.Login(ctx, known.Email, "Passw0rd!")
		require.NoError(t, err)
		assert.Equal(t, 3, seenVersion)
	})

	t.Run("unknown email yields invalid credentials", func(t *testing.T) {
		t.Parallel()

		svc := newUserService(userStore, &mocks.MockJWTService{}, &mocks.MockMailer{})

		_, _, err := svc.Login(ctx, "nobody@example.com", "Passw0rd!")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("wrong password yields invalid credentials", func(t *testing.T) {
		t.Parallel()

		svc := newUserService(userStore, &mocks.MockJWTService{}, &mocks.MockMailer{})

		_, _, err := svc.Login(ctx, known.Email, "Wrong0ne!")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	caller := newTestUser(t, domain.RoleUser)
	caller.TokenVersion = 5

	userStore := &mocks.MockUserStore{}
	svc := newUserService(userStore, &mocks.MockJWTService{}, &mocks.MockMailer{})

	require.NoError(t, svc.Logout(ctx, caller))

	assert.Equal(t, 6, caller.TokenVersion, "logout bumps the token version")
	require.Len(t, userStore.UpdateCalls, 1)
	assert.Equal(t, 6, userStore.UpdateCalls[0].TokenVersion)
}
