package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil240896/tms-api/internal/api/middleware"
	"github.com/nikhil240896/tms-api/internal/api/shared"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/mocks"
	"github.com/nikhil240896/tms-api/internal/service/auth"
	"github.com/nikhil240896/tms-api/internal/store"
)

func newTestUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser("tester", "tester-"+uuid.NewString()[:8]+"@example.com", "hashed")
	require.NoError(t, err)
	user.Role = role
	return user
}

func okHandler(seen **domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := shared.UserFromContext(r.Context()); ok {
			*seen = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwtService := auth.NewTestJWTService(
		"test-jwt-secret-at-least-32-characters-long", time.Hour, time.Now)

	user := newTestUser(t, domain.RoleManager)
	user.TokenVersion = 2

	userStore := &mocks.MockUserStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, store.ErrUserNotFound
		},
	}
	mw := middleware.NewAuthMiddleware(jwtService, userStore)

	t.Run("valid token installs the user", func(t *testing.T) {
		t.Parallel()

		token, err := jwtService.GenerateToken(context.Background(), user.ID, 2)
		require.NoError(t, err)

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/tasks/assigned", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		mw.Authenticate(okHandler(&seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, user.ID, seen.ID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		t.Parallel()

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/tasks/assigned", nil)
		rec := httptest.NewRecorder()

		mw.Authenticate(okHandler(&seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		t.Parallel()

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/tasks/assigned", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		mw.Authenticate(okHandler(&seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("stale token version is rejected", func(t *testing.T) {
		t.Parallel()

		// Token issued before a logout-everywhere bump.
		token, err := jwtService.GenerateToken(context.Background(), user.ID, 1)
		require.NoError(t, err)

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/tasks/assigned", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		mw.Authenticate(okHandler(&seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Session is no longer valid")
		assert.Nil(t, seen)
	})

	t.Run("token for a deleted user is rejected", func(t *testing.T) {
		t.Parallel()

		token, err := jwtService.GenerateToken(context.Background(), uuid.New(), 0)
		require.NoError(t, err)

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/tasks/assigned", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		mw.Authenticate(okHandler(&seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := middleware.RequireRoles(domain.RoleAdmin, domain.RoleManager)(handler)

	serve := func(user *domain.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
		if user != nil {
			req = req.WithContext(shared.WithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve(newTestUser(t, domain.RoleAdmin)).Code)
	assert.Equal(t, http.StatusOK, serve(newTestUser(t, domain.RoleManager)).Code)
	assert.Equal(t, http.StatusForbidden, serve(newTestUser(t, domain.RoleUser)).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)
}
