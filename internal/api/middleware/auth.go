package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nikhil240896/tms-api/internal/api"
	"github.com/nikhil240896/tms-api/internal/api/shared"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/service/auth"
	"github.com/nikhil240896/tms-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. Beyond signature and
// expiry checks it resolves the current user record and compares token
// versions, so a logout-everywhere invalidates tokens that would otherwise
// still verify.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the bearer token, loads the user, checks the token
// version and installs the user in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			api.HandleAPIError(w, r, auth.ErrMissingToken, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			api.HandleAPIError(w, r, auth.ErrMissingToken, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			if !auth.IsTokenError(err) {
				slog.Error("failed to validate token", "error", err)
			}
			api.HandleAPIError(w, r, err, "")
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				// A token naming no user reads the same as an invalid one.
				api.HandleAPIError(w, r, auth.ErrInvalidToken, "")
				return
			}
			slog.Error("failed to load authenticated user", "error", err, "user_id", claims.UserID)
			api.HandleAPIError(w, r, err, "Authentication error")
			return
		}

		if claims.TokenVersion != user.TokenVersion {
			api.HandleAPIError(w, r, auth.ErrStaleToken, "")
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles restricts a route to callers holding one of the given roles.
// It must run after Authenticate.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := shared.UserFromContext(r.Context())
			if !ok {
				api.HandleAPIError(w, r, domain.ErrUnauthorized, "Authentication required")
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				shared.RespondWithError(w, r, http.StatusForbidden,
					"You are not allowed to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
