package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil240896/tms-api/internal/config"
	"github.com/nikhil240896/tms-api/internal/service/auth"
)

const testSecret = "test-jwt-secret-at-least-32-characters-long"

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "too-short",
		TokenLifetimeMinutes: 60,
	})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	svc := auth.NewTestJWTService(testSecret, time.Hour, func() time.Time { return now })

	userID := uuid.New()
	token, err := svc.GenerateToken(ctx, userID, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, 7, claims.TokenVersion, "the token carries the session counter")
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, now, claims.IssuedAt)
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateExpiredToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	svc := auth.NewTestJWTService(testSecret, time.Hour, func() time.Time { return now })

	token, err := svc.GenerateToken(ctx, uuid.New(), 0)
	require.NoError(t, err)

	late := auth.NewTestJWTService(testSecret, time.Hour, func() time.Time {
		return now.Add(2 * time.Hour)
	})
	_, err = late.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()
	svc := auth.NewTestJWTService(testSecret, time.Hour, func() time.Time { return now })

	token, err := svc.GenerateToken(ctx, uuid.New(), 0)
	require.NoError(t, err)

	other := auth.NewTestJWTService("another-jwt-secret-also-32-characters-x", time.Hour,
		func() time.Time { return now })
	_, err = other.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateGarbageToken(t *testing.T) {
	t.Parallel()

	svc := auth.NewTestJWTService(testSecret, time.Hour, time.Now)

	_, err := svc.ValidateToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIsTokenError(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		auth.ErrInvalidToken,
		auth.ErrExpiredToken,
		auth.ErrTokenNotYetValid,
		auth.ErrMissingToken,
		auth.ErrStaleToken,
	} {
		assert.True(t, auth.IsTokenError(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
	assert.False(t, auth.IsTokenError(errors.New("connection reset")))
}
