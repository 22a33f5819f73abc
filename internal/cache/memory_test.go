package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil240896/tms-api/internal/cache"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory()

	_, found, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))

	got, found, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("value"), got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	c := cache.NewMemoryWithClock(func() time.Time { return now })

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 10*time.Minute))

	now = now.Add(9 * time.Minute)
	_, found, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found, "entry should survive within its TTL")

	now = now.Add(2 * time.Minute)
	_, found, err = c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found, "entry should expire after its TTL")
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory()

	original := []byte("value")
	require.NoError(t, c.Set(ctx, "key", original, time.Minute))
	original[0] = 'X'

	got, found, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("value"), got, "stored bytes must not alias the caller's slice")

	got[0] = 'Y'
	again, _, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again, "returned bytes must not alias the stored slice")
}
