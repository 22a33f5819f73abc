// Package cache defines the read-through cache capability used by the hot
// read paths. The cache is an optional collaborator: callers treat a missing
// or failing cache as a degraded mode and fall through to the store.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get retrieves the value stored under key. The second return value is
	// false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, expiring it after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
