package cache

import (
	"context"
	"sync"
	"time"
)

// entry is a stored value with its expiry instant.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache implementation with per-entry TTL.
// It backs local development and tests; production deployments point the
// service at Redis instead. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	nowFunc func() time.Time // Injectable for testing
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		nowFunc: time.Now,
	}
}

// NewMemoryWithClock creates an in-memory cache using the given time source.
func NewMemoryWithClock(nowFunc func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		nowFunc: nowFunc,
	}
}

// Ensure Memory implements Cache.
var _ Cache = (*Memory)(nil)

// Get implements Cache.Get. Expired entries are dropped on access.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.nowFunc().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}

	// Copy so callers cannot mutate the cached bytes.
	value := make([]byte, len(e.value))
	copy(value, e.value)
	return value, true, nil
}

// Set implements Cache.Set.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[key] = entry{
		value:     stored,
		expiresAt: m.nowFunc().Add(ttl),
	}
	return nil
}
