package mocks

import (
	"context"
	"time"

	"github.com/nikhil240896/tms-api/internal/cache"
)

// SetCall records the arguments of one cache Set invocation.
type SetCall struct {
	Key   string
	Value []byte
	TTL   time.Duration
}

// MockCache implements cache.Cache for testing.
type MockCache struct {
	GetFn func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Call tracking
	GetCalls []string
	SetCalls []SetCall
}

var _ cache.Cache = (*MockCache)(nil)

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.GetCalls = append(m.GetCalls, key)
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return nil, false, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value, TTL: ttl})
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	return nil
}
