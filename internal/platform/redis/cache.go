// Package redis provides the Redis-backed implementation of the cache
// capability used by the assigned-task read path.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikhil240896/tms-api/internal/cache"
	"github.com/nikhil240896/tms-api/internal/config"
)

// Cache implements cache.Cache on top of a Redis server.
type Cache struct {
	client *redis.Client
}

// New connects to Redis using the given configuration and verifies the
// connection with a ping.
func New(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ensure Cache implements cache.Cache.
var _ cache.Cache = (*Cache)(nil)

// Get implements cache.Cache.Get.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set implements cache.Cache.Set.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying client connections.
func (c *Cache) Close() error {
	return c.client.Close()
}
