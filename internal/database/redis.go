package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lifequest/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Cache wraps an optional Redis client. A nil *Cache is valid: reads miss,
// writes are dropped and every rate-limit check passes.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis at addr. It returns nil when addr is empty or
// the server does not answer, so callers can run without Redis.
func NewCache(ctx context.Context, addr, password string) *Cache {
	if addr == "" {
		logger.Warn().Msg("REDIS_ADDR not set, caching and throttling disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", addr).Msg("Failed to connect to Redis, caching and throttling disabled")
		_ = client.Close()
		return nil
	}
	logger.Info().Str("addr", addr).Msg("Connected to Redis")
	return NewCacheWithClient(client)
}

// NewCacheWithClient wraps an existing client.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the JSON value at key into dest. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Allow counts one hit against key inside a fixed window and reports whether
// the count is still within limit.
func (c *Cache) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !c.Enabled() {
		return true, nil
	}
	k := fmt.Sprintf("rate_limit:%s", key)
	count, err := c.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// a key left without a TTL would throttle the caller forever
		if err := c.client.Expire(ctx, k, window).Err(); err != nil {
			c.client.Del(ctx, k)
			return false, fmt.Errorf("set window on %s: %w", k, err)
		}
	}
	return count <= int64(limit), nil
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
