package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLLeaderboard = 1 * time.Minute  // leaderboard (cheap to recompute, high read volume)
	TTLSummary     = 30 * time.Second // per-user XP summary
	TTLProgress    = 15 * time.Second // daily progress (must track awards closely)
	TTLDefault     = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixLeaderboard = "leaderboard:"
	PrefixSummary     = "xpsummary:"
	PrefixProgress    = "progress:"
	PrefixUser        = "user:"
)

// Service is the Redis cache service interface.
// All operations are safe to call with no Redis backing; writes become
// no-ops and reads return redis.Nil so callers fall through to the DB.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Leaderboard cache
	GetLeaderboard(ctx context.Context, limit int, dest interface{}) error
	SetLeaderboard(ctx context.Context, limit int, data interface{}) error
	InvalidateLeaderboard(ctx context.Context) error

	// Per-user caches, invalidated together on any award
	GetUserSummary(ctx context.Context, wallet string, dest interface{}) error
	SetUserSummary(ctx context.Context, wallet string, data interface{}) error
	GetDailyProgress(ctx context.Context, wallet string, dest interface{}) error
	SetDailyProgress(ctx context.Context, wallet string, data interface{}) error
	InvalidateUser(ctx context.Context, wallet string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a Redis-backed cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return redis.Nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *redisCache) GetLeaderboard(ctx context.Context, limit int, dest interface{}) error {
	return c.Get(ctx, fmt.Sprintf("%stop:%d", PrefixLeaderboard, limit), dest)
}

func (c *redisCache) SetLeaderboard(ctx context.Context, limit int, data interface{}) error {
	return c.Set(ctx, fmt.Sprintf("%stop:%d", PrefixLeaderboard, limit), data, TTLLeaderboard)
}

func (c *redisCache) InvalidateLeaderboard(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	iter := c.client.Scan(ctx, 0, PrefixLeaderboard+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}

func (c *redisCache) GetUserSummary(ctx context.Context, wallet string, dest interface{}) error {
	return c.Get(ctx, PrefixSummary+wallet, dest)
}

func (c *redisCache) SetUserSummary(ctx context.Context, wallet string, data interface{}) error {
	return c.Set(ctx, PrefixSummary+wallet, data, TTLSummary)
}

func (c *redisCache) GetDailyProgress(ctx context.Context, wallet string, dest interface{}) error {
	return c.Get(ctx, PrefixProgress+wallet, dest)
}

func (c *redisCache) SetDailyProgress(ctx context.Context, wallet string, data interface{}) error {
	return c.Set(ctx, PrefixProgress+wallet, data, TTLProgress)
}

func (c *redisCache) InvalidateUser(ctx context.Context, wallet string) error {
	return c.Delete(ctx,
		PrefixSummary+wallet,
		PrefixProgress+wallet,
		PrefixUser+wallet,
	)
}
