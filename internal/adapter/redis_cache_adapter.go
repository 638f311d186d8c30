package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sound-byte/internal/domain"

	"github.com/redis/go-redis/v9"
)

// redisCache stores string values under fully built keys from internal/cache.
type redisCache struct {
	rdb redis.Cmdable
}

// NewRedisCacheAdapter returns a domain.Cache backed by rdb.
func NewRedisCacheAdapter(rdb redis.Cmdable) domain.Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", domain.ErrCacheMiss
	case err != nil:
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete ignores the number of removed keys so absent keys are not an error.
func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
