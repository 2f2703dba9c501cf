package cache

import (
	"context"
	"time"

	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// redisSnapshotCache implements the SnapshotCache interface on Redis.
type redisSnapshotCache struct {
	client *redis.Client
}

// NewSnapshotCache is the constructor for redisSnapshotCache.
func NewSnapshotCache(client *redis.Client) service.SnapshotCache {
	return &redisSnapshotCache{client: client}
}

// Get retrieves a cached value. A missing key maps to ErrCacheMiss so
// callers can treat it uniformly.
func (c *redisSnapshotCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, service.ErrCacheMiss
		}

		return nil, errors.Wrap(err, "failed to get cache entry")
	}

	return value, nil
}

// Set stores a value under the key with the given TTL.
func (c *redisSnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to set cache entry")
	}

	return nil
}

// Invalidate removes the given keys. Missing keys are not an error.
func (c *redisSnapshotCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "failed to invalidate cache entries")
	}

	return nil
}
