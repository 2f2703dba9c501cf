package service

import (
	"context"
	"time"

	"storefront/internal/errors"
)

// ErrCacheMiss is returned by SnapshotCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// SnapshotCache defines the interface for the read-side snapshot cache used
// by the profile and cart views. The cache is an accelerator, never a source
// of truth: writers invalidate, readers rebuild on a miss.
type SnapshotCache interface {
	// Get retrieves the raw snapshot stored under key.
	// Returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a snapshot under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes the snapshots stored under the given keys.
	// Missing keys are ignored.
	Invalidate(ctx context.Context, keys ...string) error
}
