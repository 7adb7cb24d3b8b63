package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Cache stores JSON-encodable values with a TTL.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	// Increment atomically adds one to an integer counter, creating it at 1.
	Increment(ctx context.Context, key string) (int64, error)
	// GetInt64 returns 0 for a missing counter.
	GetInt64(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
