package cache

import (
	"context"
	"time"
)

// Store is a small string key-value cache with TTL. The classify cache is
// its only consumer; misses are normal and never errors.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Close() error
}
