// Package cache defines the port interface for the template byte cache.
package cache

import (
	"context"
	"time"
)

// Cache fronts template object storage. Uploads write through it and
// the generation path consults it before hitting the object store.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
