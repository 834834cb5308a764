package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. It is the backend
// behind "none" in the serve configuration, so every scene request runs the
// full pipeline. Also handy in tests that want cache-free behavior without
// branching.
type NullCache struct{}

// NewNullCache creates a disabled cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always reports a miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the payload.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete has nothing to remove.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close has nothing to release.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
