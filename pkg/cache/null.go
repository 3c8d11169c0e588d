package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs --no-cache, `backend = "none"` and runs
// whose store has no identity. Like the real backends it honors ctx.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

// Set discards data.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return ctx.Err()
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return ctx.Err()
}

// Clear removes nothing and reports zero entries.
func (c *NullCache) Clear(ctx context.Context) (int, error) {
	return 0, ctx.Err()
}

func (c *NullCache) Close() error { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
