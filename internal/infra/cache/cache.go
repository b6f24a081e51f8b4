package cache

import (
	"context"
	"fmt"
	"time"

	"newsroom/internal/domain"
	"newsroom/internal/usecase"
)

// Cache is a read-through cache over the shared key-value store. A hit
// returns the stored bytes as-is, with no staleness check. A miss runs the
// producer, stores its output under the key with the given ttl, and returns
// it. There is no single-flight guard: concurrent misses on one key each run
// the producer and overwrite each other, last writer wins.
type Cache struct {
	kv domain.KeyValueStore
}

func New(kv domain.KeyValueStore) *Cache {
	return &Cache{kv: kv}
}

func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, produce func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	value, found, err := c.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	if found {
		return value, nil
	}
	fresh, err := produce(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.kv.Set(ctx, key, fresh, ttl); err != nil {
		return nil, fmt.Errorf("cache set %s: %w", key, err)
	}
	return fresh, nil
}

// Invalidate removes the given keys. Deleting an absent key is a no-op.
// Mutating operations call this after their database write commits and
// before they acknowledge the write to the caller.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if err := c.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

var _ usecase.ContentCache = (*Cache)(nil)
