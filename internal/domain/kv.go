package domain

import (
	"context"
	"time"
)

// KeyValueStore is the thin client surface over the shared remote store.
// All cross-request state (cache entries, rate counters) lives behind it;
// nothing in this process holds cache state of its own.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
