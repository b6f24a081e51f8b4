package usecase

import (
	"context"
	"time"
)

// ContentCache is the read-through cache fronting read-heavy endpoints.
// GetOrCompute returns the stored bytes on a hit; on a miss it runs produce,
// stores the result under key with ttl, and returns it. Invalidate removes
// entries so the next read repopulates; absent keys are no-ops.
type ContentCache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, produce func(ctx context.Context) ([]byte, error)) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
}
