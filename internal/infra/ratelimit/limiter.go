package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"newsroom/internal/domain"
)

const keyPrefix = "rate_limit:"

// Limiter bounds request volume per client identity with a fixed window
// that refreshes on activity: every allowed request increments the counter
// and resets its expiry to a full window, so a steady stream arriving faster
// than the window keeps extending it. The counter only resets when the key
// expires. This is deliberately not a sliding window or leaky bucket.
type Limiter struct {
	kv  domain.KeyValueStore
	now func() time.Time
}

func New(kv domain.KeyValueStore, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{kv: kv, now: now}
}

func (l *Limiter) Allow(ctx context.Context, identity string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	key := keyPrefix + identity

	raw, found, err := l.kv.Get(ctx, key)
	if err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("rate limit read %s: %w", identity, err)
	}
	if found {
		count, parseErr := strconv.ParseInt(string(raw), 10, 64)
		if parseErr == nil && count >= int64(limit) {
			// Denied requests leave the counter and its expiry untouched.
			return domain.RateLimitDecision{
				Allowed:   false,
				Limit:     limit,
				Remaining: 0,
			}, nil
		}
	}

	count, err := l.kv.Increment(ctx, key)
	if err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("rate limit increment %s: %w", identity, err)
	}
	if err := l.kv.Expire(ctx, key, window); err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("rate limit expire %s: %w", identity, err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   true,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   l.now().Add(window),
	}, nil
}

var _ domain.RateLimiter = (*Limiter)(nil)
