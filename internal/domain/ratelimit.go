package domain

import (
	"context"
	"time"
)

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is set only when the window end is known. Denials leave it
	// zero: a denied request does not touch the counter's expiry.
	ResetAt time.Time
}

type RateLimiter interface {
	Allow(ctx context.Context, identity string, limit int, window time.Duration) (RateLimitDecision, error)
}
