package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// RateLimiter is a fixed-window counter over a shared CounterStore.
// Bursts straddling a window boundary are accepted.
type RateLimiter struct {
	store ports.CounterStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewRateLimiter(store ports.CounterStore, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{store: store, log: log, now: time.Now}
}

// Allow counts one request from client against policy.
func (r *RateLimiter) Allow(ctx context.Context, policy domain.RateLimitPolicy, client string) domain.RateLimitResult {
	return r.Check(ctx, "rl:"+policy.Name+":"+client, policy.Window, policy.Max)
}

// Check counts one request against key. When the store is unreachable the
// request is allowed and the failure logged.
func (r *RateLimiter) Check(ctx context.Context, key string, window time.Duration, max int) domain.RateLimitResult {
	c, err := r.store.Increment(ctx, key, window)
	if err != nil {
		r.log.Error().Err(err).Str("key", key).Msg("rate limit store unavailable, allowing request")
		return domain.RateLimitResult{Allowed: true, Remaining: max, ResetAt: r.now().Add(window)}
	}

	res := domain.RateLimitResult{
		Allowed:   c.Count <= int64(max),
		Remaining: max - int(c.Count),
		ResetAt:   c.ResetAt,
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = retryAfterSeconds(c.ResetAt.Sub(r.now()))
	}
	return res
}

func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
