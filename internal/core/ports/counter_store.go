package ports

import (
	"context"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// CounterStore is the shared fixed-window counter backend behind rate
// limiting and lockout tracking.
type CounterStore interface {
	// Increment atomically adds one to key. The window starts on the first
	// increment; once it lapses the key restarts from zero.
	Increment(ctx context.Context, key string, window time.Duration) (domain.Counter, error)
	// Get returns the live counter for key; ok is false when absent or lapsed.
	Get(ctx context.Context, key string) (c domain.Counter, ok bool, err error)
	Reset(ctx context.Context, key string) error
}
