package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// Lockout scopes. Each one is an independent keyspace.
const (
	LockoutScopeLogin = "login"
	LockoutScopePhone = "phone"
)

const defaultFailureWindow = 24 * time.Hour

// LockoutTracker counts failed attempts per identity and locks the identity
// for a fixed period once the threshold is reached.
type LockoutTracker struct {
	store         ports.CounterStore
	scope         string
	maxAttempts   int
	lockFor       time.Duration
	failureWindow time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

func NewLockoutTracker(store ports.CounterStore, scope string, log zerolog.Logger) *LockoutTracker {
	return &LockoutTracker{
		store:         store,
		scope:         scope,
		maxAttempts:   domain.MaxFailedAttempts,
		lockFor:       domain.LockoutDuration,
		failureWindow: defaultFailureWindow,
		log:           log,
		now:           time.Now,
	}
}

// IsLocked reports whether identity is currently locked. Unknown identities
// are never locked.
func (t *LockoutTracker) IsLocked(ctx context.Context, identity string) domain.LockoutStatus {
	c, ok, err := t.store.Get(ctx, t.lockKey(identity))
	if err != nil {
		t.log.Error().Err(err).Str("scope", t.scope).Msg("lockout store unavailable, treating identity as unlocked")
		return domain.LockoutStatus{}
	}
	if !ok {
		return domain.LockoutStatus{}
	}
	return domain.LockoutStatus{Locked: true, LockoutMinutes: t.minutesLeft(c.ResetAt)}
}

// RecordAttempt clears the failure count on success. On failure it counts the
// attempt and locks the identity when the threshold is reached.
func (t *LockoutTracker) RecordAttempt(ctx context.Context, identity string, success bool) domain.LockoutStatus {
	if success {
		if err := t.store.Reset(ctx, t.failKey(identity)); err != nil {
			t.log.Error().Err(err).Str("scope", t.scope).Msg("failed to clear attempt counter")
		}
		return domain.LockoutStatus{AttemptsRemaining: t.maxAttempts}
	}

	c, err := t.store.Increment(ctx, t.failKey(identity), t.failureWindow)
	if err != nil {
		t.log.Error().Err(err).Str("scope", t.scope).Msg("lockout store unavailable, attempt not counted")
		return domain.LockoutStatus{AttemptsRemaining: t.maxAttempts}
	}

	if c.Count < int64(t.maxAttempts) {
		return domain.LockoutStatus{AttemptsRemaining: t.maxAttempts - int(c.Count)}
	}

	lock, err := t.store.Increment(ctx, t.lockKey(identity), t.lockFor)
	if err != nil {
		t.log.Error().Err(err).Str("scope", t.scope).Msg("failed to persist lock")
		return domain.LockoutStatus{Locked: true, LockoutMinutes: int(t.lockFor.Minutes())}
	}
	if err := t.store.Reset(ctx, t.failKey(identity)); err != nil {
		t.log.Error().Err(err).Str("scope", t.scope).Msg("failed to clear attempt counter")
	}

	t.log.Warn().Str("scope", t.scope).Str("identity", identity).Dur("lock_for", t.lockFor).Msg("identity locked")
	return domain.LockoutStatus{Locked: true, LockoutMinutes: t.minutesLeft(lock.ResetAt)}
}

func (t *LockoutTracker) minutesLeft(until time.Time) int {
	m := int(math.Ceil(until.Sub(t.now()).Minutes()))
	if m < 1 {
		return 1
	}
	return m
}

func (t *LockoutTracker) failKey(identity string) string {
	return "lockout:" + t.scope + ":fail:" + strings.ToLower(identity)
}

func (t *LockoutTracker) lockKey(identity string) string {
	return "lockout:" + t.scope + ":lock:" + strings.ToLower(identity)
}
