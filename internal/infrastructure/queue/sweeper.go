package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/api/metrics"
)

const defaultSweepInterval = time.Minute

// Expirer removes records that lapsed before now and reports how many.
type Expirer interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Reaper drops lapsed entries from a store that tracks its own clock.
type Reaper interface {
	Reap(ctx context.Context) (int64, error)
}

// Sweeper periodically purges expired sessions, verification codes and,
// for the in-memory backend, lapsed counters.
type Sweeper struct {
	sessions Expirer
	codes    Expirer
	counters Reaper // nil when counters expire natively
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewSweeper(sessions, codes Expirer, counters Reaper, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		sessions: sessions,
		codes:    codes,
		counters: counters,
		interval: interval,
		log:      log.With().Str("component", "sweeper").Logger(),
		now:      time.Now,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. Failures are logged and the pass continues.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()

	if n, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		s.log.Error().Err(err).Msg("sweep sessions")
	} else if n > 0 {
		metrics.SweptRecordsTotal.WithLabelValues("sessions").Add(float64(n))
		s.log.Debug().Int64("deleted", n).Msg("expired sessions removed")
	}

	if n, err := s.codes.DeleteExpired(ctx, now); err != nil {
		s.log.Error().Err(err).Msg("sweep verification codes")
	} else if n > 0 {
		metrics.SweptRecordsTotal.WithLabelValues("verification_codes").Add(float64(n))
		s.log.Debug().Int64("deleted", n).Msg("expired verification codes removed")
	}

	if s.counters == nil {
		return
	}
	if n, err := s.counters.Reap(ctx); err != nil {
		s.log.Error().Err(err).Msg("sweep counters")
	} else if n > 0 {
		metrics.SweptRecordsTotal.WithLabelValues("counters").Add(float64(n))
	}
}
