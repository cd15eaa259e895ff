package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

type counterEntry struct {
	count   int64
	resetAt time.Time
}

// CounterStore is a mutex-guarded fixed-window counter map. Counters are lost
// on restart and are not shared between processes.
type CounterStore struct {
	mu      sync.Mutex
	entries map[string]counterEntry
	now     func() time.Time
}

// NewCounterStore returns an empty store. now defaults to time.Now.
func NewCounterStore(now func() time.Time) *CounterStore {
	if now == nil {
		now = time.Now
	}
	return &CounterStore{entries: make(map[string]counterEntry), now: now}
}

func (s *CounterStore) Increment(_ context.Context, key string, window time.Duration) (domain.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = counterEntry{resetAt: now.Add(window)}
	}
	e.count++
	s.entries[key] = e
	return domain.Counter{Count: e.count, ResetAt: e.resetAt}, nil
}

func (s *CounterStore) Get(_ context.Context, key string) (domain.Counter, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.resetAt) {
		return domain.Counter{}, false, nil
	}
	return domain.Counter{Count: e.count, ResetAt: e.resetAt}, true, nil
}

func (s *CounterStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Reap drops every lapsed counter and returns how many were removed.
func (s *CounterStore) Reap(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}
