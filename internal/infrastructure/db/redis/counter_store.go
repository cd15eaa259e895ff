package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// incrScript bumps the counter and arms the expiry on the first hit. A key
// left without a TTL (e.g. a crash between INCR and PEXPIRE on an older
// server) is re-armed so it can never stick forever.
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if n == 1 or ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// CounterStore keeps fixed-window counters as plain Redis integers with a
// TTL equal to the window, so every app instance shares the same budget.
type CounterStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewCounterStore(client *redis.Client) *CounterStore {
	return &CounterStore{client: client, now: time.Now}
}

func (s *CounterStore) Increment(ctx context.Context, key string, window time.Duration) (domain.Counter, error) {
	res, err := incrScript.Run(ctx, s.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return domain.Counter{}, fmt.Errorf("incr %s: %w", key, err)
	}
	if len(res) != 2 {
		return domain.Counter{}, fmt.Errorf("incr %s: unexpected reply %v", key, res)
	}
	return domain.Counter{
		Count:   res[0],
		ResetAt: s.now().Add(time.Duration(res[1]) * time.Millisecond),
	}, nil
}

func (s *CounterStore) Get(ctx context.Context, key string) (domain.Counter, bool, error) {
	var (
		get *redis.StringCmd
		ttl *redis.DurationCmd
	)
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		get = p.Get(ctx, key)
		ttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Counter{}, false, fmt.Errorf("get %s: %w", key, err)
	}

	n, err := get.Int64()
	if errors.Is(err, redis.Nil) {
		return domain.Counter{}, false, nil
	}
	if err != nil {
		return domain.Counter{}, false, fmt.Errorf("get %s: %w", key, err)
	}
	d := ttl.Val()
	if d <= 0 {
		return domain.Counter{}, false, nil
	}
	return domain.Counter{Count: n, ResetAt: s.now().Add(d)}, true, nil
}

func (s *CounterStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the backing server is reachable.
func (s *CounterStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
