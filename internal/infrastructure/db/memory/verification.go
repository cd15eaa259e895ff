package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

type VerificationRepository struct {
	mu    sync.RWMutex
	codes map[string]domain.VerificationCode
}

func NewVerificationRepository() *VerificationRepository {
	return &VerificationRepository{codes: make(map[string]domain.VerificationCode)}
}

func (r *VerificationRepository) Create(_ context.Context, v *domain.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[v.ID] = *v
	return nil
}

func (r *VerificationRepository) FindIssuedSince(_ context.Context, phone string, since time.Time) (*domain.VerificationCode, error) {
	return r.newest(func(v domain.VerificationCode) bool {
		return v.Phone == phone && !v.CreatedAt.Before(since)
	})
}

func (r *VerificationRepository) FindUnverified(_ context.Context, phone, code string) (*domain.VerificationCode, error) {
	return r.newest(func(v domain.VerificationCode) bool {
		return v.Phone == phone && v.Code == code && !v.Verified
	})
}

func (r *VerificationRepository) FindVerified(_ context.Context, phone string) (*domain.VerificationCode, error) {
	return r.newest(func(v domain.VerificationCode) bool {
		return v.Phone == phone && v.Verified
	})
}

func (r *VerificationRepository) MarkVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.codes[id]
	if !ok {
		return domain.ErrCodeNotFound
	}
	v.Verified = true
	r.codes[id] = v
	return nil
}

func (r *VerificationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[id]; !ok {
		return domain.ErrCodeNotFound
	}
	delete(r.codes, id)
	return nil
}

func (r *VerificationRepository) DeleteByPhone(_ context.Context, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, v := range r.codes {
		if v.Phone == phone {
			delete(r.codes, id)
		}
	}
	return nil
}

func (r *VerificationRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, v := range r.codes {
		if v.Expired(now) {
			delete(r.codes, id)
			n++
		}
	}
	return n, nil
}

func (r *VerificationRepository) newest(match func(domain.VerificationCode) bool) (*domain.VerificationCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *domain.VerificationCode
	for _, v := range r.codes {
		if !match(v) {
			continue
		}
		if best == nil || v.CreatedAt.After(best.CreatedAt) {
			v := v
			best = &v
		}
	}
	if best == nil {
		return nil, domain.ErrCodeNotFound
	}
	return best, nil
}
