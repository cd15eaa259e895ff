package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

type BookingRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{byID: make(map[string]domain.Booking)}
}

func (r *BookingRepository) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[b.ID]; ok {
		return domain.ErrDuplicateKey
	}
	r.byID[b.ID] = cloneBooking(*b)
	return nil
}

func (r *BookingRepository) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b = cloneBooking(b)
	return &b, nil
}

func (r *BookingRepository) Update(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[b.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	r.byID[b.ID] = cloneBooking(*b)
	return nil
}

func (r *BookingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *BookingRepository) List(_ context.Context, f ports.BookingFilter) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, b := range r.byID {
		if !matchBooking(b, f) {
			continue
		}
		b = cloneBooking(b)
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.SortByDate {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *BookingRepository) Count(_ context.Context, f ports.BookingFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, b := range r.byID {
		if matchBooking(b, f) {
			n++
		}
	}
	return n, nil
}

func (r *BookingRepository) CountByService(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64)
	for _, b := range r.byID {
		for _, s := range b.Services {
			out[s]++
		}
	}
	return out, nil
}

func matchBooking(b domain.Booking, f ports.BookingFilter) bool {
	switch {
	case f.Status != "" && b.Status != f.Status:
		return false
	case f.UserID != "" && b.UserID != f.UserID:
		return false
	case !f.DateFrom.IsZero() && b.Date.Before(f.DateFrom):
		return false
	case !f.DateTo.IsZero() && b.Date.After(f.DateTo):
		return false
	case !f.CreatedFrom.IsZero() && b.CreatedAt.Before(f.CreatedFrom):
		return false
	}
	return true
}

func cloneBooking(b domain.Booking) domain.Booking {
	b.Services = slices.Clone(b.Services)
	return b
}
