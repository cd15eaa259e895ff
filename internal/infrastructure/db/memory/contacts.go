package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

type ContactRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.Contact
	now  func() time.Time
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{byID: make(map[string]domain.Contact), now: time.Now}
}

func (r *ContactRepository) Create(_ context.Context, c *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID]; ok {
		return domain.ErrDuplicateKey
	}
	r.byID[c.ID] = *c
	return nil
}

func (r *ContactRepository) FindByID(_ context.Context, id string) (*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	return &c, nil
}

func (r *ContactRepository) UpdateStatus(_ context.Context, id string, status domain.ContactStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return domain.ErrContactNotFound
	}
	c.Status = status
	c.UpdatedAt = r.now().UTC()
	r.byID[id] = c
	return nil
}

func (r *ContactRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrContactNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *ContactRepository) List(_ context.Context, f ports.ContactFilter) ([]*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Contact, 0)
	for _, c := range r.byID {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *ContactRepository) Count(_ context.Context, f ports.ContactFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, c := range r.byID {
		if f.Status == "" || c.Status == f.Status {
			n++
		}
	}
	return n, nil
}
