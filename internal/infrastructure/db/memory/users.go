// Package memory provides process-local implementations of the persistence
// and counter ports. It backs single-instance deployments, local development
// and the HTTP scenario tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.User
	email map[string]string // email -> id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:  make(map[string]domain.User),
		email: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.email[u.Email]; ok {
		return domain.ErrDuplicateKey
	}
	if _, ok := r.byID[u.ID]; ok {
		return domain.ErrDuplicateKey
	}
	r.byID[u.ID] = *u
	r.email[u.Email] = u.ID
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.email[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if owner, taken := r.email[u.Email]; taken && owner != u.ID {
		return domain.ErrDuplicateKey
	}
	delete(r.email, prev.Email)
	r.byID[u.ID] = *u
	r.email[u.Email] = u.ID
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.email, u.Email)
	return nil
}

func (r *UserRepository) ListCustomers(_ context.Context, search string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(search)
	out := make([]*domain.User, 0)
	for _, u := range r.byID {
		if u.Role != domain.RoleCustomer {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
