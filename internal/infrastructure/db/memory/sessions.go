package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// SessionRepository keeps sessions indexed by id, token and access hash.
// The secondary indexes enforce the same uniqueness as the Mongo indexes.
type SessionRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Session
	byToken map[string]string
	byHash  map[string]string
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		byID:    make(map[string]domain.Session),
		byToken: make(map[string]string),
		byHash:  make(map[string]string),
	}
}

func (r *SessionRepository) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byHash[s.AccessHash]; ok {
		return domain.ErrDuplicateKey
	}
	if _, ok := r.byToken[s.Token]; ok {
		return domain.ErrDuplicateKey
	}
	r.byID[s.ID] = *s
	r.byToken[s.Token] = s.ID
	r.byHash[s.AccessHash] = s.ID
	return nil
}

func (r *SessionRepository) FindByAccessHash(_ context.Context, hash string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byHash[hash])
}

func (r *SessionRepository) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byToken[token])
}

func (r *SessionRepository) FindByTokenAndHash(_ context.Context, token, hash string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok || r.byHash[hash] != id {
		return nil, domain.ErrSessionNotFound
	}
	return r.lookup(id)
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrSessionNotFound
	}
	r.remove(id)
	return nil
}

func (r *SessionRepository) DeleteByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byToken[token]
	if !ok {
		return domain.ErrSessionNotFound
	}
	r.remove(id)
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.byID {
		if s.Expired(now) {
			r.remove(id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored sessions.
func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *SessionRepository) lookup(id string) (*domain.Session, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *SessionRepository) remove(id string) {
	s := r.byID[id]
	delete(r.byID, id)
	delete(r.byToken, s.Token)
	delete(r.byHash, s.AccessHash)
}
