package ports

import (
	"context"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// SessionRepository persists login sessions. Implementations must enforce
// uniqueness of AccessHash and Token and report a violation on Create as
// domain.ErrDuplicateKey. Lookups return domain.ErrSessionNotFound.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	FindByAccessHash(ctx context.Context, hash string) (*domain.Session, error)
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	FindByTokenAndHash(ctx context.Context, token, hash string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
