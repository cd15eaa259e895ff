package ports

import (
	"context"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// VerificationRepository persists phone verification codes.
// Lookups return domain.ErrCodeNotFound when nothing matches.
type VerificationRepository interface {
	Create(ctx context.Context, v *domain.VerificationCode) error
	// FindIssuedSince returns the newest code for phone created at or after since.
	FindIssuedSince(ctx context.Context, phone string, since time.Time) (*domain.VerificationCode, error)
	FindUnverified(ctx context.Context, phone, code string) (*domain.VerificationCode, error)
	// FindVerified returns the newest verified code for phone.
	FindVerified(ctx context.Context, phone string) (*domain.VerificationCode, error)
	MarkVerified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteByPhone(ctx context.Context, phone string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
