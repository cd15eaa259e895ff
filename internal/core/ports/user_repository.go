package ports

import (
	"context"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// Lookups return domain.ErrUserNotFound when nothing matches and Create
// returns domain.ErrDuplicateKey when the email is already stored.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	// ListCustomers returns CUSTOMER users whose name or email contains
	// search (case-insensitive), newest first. Empty search matches all.
	ListCustomers(ctx context.Context, search string) ([]*domain.User, error)
}
