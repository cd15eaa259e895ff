package ports

import (
	"context"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// ContactFilter narrows List and Count. Zero values mean "no filter".
type ContactFilter struct {
	Status domain.ContactStatus
	Limit  int
}

// ContactRepository defines persistence operations for contact messages.
// Lookups return domain.ErrContactNotFound when nothing matches.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) error
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ContactFilter) ([]*domain.Contact, error)
	Count(ctx context.Context, filter ContactFilter) (int64, error)
}
