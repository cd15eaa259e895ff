package ports

import (
	"context"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// BookingFilter narrows List and Count. Zero values mean "no filter".
type BookingFilter struct {
	Status      domain.BookingStatus
	UserID      string
	DateFrom    time.Time // Date >= DateFrom
	DateTo      time.Time // Date <= DateTo
	CreatedFrom time.Time // CreatedAt >= CreatedFrom
	SortByDate  bool      // order by Date desc instead of CreatedAt desc
	Limit       int
}

// BookingRepository defines persistence operations for bookings.
// Lookups return domain.ErrBookingNotFound when nothing matches.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	// CountByService returns how many bookings include each service id.
	CountByService(ctx context.Context) (map[string]int64, error)
}
