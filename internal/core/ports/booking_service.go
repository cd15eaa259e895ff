package ports

import (
	"context"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// CreateBookingInput is the raw public booking form.
type CreateBookingInput struct {
	Services []string
	Date     string
	Time     string
	Name     string
	Email    string
	Phone    string
	Address  string
	Notes    string
}

// SignupBookingInput creates a customer account together with its first booking.
type SignupBookingInput struct {
	Booking  CreateBookingInput
	Password string
}

type SignupResult struct {
	User    *domain.User
	Booking *domain.Booking
}

// ListBookingsInput holds the query string of the staff booking list.
type ListBookingsInput struct {
	Status   string // "" or "ALL" disables the filter
	DateFrom string
	DateTo   string
}

// UpdateBookingInput holds the optional fields staff may edit.
type UpdateBookingInput struct {
	Status *string
	Notes  *string
	Date   *string
	Time   *string
}

type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	CreateWithSignup(ctx context.Context, in SignupBookingInput) (*SignupResult, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, in ListBookingsInput) ([]*domain.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	Update(ctx context.Context, id string, in UpdateBookingInput) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
}
