package ports

import (
	"context"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

type BookingCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
}

type ContactCounts struct {
	Total int64 `json:"total"`
	New   int64 `json:"new"`
}

type ServiceCount struct {
	Service string `json:"service"`
	Count   int64  `json:"count"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	Bookings       BookingCounts     `json:"bookings"`
	Contacts       ContactCounts     `json:"contacts"`
	RecentBookings []*domain.Booking `json:"recentBookings"`
	RecentContacts []*domain.Contact `json:"recentContacts"`
	ServiceStats   []ServiceCount    `json:"serviceStats"`
	BookingsTrend  []TrendPoint      `json:"bookingsTrend"`
}

type LastBooking struct {
	CreatedAt time.Time            `json:"createdAt"`
	Status    domain.BookingStatus `json:"status"`
}

// CustomerSummary is one row of the admin customer list.
type CustomerSummary struct {
	User          *domain.User `json:"user"`
	TotalBookings int          `json:"totalBookings"`
	LastBooking   *LastBooking `json:"lastBooking,omitempty"`
}

type AdminService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	Customers(ctx context.Context, search string) ([]CustomerSummary, error)
}
