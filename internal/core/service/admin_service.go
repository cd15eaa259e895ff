package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const (
	recentItems     = 5
	trendDays       = 7
	maxSearchLength = 100
)

// AdminService builds the dashboard overview and the customer list.
type AdminService struct {
	bookings ports.BookingRepository
	contacts ports.ContactRepository
	users    ports.UserRepository
	loc      *time.Location
	log      zerolog.Logger
	now      func() time.Time
}

func NewAdminService(
	bookings ports.BookingRepository,
	contacts ports.ContactRepository,
	users ports.UserRepository,
	loc *time.Location,
	log zerolog.Logger,
) *AdminService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminService{
		bookings: bookings,
		contacts: contacts,
		users:    users,
		loc:      loc,
		log:      log,
		now:      time.Now,
	}
}

func (s *AdminService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	var out ports.DashboardStats
	var err error

	counts := []struct {
		dst    *int64
		filter ports.BookingFilter
	}{
		{&out.Bookings.Total, ports.BookingFilter{}},
		{&out.Bookings.Pending, ports.BookingFilter{Status: domain.BookingPending}},
		{&out.Bookings.Confirmed, ports.BookingFilter{Status: domain.BookingConfirmed}},
		{&out.Bookings.Completed, ports.BookingFilter{Status: domain.BookingCompleted}},
	}
	for _, c := range counts {
		if *c.dst, err = s.bookings.Count(ctx, c.filter); err != nil {
			return nil, fmt.Errorf("count bookings: %w", err)
		}
	}
	if out.Contacts.Total, err = s.contacts.Count(ctx, ports.ContactFilter{}); err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	if out.Contacts.New, err = s.contacts.Count(ctx, ports.ContactFilter{Status: domain.ContactNew}); err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	if out.RecentBookings, err = s.bookings.List(ctx, ports.BookingFilter{Limit: recentItems}); err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	if out.RecentContacts, err = s.contacts.List(ctx, ports.ContactFilter{Limit: recentItems}); err != nil {
		return nil, fmt.Errorf("recent contacts: %w", err)
	}

	perService, err := s.bookings.CountByService(ctx)
	if err != nil {
		return nil, fmt.Errorf("service stats: %w", err)
	}
	out.ServiceStats = make([]ports.ServiceCount, 0, len(perService))
	for svc, n := range perService {
		out.ServiceStats = append(out.ServiceStats, ports.ServiceCount{Service: svc, Count: n})
	}
	sort.Slice(out.ServiceStats, func(i, j int) bool {
		if out.ServiceStats[i].Count != out.ServiceStats[j].Count {
			return out.ServiceStats[i].Count > out.ServiceStats[j].Count
		}
		return out.ServiceStats[i].Service < out.ServiceStats[j].Service
	})

	if out.BookingsTrend, err = s.trend(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// trend counts bookings created on each of the last trendDays local days,
// oldest first, including days with no bookings.
func (s *AdminService) trend(ctx context.Context) ([]ports.TrendPoint, error) {
	y, m, d := s.now().In(s.loc).Date()
	start := time.Date(y, m, d-trendDays+1, 0, 0, 0, 0, s.loc)

	recent, err := s.bookings.List(ctx, ports.BookingFilter{CreatedFrom: start})
	if err != nil {
		return nil, fmt.Errorf("bookings trend: %w", err)
	}

	byDay := make(map[string]int64, trendDays)
	for _, b := range recent {
		byDay[b.CreatedAt.In(s.loc).Format(time.DateOnly)]++
	}

	points := make([]ports.TrendPoint, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		day := start.AddDate(0, 0, i).Format(time.DateOnly)
		points = append(points, ports.TrendPoint{Date: day, Count: byDay[day]})
	}
	return points, nil
}

func (s *AdminService) Customers(ctx context.Context, search string) ([]ports.CustomerSummary, error) {
	if len([]rune(search)) > maxSearchLength {
		return nil, domain.NewValidationError("Búsqueda demasiado larga")
	}
	search = strings.TrimSpace(domain.StripTags(search))

	users, err := s.users.ListCustomers(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	out := make([]ports.CustomerSummary, 0, len(users))
	for _, u := range users {
		bookings, err := s.bookings.List(ctx, ports.BookingFilter{UserID: u.ID})
		if err != nil {
			return nil, fmt.Errorf("customer bookings: %w", err)
		}
		row := ports.CustomerSummary{User: u, TotalBookings: len(bookings)}
		if len(bookings) > 0 {
			row.LastBooking = &ports.LastBooking{
				CreatedAt: bookings[0].CreatedAt,
				Status:    bookings[0].Status,
			}
		}
		out = append(out, row)
	}
	return out, nil
}
