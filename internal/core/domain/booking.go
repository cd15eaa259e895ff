package domain

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// ParseBookingStatus validates a status sent by a client.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return st, nil
	}
	return "", NewValidationError("Estado no válido")
}

// Services offered by the business. Bookings may only reference these.
const (
	ServiceVehicles  = "vehiculos"
	ServiceEntrances = "entradas"
	ServiceWindows   = "ventanas"
	ServicePack      = "pack"
)

var knownServices = map[string]struct{}{
	ServiceVehicles:  {},
	ServiceEntrances: {},
	ServiceWindows:   {},
	ServicePack:      {},
}

// IsKnownService reports whether id is one of the offered services.
func IsKnownService(id string) bool {
	_, ok := knownServices[id]
	return ok
}

// Booking is a service request.
type Booking struct {
	ID        string        `json:"id" bson:"_id"`
	Services  []string      `json:"services" bson:"services"`
	Date      time.Time     `json:"date" bson:"date"`
	Time      string        `json:"time" bson:"time"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Phone     string        `json:"phone" bson:"phone"`
	Address   string        `json:"address" bson:"address"`
	Notes     string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Status    BookingStatus `json:"status" bson:"status"`
	UserID    string        `json:"userId,omitempty" bson:"user_id,omitempty"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}

// ParseCalendarDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and
// returns the calendar day as midnight UTC.
func ParseCalendarDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, NewValidationError("Fecha no válida")
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// IsAfterToday reports whether the calendar day is strictly later than the
// current day in loc.
func IsAfterToday(day time.Time, now time.Time, loc *time.Location) bool {
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.After(today)
}
