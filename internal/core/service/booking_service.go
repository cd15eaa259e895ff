package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const (
	maxAddressLength = 500
	maxNotesLength   = 1000
)

// BookingService implements public booking submission, signup-with-booking
// and the staff management operations.
type BookingService struct {
	bookings     ports.BookingRepository
	users        ports.UserRepository
	accounts     ports.AuthService
	verification ports.VerificationService
	loc          *time.Location
	log          zerolog.Logger
	now          func() time.Time
}

func NewBookingService(
	bookings ports.BookingRepository,
	users ports.UserRepository,
	accounts ports.AuthService,
	verification ports.VerificationService,
	loc *time.Location,
	log zerolog.Logger,
) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		bookings:     bookings,
		users:        users,
		accounts:     accounts,
		verification: verification,
		loc:          loc,
		log:          log,
		now:          time.Now,
	}
}

func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	b, err := s.newBooking(in)
	if err != nil {
		return nil, err
	}
	b.Phone = domain.StripTags(in.Phone)

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.log.Info().Str("booking_id", b.ID).Strs("services", b.Services).Msg("booking created")
	return b, nil
}

// CreateWithSignup registers a CUSTOMER account for a verified phone and
// files its first booking. The verification code is single use.
func (s *BookingService) CreateWithSignup(ctx context.Context, in ports.SignupBookingInput) (*ports.SignupResult, error) {
	b, err := s.newBooking(in.Booking)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	phone, err := domain.NormalizePhone(in.Booking.Phone)
	if err != nil {
		return nil, err
	}

	code, err := s.verification.RequireVerified(ctx, phone)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.CreateUser(ctx, ports.CreateUserInput{
		Email:    in.Booking.Email,
		Password: in.Password,
		Name:     in.Booking.Name,
		Phone:    phone,
		Role:     domain.RoleCustomer,
	})
	if err != nil {
		return nil, err
	}

	b.UserID = user.ID
	b.Phone = phone
	if err := s.bookings.Create(ctx, b); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", user.ID).Msg("failed to roll back signup user")
		}
		return nil, fmt.Errorf("create signup booking: %w", err)
	}

	if err := s.verification.Consume(ctx, code.ID); err != nil {
		s.log.Error().Err(err).Str("phone", phone).Msg("failed to consume verification code")
	}

	s.log.Info().Str("user_id", user.ID).Str("booking_id", b.ID).Msg("signup with booking")
	return &ports.SignupResult{User: user, Booking: b}, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return s.bookings.FindByID(ctx, id)
}

func (s *BookingService) List(ctx context.Context, in ports.ListBookingsInput) ([]*domain.Booking, error) {
	var filter ports.BookingFilter
	if in.Status != "" && !strings.EqualFold(in.Status, "ALL") {
		st, err := domain.ParseBookingStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	if in.DateFrom != "" {
		d, err := domain.ParseCalendarDate(in.DateFrom)
		if err != nil {
			return nil, err
		}
		filter.DateFrom = d
	}
	if in.DateTo != "" {
		d, err := domain.ParseCalendarDate(in.DateTo)
		if err != nil {
			return nil, err
		}
		filter.DateTo = d
	}
	return s.bookings.List(ctx, filter)
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return s.bookings.List(ctx, ports.BookingFilter{UserID: userID, SortByDate: true})
}

// Update applies the provided fields. Staff may move a booking to any date.
func (s *BookingService) Update(ctx context.Context, id string, in ports.UpdateBookingInput) (*domain.Booking, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil && *in.Status != "" {
		st, err := domain.ParseBookingStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		b.Status = st
	}
	if in.Notes != nil {
		if len([]rune(*in.Notes)) > maxNotesLength {
			return nil, domain.NewValidationError("Las notas son demasiado largas (máximo 1000 caracteres)")
		}
		b.Notes = domain.StripTags(*in.Notes)
	}
	if in.Date != nil && *in.Date != "" {
		d, err := domain.ParseCalendarDate(*in.Date)
		if err != nil {
			return nil, err
		}
		b.Date = d
	}
	if in.Time != nil && *in.Time != "" {
		b.Time = domain.StripTags(*in.Time)
	}

	b.UpdatedAt = s.now().UTC()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	return s.bookings.Delete(ctx, id)
}

// newBooking validates the form and returns a PENDING booking without phone.
func (s *BookingService) newBooking(in ports.CreateBookingInput) (*domain.Booking, error) {
	var msgs []string

	services := make([]string, 0, len(in.Services))
	seen := make(map[string]struct{}, len(in.Services))
	for _, id := range in.Services {
		if !domain.IsKnownService(id) {
			msgs = append(msgs, "Selección de servicio inválida")
			break
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			services = append(services, id)
		}
	}
	if len(in.Services) == 0 {
		msgs = append(msgs, "Selecciona al menos un servicio")
	}

	if strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Time) == "" ||
		strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Phone) == "" || strings.TrimSpace(in.Address) == "" {
		msgs = append(msgs, "Faltan campos obligatorios")
	}
	if len([]rune(in.Name)) > maxNameLength {
		msgs = append(msgs, "El nombre es demasiado largo (máximo 100 caracteres)")
	}
	if len([]rune(in.Address)) > maxAddressLength {
		msgs = append(msgs, "La dirección es demasiado larga (máximo 500 caracteres)")
	}
	if len([]rune(in.Notes)) > maxNotesLength {
		msgs = append(msgs, "Las notas son demasiado largas (máximo 1000 caracteres)")
	}

	email := domain.NormalizeEmail(in.Email)
	if email != "" && !domain.IsEmail(email) {
		msgs = append(msgs, "Formato de email inválido")
	}

	var date time.Time
	if strings.TrimSpace(in.Date) != "" {
		d, err := domain.ParseCalendarDate(in.Date)
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			msgs = append(msgs, ve.Messages...)
		case !domain.IsAfterToday(d, s.now(), s.loc):
			msgs = append(msgs, "La fecha debe ser en el futuro")
		default:
			date = d
		}
	}

	if len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}

	now := s.now().UTC()
	return &domain.Booking{
		ID:        domain.NewID(),
		Services:  services,
		Date:      date,
		Time:      domain.StripTags(in.Time),
		Name:      domain.StripTags(in.Name),
		Email:     email,
		Address:   domain.StripTags(in.Address),
		Notes:     domain.StripTags(in.Notes),
		Status:    domain.BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
