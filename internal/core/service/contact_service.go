package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const maxMessageLength = 2000

type ContactService struct {
	contacts ports.ContactRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewContactService(contacts ports.ContactRepository, log zerolog.Logger) *ContactService {
	return &ContactService{contacts: contacts, log: log, now: time.Now}
}

func (s *ContactService) Create(ctx context.Context, in ports.CreateContactInput) (*domain.Contact, error) {
	var msgs []string
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Phone) == "" || strings.TrimSpace(in.Message) == "" {
		msgs = append(msgs, "Faltan campos obligatorios")
	}
	if len([]rune(in.Name)) > maxNameLength {
		msgs = append(msgs, "El nombre es demasiado largo (máximo 100 caracteres)")
	}
	if len([]rune(in.Message)) > maxMessageLength {
		msgs = append(msgs, "El mensaje es demasiado largo (máximo 2000 caracteres)")
	}
	email := domain.NormalizeEmail(in.Email)
	if email != "" && !domain.IsEmail(email) {
		msgs = append(msgs, "Formato de email inválido")
	}
	if len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}

	now := s.now().UTC()
	c := &domain.Contact{
		ID:        domain.NewID(),
		Name:      domain.StripTags(in.Name),
		Email:     email,
		Phone:     domain.StripTags(in.Phone),
		Service:   domain.StripTags(in.Service),
		Message:   domain.StripTags(in.Message),
		Status:    domain.ContactNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Str("contact_id", c.ID).Msg("contact message received")
	return c, nil
}

// Get returns the contact. The first staff view of a NEW message marks it READ.
func (s *ContactService) Get(ctx context.Context, id string) (*domain.Contact, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	c, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == domain.ContactNew {
		if err := s.contacts.UpdateStatus(ctx, c.ID, domain.ContactRead); err != nil {
			return nil, err
		}
		c.Status = domain.ContactRead
	}
	return c, nil
}

func (s *ContactService) List(ctx context.Context, status string) ([]*domain.Contact, error) {
	var filter ports.ContactFilter
	if status != "" && !strings.EqualFold(status, "ALL") {
		st, err := domain.ParseContactStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	return s.contacts.List(ctx, filter)
}

func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (*domain.Contact, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	st, err := domain.ParseContactStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.contacts.UpdateStatus(ctx, id, st); err != nil {
		return nil, err
	}
	return s.contacts.FindByID(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	return s.contacts.Delete(ctx, id)
}
