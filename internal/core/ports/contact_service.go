package ports

import (
	"context"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// CreateContactInput is the raw public contact form.
type CreateContactInput struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Message string
}

type ContactService interface {
	Create(ctx context.Context, in CreateContactInput) (*domain.Contact, error)
	// Get returns the contact and marks a NEW message as READ.
	Get(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, status string) ([]*domain.Contact, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Contact, error)
	Delete(ctx context.Context, id string) error
}
