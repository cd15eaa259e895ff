package ports

import (
	"context"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// SendCodeInput is a request to text a verification code to a phone.
type SendCodeInput struct {
	Phone        string
	CaptchaToken string
	RemoteIP     string
}

type VerificationService interface {
	SendCode(ctx context.Context, in SendCodeInput) error
	VerifyCode(ctx context.Context, phone, code string) error
	// RequireVerified returns the verified code for an already-normalized phone.
	RequireVerified(ctx context.Context, phone string) (*domain.VerificationCode, error)
	// Consume deletes a code once it has been used to finish a signup.
	Consume(ctx context.Context, id string) error
}
