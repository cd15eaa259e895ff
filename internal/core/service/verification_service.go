package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// CaptchaActionSendCode is the action label the client must request the
// captcha token for before asking for an SMS code.
const CaptchaActionSendCode = "send_code"

const (
	smsTemplate     = "Tu código de verificación EcoLimpio es: %s"
	resendKeyPrefix = "sms-phone:"
)

// VerificationService issues and checks phone verification codes.
type VerificationService struct {
	codes   ports.VerificationRepository
	captcha ports.CaptchaVerifier
	sms     ports.SMSDispatcher
	lockout *LockoutTracker
	resend  *RateLimiter
	log     zerolog.Logger
	now     func() time.Time
}

// NewVerificationService wires the code flow. resend holds the per-phone
// resend window in the shared counter store so concurrent requests for one
// phone cannot both pass it.
func NewVerificationService(
	codes ports.VerificationRepository,
	captcha ports.CaptchaVerifier,
	sms ports.SMSDispatcher,
	lockout *LockoutTracker,
	resend *RateLimiter,
	log zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		codes:   codes,
		captcha: captcha,
		sms:     sms,
		lockout: lockout,
		resend:  resend,
		log:     log,
		now:     time.Now,
	}
}

// SendCode replaces any outstanding code for the phone with a fresh one and
// queues it for delivery. Delivery problems never fail the request.
func (s *VerificationService) SendCode(ctx context.Context, in ports.SendCodeInput) error {
	phone, err := domain.NormalizePhone(in.Phone)
	if err != nil {
		return err
	}
	if in.CaptchaToken == "" {
		return domain.NewValidationError("Verificación de seguridad requerida")
	}
	if err := s.captcha.Verify(ctx, in.CaptchaToken, CaptchaActionSendCode, in.RemoteIP); err != nil {
		return err
	}

	if res := s.resend.Check(ctx, resendKeyPrefix+phone, domain.VerificationResendWait, 1); !res.Allowed {
		return resendTooSoon(res.RetryAfter)
	}

	// The stored code still bounds resends while the counter store fails open.
	now := s.now().UTC()
	recent, err := s.codes.FindIssuedSince(ctx, phone, now.Add(-domain.VerificationResendWait))
	switch {
	case err == nil && recent != nil:
		wait := recent.CreatedAt.Add(domain.VerificationResendWait).Sub(now)
		return resendTooSoon(retryAfterSeconds(wait))
	case err != nil && !errors.Is(err, domain.ErrCodeNotFound):
		return fmt.Errorf("check recent code: %w", err)
	}

	if err := s.codes.DeleteByPhone(ctx, phone); err != nil {
		return fmt.Errorf("invalidate previous codes: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	vc := &domain.VerificationCode{
		ID:        domain.NewID(),
		Phone:     phone,
		Code:      code,
		ExpiresAt: now.Add(domain.VerificationCodeTTL),
		CreatedAt: now,
	}
	if err := s.codes.Create(ctx, vc); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	s.sms.Dispatch(ports.SMSMessage{
		To:   phone,
		Body: fmt.Sprintf(smsTemplate, code),
		Code: code,
	})
	return nil
}

// VerifyCode marks a matching code as verified. Mismatches count against the
// phone's lockout budget; an expired match is deleted and reported apart.
func (s *VerificationService) VerifyCode(ctx context.Context, rawPhone, code string) error {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return err
	}
	if !domain.IsVerificationCode(code) {
		return domain.NewValidationError("Formato de código inválido")
	}

	if st := s.lockout.IsLocked(ctx, phone); st.Locked {
		return &domain.LockoutError{Minutes: st.LockoutMinutes}
	}

	vc, err := s.codes.FindUnverified(ctx, phone, code)
	if err != nil {
		if !errors.Is(err, domain.ErrCodeNotFound) {
			return fmt.Errorf("find code: %w", err)
		}
		st := s.lockout.RecordAttempt(ctx, phone, false)
		if st.Locked {
			return &domain.LockoutError{Minutes: st.LockoutMinutes}
		}
		return &domain.CodeMismatchError{AttemptsRemaining: st.AttemptsRemaining}
	}

	if vc.Expired(s.now()) {
		if err := s.codes.Delete(ctx, vc.ID); err != nil && !errors.Is(err, domain.ErrCodeNotFound) {
			s.log.Error().Err(err).Str("code_id", vc.ID).Msg("failed to delete expired code")
		}
		return domain.ErrCodeExpired
	}

	s.lockout.RecordAttempt(ctx, phone, true)
	if err := s.codes.MarkVerified(ctx, vc.ID); err != nil {
		return fmt.Errorf("mark code verified: %w", err)
	}
	return nil
}

func (s *VerificationService) RequireVerified(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	vc, err := s.codes.FindVerified(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrPhoneNotVerified
		}
		return nil, fmt.Errorf("find verified code: %w", err)
	}
	return vc, nil
}

func (s *VerificationService) Consume(ctx context.Context, id string) error {
	if err := s.codes.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrCodeNotFound) {
		return fmt.Errorf("consume code: %w", err)
	}
	return nil
}

func resendTooSoon(retryAfter int) error {
	return &domain.RateLimitError{
		Message:    "Espera 1 minuto antes de solicitar otro código",
		RetryAfter: retryAfter,
	}
}

// generateCode returns a uniformly random six-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
