package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	VerificationCodeLength = 6
	VerificationCodeTTL    = 10 * time.Minute
	VerificationResendWait = 60 * time.Second
)

var (
	spanishMobilePattern = regexp.MustCompile(`^(\+34)?[6-9]\d{8}$`)
	codePattern          = regexp.MustCompile(`^\d{6}$`)
)

// VerificationCode proves control of a phone number for a short time.
type VerificationCode struct {
	ID        string    `json:"id" bson:"_id"`
	Phone     string    `json:"phone" bson:"phone"`
	Code      string    `json:"-" bson:"code"`
	Verified  bool      `json:"verified" bson:"verified"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expires_at"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Expired reports whether the code can no longer be checked at now.
func (v *VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// NormalizePhone strips whitespace, validates a Spanish mobile number and
// returns it in E.164 form.
func NormalizePhone(raw string) (string, error) {
	phone := strings.Join(strings.Fields(raw), "")
	if !spanishMobilePattern.MatchString(phone) {
		return "", NewValidationError("Formato de teléfono inválido")
	}
	if !strings.HasPrefix(phone, "+34") {
		phone = "+34" + phone
	}
	return phone, nil
}

// IsVerificationCode reports whether s is exactly six digits.
func IsVerificationCode(s string) bool {
	return codePattern.MatchString(s)
}
