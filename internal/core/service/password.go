package service

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

const minPasswordLength = 8

// ValidatePassword checks the password policy and reports every rule the
// password breaks.
func ValidatePassword(pw string) error {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	var msgs []string
	if len([]rune(pw)) < minPasswordLength {
		msgs = append(msgs, "La contraseña debe tener al menos 8 caracteres")
	}
	if !hasUpper {
		msgs = append(msgs, "La contraseña debe contener al menos una mayúscula")
	}
	if !hasLower {
		msgs = append(msgs, "La contraseña debe contener al menos una minúscula")
	}
	if !hasDigit {
		msgs = append(msgs, "La contraseña debe contener al menos un número")
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(msgs...)
	}
	return nil
}

// BcryptHasher implements ports.PasswordHasher.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
