package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// StripTags removes anything that looks like an HTML tag and trims the result.
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// IsEmail is the loose address check used by every form.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidateID rejects identifiers that could not have been issued by NewID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
