package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrContactNotFound     = errors.New("contact not found")
	ErrCodeNotFound        = errors.New("verification code not found")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidID           = errors.New("invalid id")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrForbidden           = errors.New("access forbidden")
	ErrAccessHashExhausted = errors.New("could not allocate a unique access hash")
	ErrCaptchaFailed       = errors.New("captcha verification failed")
	ErrCodeExpired         = errors.New("verification code expired")
	ErrPhoneNotVerified    = errors.New("phone not verified")
)

// ValidationError carries every user-facing reason an input was rejected.
type ValidationError struct {
	Messages []string
}

func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ". ")
}

// RateLimitError is returned when a fixed window or resend interval is exhausted.
type RateLimitError struct {
	Message    string
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %ds", e.RetryAfter)
}

// LockoutError is returned while an identity is locked after repeated failures.
type LockoutError struct {
	Minutes int
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("locked for %d minutes", e.Minutes)
}

// CodeMismatchError reports a wrong verification code that did not lock the phone.
type CodeMismatchError struct {
	AttemptsRemaining int
}

func (e *CodeMismatchError) Error() string {
	return fmt.Sprintf("verification code mismatch, %d attempts remaining", e.AttemptsRemaining)
}

// CredentialsError is a failed login that did not lock the account.
// It matches ErrInvalidCredentials under errors.Is.
type CredentialsError struct {
	AttemptsRemaining int
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempts remaining", e.AttemptsRemaining)
}

func (e *CredentialsError) Unwrap() error { return ErrInvalidCredentials }
