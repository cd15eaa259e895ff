package domain

import "time"

// RateLimitPolicy is a named fixed-window allowance.
type RateLimitPolicy struct {
	Name   string
	Window time.Duration
	Max    int
}

var (
	PolicyLogin      = RateLimitPolicy{Name: "login", Window: 15 * time.Minute, Max: 5}
	PolicySMSCode    = RateLimitPolicy{Name: "sms-code", Window: 10 * time.Minute, Max: 3}
	PolicyVerifyCode = RateLimitPolicy{Name: "verify-code", Window: 10 * time.Minute, Max: 10}
	PolicyContact    = RateLimitPolicy{Name: "contact", Window: time.Hour, Max: 5}
	PolicyBooking    = RateLimitPolicy{Name: "booking", Window: time.Hour, Max: 10}
	PolicyAPI        = RateLimitPolicy{Name: "api", Window: time.Minute, Max: 100}
)

// RateLimitResult is the outcome of one counted request.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, set when Allowed is false
}

// Counter is the state of one fixed-window key after an increment.
type Counter struct {
	Count   int64
	ResetAt time.Time
}

// Lockout thresholds shared by every identity kind.
const (
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
)

// LockoutStatus is the outcome of recording or checking an attempt.
type LockoutStatus struct {
	Locked            bool
	AttemptsRemaining int
	LockoutMinutes    int
}
