package domain

import (
	"regexp"
	"time"
)

// AccessHashLength is the fixed size of the URL path prefix bound to a session.
const AccessHashLength = 8

// AccessHashAlphabet is the URL-safe alphabet access hashes are drawn from.
const AccessHashAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

var accessHashPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8}$`)

// IsAccessHash reports whether s has the shape of an access hash.
func IsAccessHash(s string) bool {
	return accessHashPattern.MatchString(s)
}

// Session is the stored proof of a successful login. The pair (Token,
// AccessHash) addresses it; both are unique across stored sessions.
type Session struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"userId" bson:"user_id"`
	Token      string    `json:"-" bson:"token"`
	AccessHash string    `json:"accessHash" bson:"access_hash"`
	ExpiresAt  time.Time `json:"expiresAt" bson:"expires_at"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

// Expired reports whether the session no longer authorizes anything at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Principal is the resolved identity behind a live session.
type Principal struct {
	User    *User
	Session *Session
}

// Role is a shortcut for the principal's user role.
func (p *Principal) Role() Role {
	return p.User.Role
}
