package ports

import (
	"context"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// IssuedSession is a freshly created session plus the signed cookie value
// that identifies it.
type IssuedSession struct {
	Session *domain.Session
	Cookie  string
}

// SessionManager issues, resolves and revokes login sessions.
// Resolve and Authenticate return domain.ErrUnauthenticated for any
// credential that does not map to a live session.
type SessionManager interface {
	Issue(ctx context.Context, user *domain.User) (*IssuedSession, error)
	// Resolve requires the cookie and the access hash to address the same session.
	Resolve(ctx context.Context, cookie, accessHash string) (*domain.Principal, error)
	// Authenticate resolves the session from the cookie alone.
	Authenticate(ctx context.Context, cookie string) (*domain.Principal, error)
	Revoke(ctx context.Context, cookie string) error
}
