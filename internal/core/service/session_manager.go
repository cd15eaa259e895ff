package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const (
	maxAccessHashAttempts = 5
	sessionTokenLength    = 32
	defaultSessionTTL     = 7 * 24 * time.Hour
)

// SessionManager implements ports.SessionManager. The cookie value is an
// HS256 token whose jti is the stored session token; the stored expiry is
// authoritative, so the cookie itself carries no exp claim.
type SessionManager struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
	secret   []byte
	ttl      time.Duration
	log      zerolog.Logger

	now      func() time.Time
	newHash  func() (string, error)
	newToken func() (string, error)
}

func NewSessionManager(
	sessions ports.SessionRepository,
	users ports.UserRepository,
	secret string,
	ttl time.Duration,
	log zerolog.Logger,
) *SessionManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionManager{
		sessions: sessions,
		users:    users,
		secret:   []byte(secret),
		ttl:      ttl,
		log:      log,
		now:      time.Now,
		newHash:  GenerateAccessHash,
		newToken: func() (string, error) { return randomString(sessionTokenLength) },
	}
}

// GenerateAccessHash returns AccessHashLength characters drawn uniformly
// from AccessHashAlphabet.
func GenerateAccessHash() (string, error) {
	return randomString(domain.AccessHashLength)
}

func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	// The alphabet has 64 symbols, so the low six bits index it without bias.
	for i, b := range buf {
		buf[i] = domain.AccessHashAlphabet[b&63]
	}
	return string(buf), nil
}

// Issue creates a session for user with an access hash unique among the
// stored sessions. The storage unique index is the source of truth; the
// lookup beforehand only avoids a doomed insert.
func (m *SessionManager) Issue(ctx context.Context, user *domain.User) (*ports.IssuedSession, error) {
	for attempt := 1; attempt <= maxAccessHashAttempts; attempt++ {
		hash, err := m.newHash()
		if err != nil {
			return nil, fmt.Errorf("generate access hash: %w", err)
		}

		existing, err := m.sessions.FindByAccessHash(ctx, hash)
		switch {
		case err == nil && existing != nil:
			m.log.Warn().Int("attempt", attempt).Msg("access hash collision")
			continue
		case err != nil && !errors.Is(err, domain.ErrSessionNotFound):
			return nil, fmt.Errorf("check access hash: %w", err)
		}

		token, err := m.newToken()
		if err != nil {
			return nil, fmt.Errorf("generate session token: %w", err)
		}

		now := m.now().UTC()
		sess := &domain.Session{
			ID:         domain.NewID(),
			UserID:     user.ID,
			Token:      token,
			AccessHash: hash,
			ExpiresAt:  now.Add(m.ttl),
			CreatedAt:  now,
		}
		if err := m.sessions.Create(ctx, sess); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				m.log.Warn().Int("attempt", attempt).Msg("access hash collision on insert")
				continue
			}
			return nil, fmt.Errorf("create session: %w", err)
		}

		cookie, err := m.sign(sess)
		if err != nil {
			_ = m.sessions.Delete(ctx, sess.ID)
			return nil, err
		}
		return &ports.IssuedSession{Session: sess, Cookie: cookie}, nil
	}

	m.log.Error().Str("user_id", user.ID).Int("attempts", maxAccessHashAttempts).Msg("access hash space exhausted")
	return nil, domain.ErrAccessHashExhausted
}

func (m *SessionManager) Resolve(ctx context.Context, cookie, accessHash string) (*domain.Principal, error) {
	claims, err := m.parse(cookie)
	if err != nil {
		return nil, err
	}
	if !domain.IsAccessHash(accessHash) {
		return nil, domain.ErrUnauthenticated
	}

	sess, err := m.sessions.FindByTokenAndHash(ctx, claims.ID, accessHash)
	if err != nil {
		return nil, m.lookupErr(err)
	}
	return m.principal(ctx, sess, claims.Subject)
}

func (m *SessionManager) Authenticate(ctx context.Context, cookie string) (*domain.Principal, error) {
	claims, err := m.parse(cookie)
	if err != nil {
		return nil, err
	}

	sess, err := m.sessions.FindByToken(ctx, claims.ID)
	if err != nil {
		return nil, m.lookupErr(err)
	}
	return m.principal(ctx, sess, claims.Subject)
}

// Revoke deletes the session behind cookie. Unknown or malformed cookies are
// not an error.
func (m *SessionManager) Revoke(ctx context.Context, cookie string) error {
	claims, err := m.parse(cookie)
	if err != nil {
		return nil
	}
	if err := m.sessions.DeleteByToken(ctx, claims.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (m *SessionManager) principal(ctx context.Context, sess *domain.Session, subject string) (*domain.Principal, error) {
	if sess.Expired(m.now()) {
		if err := m.sessions.Delete(ctx, sess.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			m.log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to purge expired session")
		}
		return nil, domain.ErrUnauthenticated
	}
	if sess.UserID != subject {
		return nil, domain.ErrUnauthenticated
	}

	user, err := m.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = m.sessions.Delete(ctx, sess.ID)
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return &domain.Principal{User: user, Session: sess}, nil
}

func (m *SessionManager) lookupErr(err error) error {
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.ErrUnauthenticated
	}
	return fmt.Errorf("find session: %w", err)
}

func (m *SessionManager) sign(sess *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       sess.Token,
		Subject:  sess.UserID,
		IssuedAt: jwt.NewNumericDate(sess.CreatedAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) parse(cookie string) (*jwt.RegisteredClaims, error) {
	if cookie == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(cookie, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
