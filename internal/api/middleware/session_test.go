package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

func runSession(t *testing.T, s *stubSessions, cookie, hash string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	if hash != "" {
		req.Header.Set(HeaderSessionHash, hash)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := RequireSession(s, testCookie, zerolog.Nop())(func(echo.Context) error {
		called = true
		return nil
	})(c)
	return c, called, err
}

func TestRequireSession_CookieOnly(t *testing.T) {
	s := &stubSessions{cookie: "c1", principal: principalFor(domain.RoleCustomer, "abcdEFGH")}
	c, called, err := runSession(t, s, "c1", "")
	if err != nil || !called {
		t.Fatalf("expected success, got %v", err)
	}
	if p, ok := PrincipalFrom(c); !ok || p.User.ID != "u-CUSTOMER" {
		t.Error("principal not set")
	}
}

func TestRequireSession_PinnedHashMustMatch(t *testing.T) {
	s := &stubSessions{cookie: "c1", principal: principalFor(domain.RoleCustomer, "abcdEFGH")}

	if _, _, err := runSession(t, s, "c1", "abcdEFGH"); err != nil {
		t.Errorf("matching hash: unexpected error %v", err)
	}
	if _, called, err := runSession(t, s, "c1", "zzzzZZZZ"); !errors.Is(err, domain.ErrUnauthenticated) || called {
		t.Errorf("foreign hash: expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireSession_Rejects(t *testing.T) {
	s := &stubSessions{cookie: "c1", principal: principalFor(domain.RoleCustomer, "abcdEFGH")}

	if _, _, err := runSession(t, s, "", ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("no cookie: expected ErrUnauthenticated, got %v", err)
	}
	if _, _, err := runSession(t, s, "other", ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("bad cookie: expected ErrUnauthenticated, got %v", err)
	}

	broken := &stubSessions{err: errors.New("db down")}
	if _, _, err := runSession(t, broken, "c1", ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("store failure: expected ErrUnauthenticated, got %v", err)
	}
}
