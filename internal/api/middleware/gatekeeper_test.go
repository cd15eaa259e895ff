package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const testCookie = "session_token"

// stubSessions resolves exactly one (cookie, hash) pair.
type stubSessions struct {
	cookie    string
	principal *domain.Principal
	err       error
}

func (s *stubSessions) Issue(context.Context, *domain.User) (*ports.IssuedSession, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSessions) Resolve(_ context.Context, cookie, hash string) (*domain.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if cookie != s.cookie || hash != s.principal.Session.AccessHash {
		return nil, domain.ErrUnauthenticated
	}
	return s.principal, nil
}

func (s *stubSessions) Authenticate(_ context.Context, cookie string) (*domain.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if cookie != s.cookie {
		return nil, domain.ErrUnauthenticated
	}
	return s.principal, nil
}

func (s *stubSessions) Revoke(context.Context, string) error { return nil }

// runGate sends path through the Gatekeeper and reports the response plus
// the path the next handler saw ("" when it was not reached).
func runGate(t *testing.T, sessions ports.SessionManager, path, cookie string) (*httptest.ResponseRecorder, string, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	mw := Gatekeeper(GatekeeperConfig{Sessions: sessions, CookieName: testCookie, Log: zerolog.Nop()})
	if err := mw(func(c echo.Context) error {
		seen = c.Request().URL.Path
		return c.NoContent(http.StatusOK)
	})(c); err != nil {
		t.Fatalf("gatekeeper error: %v", err)
	}
	return rec, seen, c
}

func TestGatekeeper_PublicAndExcludedPassThrough(t *testing.T) {
	s := &stubSessions{}
	for _, path := range []string{"/", "/login", "/contacto", "/reservar", "/api/bookings", "/health", "/logo.png", "/unknown"} {
		rec, seen, _ := runGate(t, s, path, "")
		if rec.Code != http.StatusOK || seen != path {
			t.Errorf("%s: expected pass-through, got %d (seen %q)", path, rec.Code, seen)
		}
	}
}

func TestGatekeeper_DirectNamespaceAccessRedirects(t *testing.T) {
	s := &stubSessions{}
	for _, path := range []string{"/admin/dashboard", "/admin", "/dashboard"} {
		rec, seen, _ := runGate(t, s, path, "")
		if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != LoginPath {
			t.Errorf("%s: expected redirect to login, got %d %q", path, rec.Code, rec.Header().Get("Location"))
		}
		if seen != "" {
			t.Errorf("%s: next handler must not run", path)
		}
	}
}

func TestGatekeeper_MalformedHashRedirects(t *testing.T) {
	rec, _, _ := runGate(t, &stubSessions{}, "/abc$1234/admin/dashboard", "cookie")
	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
}

func TestGatekeeper_MissingCookieRedirects(t *testing.T) {
	s := &stubSessions{cookie: "c1", principal: principalFor(domain.RoleAdmin, "abcdEFGH")}
	rec, _, _ := runGate(t, s, "/abcdEFGH/admin/dashboard", "")
	if rec.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to login, got %q", rec.Header().Get("Location"))
	}
}

func TestGatekeeper_WrongHashRedirects(t *testing.T) {
	s := &stubSessions{cookie: "c1", principal: principalFor(domain.RoleAdmin, "abcdEFGH")}
	rec, seen, _ := runGate(t, s, "/zzzzZZZZ/admin/dashboard", "c1")
	if rec.Header().Get("Location") != LoginPath || seen != "" {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGatekeeper_LookupErrorRedirects(t *testing.T) {
	s := &stubSessions{err: errors.New("db down")}
	rec, _, _ := runGate(t, s, "/abcdEFGH/admin/dashboard", "c1")
	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
}

func TestGatekeeper_RewritesAndPropagates(t *testing.T) {
	s := &stubSessions{cookie: "c1", principal: principalFor(domain.RoleAdmin, "abcdEFGH")}
	rec, seen, c := runGate(t, s, "/abcdEFGH/admin/bookings", "c1")

	if rec.Code != http.StatusOK || seen != "/admin/bookings" {
		t.Fatalf("expected rewrite to /admin/bookings, got %d %q", rec.Code, seen)
	}
	if p, ok := PrincipalFrom(c); !ok || p.Role() != domain.RoleAdmin {
		t.Errorf("principal not propagated")
	}
	if AccessHashFrom(c) != "abcdEFGH" || rec.Header().Get(HeaderSessionHash) != "abcdEFGH" {
		t.Errorf("access hash not propagated")
	}
}

func TestGatekeeper_RoleNamespaceRedirects(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
		path string
		want string
	}{
		{"customer into admin", domain.RoleCustomer, "/abcdEFGH/admin/bookings", "/abcdEFGH/dashboard"},
		{"admin into dashboard", domain.RoleAdmin, "/abcdEFGH/dashboard", "/abcdEFGH/admin/dashboard"},
		{"staff into dashboard", domain.RoleStaff, "/abcdEFGH/dashboard", "/abcdEFGH/admin/dashboard"},
		{"bare hash", domain.RoleCustomer, "/abcdEFGH", "/abcdEFGH/dashboard"},
		{"admin namespace root", domain.RoleAdmin, "/abcdEFGH/admin", "/abcdEFGH/admin/dashboard"},
		{"unknown admin page", domain.RoleAdmin, "/abcdEFGH/admin/nope", "/abcdEFGH/admin/dashboard"},
		{"trailing slash", domain.RoleStaff, "/abcdEFGH/admin/dashboard/", "/abcdEFGH/admin/dashboard"},
		{"unknown dashboard page", domain.RoleCustomer, "/abcdEFGH/dashboard/nope", "/abcdEFGH/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubSessions{cookie: "c1", principal: principalFor(tt.role, "abcdEFGH")}
			rec, seen, _ := runGate(t, s, tt.path, "c1")
			if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != tt.want {
				t.Errorf("expected redirect to %s, got %d %q", tt.want, rec.Code, rec.Header().Get("Location"))
			}
			if seen != "" {
				t.Error("next handler must not run on a namespace redirect")
			}
		})
	}
}

func TestGatekeeper_UnknownRoleRedirectsToLogin(t *testing.T) {
	for _, role := range []domain.Role{"admin", "ROOT"} {
		s := &stubSessions{cookie: "c1", principal: principalFor(role, "abcdEFGH")}
		rec, seen, _ := runGate(t, s, "/abcdEFGH/admin/dashboard", "c1")
		if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != LoginPath {
			t.Errorf("%q: expected redirect to login, got %d %q", role, rec.Code, rec.Header().Get("Location"))
		}
		if seen != "" {
			t.Errorf("%q: next handler must not run", role)
		}
	}
}

func TestSplitFirstSegment(t *testing.T) {
	tests := []struct{ in, first, rest string }{
		{"/abc/def/g", "abc", "/def/g"},
		{"/abc", "abc", ""},
		{"/", "", ""},
	}
	for _, tt := range tests {
		first, rest := splitFirstSegment(tt.in)
		if first != tt.first || rest != tt.rest {
			t.Errorf("%q: got (%q, %q)", tt.in, first, rest)
		}
	}
}
