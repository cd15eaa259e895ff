package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/api/middleware"
	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn func(ctx context.Context, cookie string) error
	updateFn func(ctx context.Context, userID string, in ports.ProfileUpdate) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, cookie string) error {
	return s.logoutFn(ctx, cookie)
}

func (s *stubAuthService) CreateUser(context.Context, ports.CreateUserInput) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, userID, in)
}

var testCookie = CookieConfig{Name: "session_token", MaxAge: 7 * 24 * time.Hour}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, role domain.Role) *domain.Principal {
	p := &domain.Principal{
		User:    &domain.User{ID: "u-1", Email: "ana@example.com", Name: "Ana", Role: role},
		Session: &domain.Session{ID: "s-1", UserID: "u-1", AccessHash: "Ab3_x-9Z"},
	}
	c.Set(middleware.ContextPrincipal, p)
	c.Set(middleware.ContextAccessHash, p.Session.AccessHash)
	return p
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "ana@example.com" || password != "Secreto123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				User:         &domain.User{ID: "u-1", Email: email, Name: "Ana", Role: domain.RoleAdmin},
				Session:      &domain.Session{AccessHash: "Ab3_x-9Z"},
				Cookie:       "signed-cookie",
				RedirectPath: "/Ab3_x-9Z/admin/dashboard",
			}, nil
		},
	}
	h := NewAuthHandler(stub, testCookie, "https://ecolimpio.es")

	c, rec := newJSONContext(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"Secreto123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["redirectUrl"] != "https://ecolimpio.es/Ab3_x-9Z/admin/dashboard" {
		t.Errorf("unexpected redirectUrl: %v", resp["redirectUrl"])
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != "session_token" || ck.Value != "signed-cookie" || !ck.HttpOnly || ck.MaxAge != 7*24*3600 {
		t.Errorf("unexpected cookie: %+v", ck)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, testCookie, "")

	c, _ := newJSONContext(http.MethodPost, "/api/auth/login", "not-json")
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}

	c, _ = newJSONContext(http.MethodPost, "/api/auth/login", `{"email":"no-es-email","password":"x"}`)
	var ve *domain.ValidationError
	if err := h.Login(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthHandler_Login_PropagatesLockout(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, &domain.LockoutError{Minutes: 15}
		},
	}
	h := NewAuthHandler(stub, testCookie, "")

	c, rec := newJSONContext(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"Secreto123"}`)
	var le *domain.LockoutError
	if err := h.Login(c); !errors.As(err, &le) {
		t.Fatalf("expected LockoutError, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no cookie on failed login")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, cookie string) error {
			revoked = cookie
			return nil
		},
	}
	h := NewAuthHandler(stub, testCookie, "")

	c, rec := newJSONContext(http.MethodPost, "/api/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "session_token", Value: "signed-cookie"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "signed-cookie" {
		t.Errorf("expected session to be revoked, got %q", revoked)
	}
	ck := rec.Result().Cookies()
	if len(ck) != 1 || ck[0].MaxAge >= 0 {
		t.Errorf("expected an expiring cookie, got %+v", ck)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, testCookie, "")

	c, _ := newJSONContext(http.MethodGet, "/api/auth/me", "")
	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without principal, got %v", err)
	}

	c, rec := newJSONContext(http.MethodGet, "/api/auth/me", "")
	withPrincipal(c, domain.RoleStaff)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"role":"STAFF"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
