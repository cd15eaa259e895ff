package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const testPassword = "Secreto123"

func createUserInput(email string, role domain.Role) ports.CreateUserInput {
	return ports.CreateUserInput{
		Email:    email,
		Password: testPassword,
		Name:     "Test User",
		Role:     role,
	}
}

func TestAuthService_Login_AdminRedirect(t *testing.T) {
	f := newFixture()
	seedUser(t, f, "admin@example.com", domain.RoleAdmin)

	res, err := f.auth.Login(context.Background(), "  Admin@Example.com ", testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !regexp.MustCompile(`^/[A-Za-z0-9_-]{8}/admin/dashboard$`).MatchString(res.RedirectPath) {
		t.Errorf("unexpected redirect %q", res.RedirectPath)
	}
	if res.Cookie == "" {
		t.Error("expected a session cookie")
	}
}

func TestAuthService_Login_RoleHomes(t *testing.T) {
	f := newFixture()
	seedUser(t, f, "staff@example.com", domain.RoleStaff)
	seedUser(t, f, "cliente@example.com", domain.RoleCustomer)
	ctx := context.Background()

	staff, err := f.auth.Login(ctx, "staff@example.com", testPassword)
	if err != nil {
		t.Fatalf("staff login: %v", err)
	}
	if want := "/" + staff.Session.AccessHash + "/admin/dashboard"; staff.RedirectPath != want {
		t.Errorf("expected %q, got %q", want, staff.RedirectPath)
	}

	customer, err := f.auth.Login(ctx, "cliente@example.com", testPassword)
	if err != nil {
		t.Fatalf("customer login: %v", err)
	}
	if want := "/" + customer.Session.AccessHash + "/dashboard"; customer.RedirectPath != want {
		t.Errorf("expected %q, got %q", want, customer.RedirectPath)
	}
}

func TestAuthService_Login_UnknownStoredRoleIssuesNoSession(t *testing.T) {
	f := newFixture()
	seedUser(t, f, "admin@example.com", domain.RoleAdmin)
	ctx := context.Background()

	u, err := f.users.FindByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	u.Role = "admin"
	if err := f.users.Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := f.auth.Login(ctx, "admin@example.com", testPassword); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if n := f.sessions.Len(); n != 0 {
		t.Errorf("expected no session to be issued, got %d", n)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newFixture()
	seedUser(t, f, "ana@example.com", domain.RoleCustomer)

	_, err := f.auth.Login(context.Background(), "ana@example.com", "Incorrecta1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	var ce *domain.CredentialsError
	if !errors.As(err, &ce) || ce.AttemptsRemaining != 4 {
		t.Errorf("expected 4 attempts remaining, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailLocksLikeKnown(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := f.auth.Login(ctx, "ghost@example.com", "Whatever1"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	_, err := f.auth.Login(ctx, "ghost@example.com", "Whatever1")
	var le *domain.LockoutError
	if !errors.As(err, &le) {
		t.Fatalf("expected LockoutError on 5th failure, got %v", err)
	}
	if le.Minutes != 15 {
		t.Errorf("expected 15 minutes, got %d", le.Minutes)
	}
}

func TestAuthService_Login_LockedRejectsCorrectPassword(t *testing.T) {
	f := newFixture()
	seedUser(t, f, "ana@example.com", domain.RoleCustomer)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = f.auth.Login(ctx, "ana@example.com", "Incorrecta1")
	}

	_, err := f.auth.Login(ctx, "ana@example.com", testPassword)
	var le *domain.LockoutError
	if !errors.As(err, &le) {
		t.Fatalf("expected LockoutError while locked, got %v", err)
	}
	if f.sessions.Len() != 0 {
		t.Error("expected no session to be issued while locked")
	}
}

func TestAuthService_CreateUser_DuplicateEmail(t *testing.T) {
	f := newFixture()
	seedUser(t, f, "ana@example.com", domain.RoleCustomer)

	_, err := f.auth.CreateUser(context.Background(), createUserInput("ANA@example.com", domain.RoleCustomer))
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_CreateUser_InvalidRole(t *testing.T) {
	f := newFixture()

	_, err := f.auth.CreateUser(context.Background(), createUserInput("ana@example.com", domain.Role("ROOT")))
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_UpdateProfile_PasswordChange(t *testing.T) {
	f := newFixture()
	user := seedUser(t, f, "ana@example.com", domain.RoleAdmin)
	ctx := context.Background()

	_, err := f.auth.UpdateProfile(ctx, user.ID, ports.ProfileUpdate{NewPassword: "NuevaClave9"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError without current password, got %v", err)
	}

	_, err = f.auth.UpdateProfile(ctx, user.ID, ports.ProfileUpdate{CurrentPassword: "Incorrecta1", NewPassword: "NuevaClave9"})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for wrong current password, got %v", err)
	}

	if _, err := f.auth.UpdateProfile(ctx, user.ID, ports.ProfileUpdate{CurrentPassword: testPassword, NewPassword: "NuevaClave9"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := f.auth.Login(ctx, "ana@example.com", "NuevaClave9"); err != nil {
		t.Errorf("expected login with the new password, got %v", err)
	}
}

func TestAuthService_UpdateProfile_EmailTaken(t *testing.T) {
	f := newFixture()
	seedUser(t, f, "ana@example.com", domain.RoleAdmin)
	bea := seedUser(t, f, "bea@example.com", domain.RoleStaff)

	taken := "ana@example.com"
	_, err := f.auth.UpdateProfile(context.Background(), bea.ID, ports.ProfileUpdate{Email: &taken})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
