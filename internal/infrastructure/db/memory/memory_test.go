package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestSessionRepository_Create_UniqueHashAndToken(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository()

	first := &domain.Session{ID: "s1", Token: "t1", AccessHash: "aaaaaaaa", ExpiresAt: base.Add(time.Hour)}
	if err := r.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	sameHash := &domain.Session{ID: "s2", Token: "t2", AccessHash: "aaaaaaaa"}
	if err := r.Create(ctx, sameHash); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey for hash, got %v", err)
	}
	sameToken := &domain.Session{ID: "s3", Token: "t1", AccessHash: "bbbbbbbb"}
	if err := r.Create(ctx, sameToken); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey for token, got %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 session, got %d", r.Len())
	}
}

func TestSessionRepository_FindByTokenAndHash(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository()
	_ = r.Create(ctx, &domain.Session{ID: "s1", Token: "t1", AccessHash: "aaaaaaaa"})
	_ = r.Create(ctx, &domain.Session{ID: "s2", Token: "t2", AccessHash: "bbbbbbbb"})

	if _, err := r.FindByTokenAndHash(ctx, "t1", "aaaaaaaa"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if _, err := r.FindByTokenAndHash(ctx, "t1", "bbbbbbbb"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for crossed pair, got %v", err)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository()
	_ = r.Create(ctx, &domain.Session{ID: "old", Token: "t1", AccessHash: "aaaaaaaa", ExpiresAt: base})
	_ = r.Create(ctx, &domain.Session{ID: "new", Token: "t2", AccessHash: "bbbbbbbb", ExpiresAt: base.Add(time.Minute)})

	n, err := r.DeleteExpired(ctx, base)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 deleted, got %d (%v)", n, err)
	}
	if _, err := r.FindByAccessHash(ctx, "aaaaaaaa"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("expired session index entry should be gone")
	}
	if _, err := r.FindByToken(ctx, "t2"); err != nil {
		t.Errorf("live session should remain: %v", err)
	}
}

func TestUserRepository_EmailUnique(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	_ = r.Create(ctx, &domain.User{ID: "u1", Email: "ana@example.com", Role: domain.RoleCustomer})

	err := r.Create(ctx, &domain.User{ID: "u2", Email: "ana@example.com", Role: domain.RoleCustomer})
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestUserRepository_ListCustomers_Search(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	_ = r.Create(ctx, &domain.User{ID: "u1", Email: "ana@example.com", Name: "Ana", Role: domain.RoleCustomer, CreatedAt: base})
	_ = r.Create(ctx, &domain.User{ID: "u2", Email: "luis@example.com", Name: "Luis", Role: domain.RoleCustomer, CreatedAt: base.Add(time.Hour)})
	_ = r.Create(ctx, &domain.User{ID: "u3", Email: "admin@example.com", Name: "Ana Admin", Role: domain.RoleAdmin})

	all, _ := r.ListCustomers(ctx, "")
	if len(all) != 2 || all[0].ID != "u2" {
		t.Fatalf("expected 2 customers newest first, got %+v", all)
	}
	ana, _ := r.ListCustomers(ctx, "ANA")
	if len(ana) != 1 || ana[0].ID != "u1" {
		t.Errorf("expected only the customer Ana, got %+v", ana)
	}
}

func TestBookingRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	r := NewBookingRepository()
	day := func(d int) time.Time { return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC) }
	_ = r.Create(ctx, &domain.Booking{ID: "b1", Date: day(1), Status: domain.BookingPending, UserID: "u1", Services: []string{"a"}, CreatedAt: base})
	_ = r.Create(ctx, &domain.Booking{ID: "b2", Date: day(5), Status: domain.BookingConfirmed, Services: []string{"a", "b"}, CreatedAt: base.Add(time.Hour)})
	_ = r.Create(ctx, &domain.Booking{ID: "b3", Date: day(9), Status: domain.BookingPending, UserID: "u1", Services: []string{"b"}, CreatedAt: base.Add(2 * time.Hour)})

	got, _ := r.List(ctx, ports.BookingFilter{Status: domain.BookingPending})
	if len(got) != 2 || got[0].ID != "b3" {
		t.Errorf("status filter: got %+v", got)
	}
	got, _ = r.List(ctx, ports.BookingFilter{DateFrom: day(2), DateTo: day(9)})
	if len(got) != 2 {
		t.Errorf("date range: expected 2, got %d", len(got))
	}
	got, _ = r.List(ctx, ports.BookingFilter{UserID: "u1", SortByDate: true, Limit: 1})
	if len(got) != 1 || got[0].ID != "b3" {
		t.Errorf("user+sort+limit: got %+v", got)
	}

	counts, _ := r.CountByService(ctx)
	if counts["a"] != 2 || counts["b"] != 2 {
		t.Errorf("unexpected service counts %v", counts)
	}

	got[0].Services[0] = "mutated"
	again, _ := r.FindByID(ctx, "b3")
	if again.Services[0] != "b" {
		t.Error("stored booking must not alias returned slices")
	}
}

func TestCounterStore_WindowAndReap(t *testing.T) {
	ctx := context.Background()
	now := base
	s := NewCounterStore(func() time.Time { return now })

	c, _ := s.Increment(ctx, "k", time.Minute)
	c, _ = s.Increment(ctx, "k", time.Minute)
	if c.Count != 2 || !c.ResetAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected counter %+v", c)
	}
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Error("counter should be live")
	}

	now = base.Add(time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("counter should lapse at the window end")
	}
	if n, _ := s.Reap(ctx); n != 1 {
		t.Errorf("expected 1 reaped, got %d", n)
	}
	c, _ = s.Increment(ctx, "k", time.Minute)
	if c.Count != 1 {
		t.Errorf("expected fresh window, got %d", c.Count)
	}
}

func TestVerificationRepository_NewestWins(t *testing.T) {
	ctx := context.Background()
	r := NewVerificationRepository()
	_ = r.Create(ctx, &domain.VerificationCode{ID: "v1", Phone: "+34612345678", Code: "111111", CreatedAt: base, ExpiresAt: base.Add(10 * time.Minute)})
	_ = r.Create(ctx, &domain.VerificationCode{ID: "v2", Phone: "+34612345678", Code: "222222", CreatedAt: base.Add(time.Minute), ExpiresAt: base.Add(11 * time.Minute)})

	got, err := r.FindIssuedSince(ctx, "+34612345678", base)
	if err != nil || got.ID != "v2" {
		t.Fatalf("expected newest code v2, got %+v (%v)", got, err)
	}
	if err := r.MarkVerified(ctx, "v1"); err != nil {
		t.Fatal(err)
	}
	if v, err := r.FindVerified(ctx, "+34612345678"); err != nil || v.ID != "v1" {
		t.Errorf("expected verified v1, got %+v (%v)", v, err)
	}
	if n, _ := r.DeleteExpired(ctx, base.Add(10*time.Minute+time.Second)); n != 1 {
		t.Errorf("expected one expired code removed, got %d", n)
	}
}
