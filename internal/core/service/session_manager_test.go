package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stub session repository (collision injection)
// ---------------------------------------------------------------------------

// racySessionRepo hides stored hashes from FindByAccessHash so that only the
// unique index on insert detects a collision.
type racySessionRepo struct {
	*memory.SessionRepository
	createCalls int
}

func (r *racySessionRepo) FindByAccessHash(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}

func (r *racySessionRepo) Create(ctx context.Context, s *domain.Session) error {
	r.createCalls++
	return r.SessionRepository.Create(ctx, s)
}

func sequence(values ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v, nil
	}
}

func seedUser(t *testing.T, f *fixture, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.auth.CreateUser(context.Background(), createUserInput(email, role))
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestGenerateAccessHash_Format(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 2000; i++ {
		h, err := GenerateAccessHash()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(h) != 8 || !domain.IsAccessHash(h) {
			t.Fatalf("malformed hash %q", h)
		}
		seen[h] = struct{}{}
	}
	if len(seen) < 1990 {
		t.Errorf("expected near-unique hashes, got %d distinct of 2000", len(seen))
	}
}

func TestSessionManager_IssueAndResolve(t *testing.T) {
	f := newFixture()
	user := seedUser(t, f, "admin@example.com", domain.RoleAdmin)
	ctx := context.Background()

	issued, err := f.sessMgr.Issue(ctx, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !domain.IsAccessHash(issued.Session.AccessHash) {
		t.Fatalf("malformed access hash %q", issued.Session.AccessHash)
	}
	if want := f.clock.Now().Add(7 * 24 * time.Hour); !issued.Session.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, issued.Session.ExpiresAt)
	}

	p, err := f.sessMgr.Resolve(ctx, issued.Cookie, issued.Session.AccessHash)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.User.ID != user.ID || p.Role() != domain.RoleAdmin {
		t.Errorf("unexpected principal %+v", p.User)
	}
}

func TestSessionManager_RejectsHashOfAnotherSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := seedUser(t, f, "alice@example.com", domain.RoleCustomer)
	bob := seedUser(t, f, "bob@example.com", domain.RoleCustomer)

	a, err := f.sessMgr.Issue(ctx, alice)
	if err != nil {
		t.Fatalf("issue a: %v", err)
	}
	b, err := f.sessMgr.Issue(ctx, bob)
	if err != nil {
		t.Fatalf("issue b: %v", err)
	}

	if _, err := f.sessMgr.Resolve(ctx, a.Cookie, b.Session.AccessHash); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for mismatched hash, got %v", err)
	}
	if _, err := f.sessMgr.Resolve(ctx, a.Cookie, "zzzzzzzz"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for unknown hash, got %v", err)
	}
	if _, err := f.sessMgr.Resolve(ctx, a.Cookie, "bad!"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for malformed hash, got %v", err)
	}
}

func TestSessionManager_ExpiredSessionIsPurged(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := seedUser(t, f, "ana@example.com", domain.RoleCustomer)

	issued, err := f.sessMgr.Issue(ctx, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	f.clock.Advance(7*24*time.Hour + time.Second)

	if _, err := f.sessMgr.Resolve(ctx, issued.Cookie, issued.Session.AccessHash); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired session, got %v", err)
	}
	if f.sessions.Len() != 0 {
		t.Errorf("expected expired session to be purged, %d remain", f.sessions.Len())
	}
}

func TestSessionManager_CollisionRetriesThenSucceeds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := seedUser(t, f, "ana@example.com", domain.RoleCustomer)

	f.sessMgr.newHash = sequence("AAAAAAAA")
	if _, err := f.sessMgr.Issue(ctx, user); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	f.sessMgr.newHash = sequence("AAAAAAAA", "AAAAAAAA", "BBBBBBBB")
	issued, err := f.sessMgr.Issue(ctx, user)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if issued.Session.AccessHash != "BBBBBBBB" {
		t.Errorf("expected regenerated hash, got %q", issued.Session.AccessHash)
	}
}

func TestSessionManager_CollisionExhaustion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := seedUser(t, f, "ana@example.com", domain.RoleCustomer)

	f.sessMgr.newHash = sequence("AAAAAAAA")
	if _, err := f.sessMgr.Issue(ctx, user); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	calls := 0
	f.sessMgr.newHash = func() (string, error) {
		calls++
		return "AAAAAAAA", nil
	}
	_, err := f.sessMgr.Issue(ctx, user)
	if !errors.Is(err, domain.ErrAccessHashExhausted) {
		t.Fatalf("expected ErrAccessHashExhausted, got %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 attempts, got %d", calls)
	}
	if f.sessions.Len() != 1 {
		t.Errorf("expected no additional session, got %d", f.sessions.Len())
	}
}

func TestSessionManager_UniqueIndexCatchesRace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := seedUser(t, f, "ana@example.com", domain.RoleCustomer)

	repo := &racySessionRepo{SessionRepository: f.sessions}
	mgr := NewSessionManager(repo, f.users, "test-secret", 0, discardLogger)
	mgr.newHash = sequence("AAAAAAAA")
	if _, err := mgr.Issue(ctx, user); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	mgr.newHash = sequence("AAAAAAAA", "CCCCCCCC")
	issued, err := mgr.Issue(ctx, user)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if issued.Session.AccessHash != "CCCCCCCC" {
		t.Errorf("expected retry after duplicate insert, got %q", issued.Session.AccessHash)
	}
	if repo.createCalls != 3 {
		t.Errorf("expected 3 insert attempts, got %d", repo.createCalls)
	}
}

func TestSessionManager_RevokedSessionIsRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := seedUser(t, f, "ana@example.com", domain.RoleCustomer)

	issued, err := f.sessMgr.Issue(ctx, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := f.sessMgr.Revoke(ctx, issued.Cookie); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := f.sessMgr.Resolve(ctx, issued.Cookie, issued.Session.AccessHash); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated after revoke, got %v", err)
	}
	if _, err := f.sessMgr.Authenticate(ctx, issued.Cookie); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated after revoke, got %v", err)
	}
}

func TestSessionManager_RejectsForeignCookie(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := seedUser(t, f, "ana@example.com", domain.RoleCustomer)

	issued, err := f.sessMgr.Issue(ctx, user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewSessionManager(f.sessions, f.users, "another-secret", 0, discardLogger)
	if _, err := other.Resolve(ctx, issued.Cookie, issued.Session.AccessHash); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for cookie signed with another key, got %v", err)
	}
	if _, err := f.sessMgr.Authenticate(ctx, "not-a-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for garbage cookie, got %v", err)
	}
}
