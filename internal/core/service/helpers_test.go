package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
	"github.com/ecolimpio/booking-system/internal/infrastructure/db/memory"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Clock
// ---------------------------------------------------------------------------

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubCaptcha struct {
	mu    sync.Mutex
	err   error
	calls int
	last  string
}

func (s *stubCaptcha) Verify(_ context.Context, token, action, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = action
	return s.err
}

type recordingDispatcher struct {
	mu   sync.Mutex
	msgs []ports.SMSMessage
}

func (d *recordingDispatcher) Dispatch(msg ports.SMSMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msg)
}

func (d *recordingDispatcher) lastCode() string {
	if len(d.msgs) == 0 {
		return ""
	}
	return d.msgs[len(d.msgs)-1].Code
}

type erroringCounterStore struct{ err error }

func (s erroringCounterStore) Increment(context.Context, string, time.Duration) (domain.Counter, error) {
	return domain.Counter{}, s.err
}

func (s erroringCounterStore) Get(context.Context, string) (domain.Counter, bool, error) {
	return domain.Counter{}, false, s.err
}

func (s erroringCounterStore) Reset(context.Context, string) error { return s.err }

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

// fixture wires every service over the in-memory backend with a shared clock.
type fixture struct {
	clock *fakeClock

	users     *memory.UserRepository
	sessions  *memory.SessionRepository
	codes     *memory.VerificationRepository
	bookings  *memory.BookingRepository
	contacts  *memory.ContactRepository
	counters  *memory.CounterStore
	captcha   *stubCaptcha
	sms       *recordingDispatcher
	hasher    *BcryptHasher
	sessMgr   *SessionManager
	auth      *AuthService
	verify    *VerificationService
	booking   *BookingService
	contact   *ContactService
	admin     *AdminService
	loginLock *LockoutTracker
	phoneLock *LockoutTracker
	resend    *RateLimiter
}

func newFixture() *fixture {
	f := &fixture{
		clock:    newFakeClock(),
		users:    memory.NewUserRepository(),
		sessions: memory.NewSessionRepository(),
		codes:    memory.NewVerificationRepository(),
		bookings: memory.NewBookingRepository(),
		contacts: memory.NewContactRepository(),
		captcha:  &stubCaptcha{},
		sms:      &recordingDispatcher{},
		hasher:   NewBcryptHasher(bcrypt.MinCost),
	}
	f.counters = memory.NewCounterStore(f.clock.Now)

	f.loginLock = NewLockoutTracker(f.counters, LockoutScopeLogin, discardLogger)
	f.loginLock.now = f.clock.Now
	f.phoneLock = NewLockoutTracker(f.counters, LockoutScopePhone, discardLogger)
	f.phoneLock.now = f.clock.Now

	f.sessMgr = NewSessionManager(f.sessions, f.users, "test-secret", 0, discardLogger)
	f.sessMgr.now = f.clock.Now

	f.auth = NewAuthService(f.users, f.sessMgr, f.hasher, f.loginLock, discardLogger)
	f.auth.now = f.clock.Now

	f.resend = NewRateLimiter(f.counters, discardLogger)
	f.resend.now = f.clock.Now

	f.verify = NewVerificationService(f.codes, f.captcha, f.sms, f.phoneLock, f.resend, discardLogger)
	f.verify.now = f.clock.Now

	f.booking = NewBookingService(f.bookings, f.users, f.auth, f.verify, time.UTC, discardLogger)
	f.booking.now = f.clock.Now

	f.contact = NewContactService(f.contacts, discardLogger)
	f.contact.now = f.clock.Now

	f.admin = NewAdminService(f.bookings, f.contacts, f.users, time.UTC, discardLogger)
	f.admin.now = f.clock.Now
	return f
}
