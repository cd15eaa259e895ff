package domain

import (
	"testing"
	"time"
)

func TestIsAccessHash(t *testing.T) {
	for s, want := range map[string]bool{
		"Ab3_x-9Z":  true,
		"abcdefgh":  true,
		"abc":       false,
		"abcdefghi": false,
		"abc.defg":  false,
		"abc/defg":  false,
	} {
		if got := IsAccessHash(s); got != want {
			t.Errorf("%q: expected %v", s, want)
		}
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now}
	if !s.Expired(now) {
		t.Error("a session is expired at its expiry instant")
	}
	if s.Expired(now.Add(-time.Second)) {
		t.Error("a session is live before its expiry instant")
	}
}
