package handler

import (
	"net/http"
	"time"
)

// CookieConfig shapes the session cookie: HTTP-only, SameSite=Lax and, in
// production, bound to the bare host without a leading dot.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

func (cc CookieConfig) session(value string) *http.Cookie {
	return &http.Cookie{
		Name:     cc.Name,
		Value:    value,
		Path:     "/",
		Domain:   cc.Domain,
		MaxAge:   int(cc.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (cc CookieConfig) cleared() *http.Cookie {
	c := cc.session("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
