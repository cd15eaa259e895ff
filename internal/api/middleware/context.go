package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// Request-scoped keys set by Gatekeeper and Session.
const (
	ContextPrincipal  = "principal"
	ContextAccessHash = "access_hash"
)

// HeaderSessionHash carries the access hash of the page that issued an API
// call. The Gatekeeper also echoes it on rewritten page responses.
const HeaderSessionHash = "X-Session-Hash"

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(ContextPrincipal).(*domain.Principal)
	return p, ok && p != nil
}

// AccessHashFrom returns the access hash the request was addressed with.
func AccessHashFrom(c echo.Context) string {
	h, _ := c.Get(ContextAccessHash).(string)
	return h
}
