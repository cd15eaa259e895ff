package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// RequireSession authenticates API calls from the session cookie. When the
// caller sends X-Session-Hash the cookie and hash must address the same
// session. Failures return domain.ErrUnauthenticated.
func RequireSession(sessions ports.SessionManager, cookieName string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := PrincipalFrom(c); ok {
				return next(c)
			}

			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return domain.ErrUnauthenticated
			}

			ctx := c.Request().Context()
			hash := c.Request().Header.Get(HeaderSessionHash)

			var principal *domain.Principal
			if hash != "" {
				principal, err = sessions.Resolve(ctx, cookie.Value, hash)
			} else {
				principal, err = sessions.Authenticate(ctx, cookie.Value)
			}
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					log.Error().Err(err).Str("path", c.Path()).Msg("session lookup failed")
				}
				return domain.ErrUnauthenticated
			}

			c.Set(ContextPrincipal, principal)
			c.Set(ContextAccessHash, principal.Session.AccessHash)
			return next(c)
		}
	}
}
