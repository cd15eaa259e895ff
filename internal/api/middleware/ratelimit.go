package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/api/metrics"
	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// Limiter counts one request from client against a policy.
type Limiter interface {
	Allow(ctx context.Context, policy domain.RateLimitPolicy, client string) domain.RateLimitResult
}

const defaultRateLimitMessage = "Demasiadas solicitudes. Inténtalo de nuevo más tarde"

// RateLimit applies policy per client IP. message is the user-facing text of
// the 429; the delay travels in the Retry-After header.
func RateLimit(limiter Limiter, policy domain.RateLimitPolicy, message string, log zerolog.Logger) echo.MiddlewareFunc {
	if message == "" {
		message = defaultRateLimitMessage
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			res := limiter.Allow(c.Request().Context(), policy, ip)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(policy.Max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				metrics.RateLimitRejectionsTotal.WithLabelValues(policy.Name).Inc()
				log.Warn().
					Str("policy", policy.Name).
					Str("ip", ip).
					Int("retry_after", res.RetryAfter).
					Msg("rate limit exceeded")
				return &domain.RateLimitError{Message: message, RetryAfter: res.RetryAfter}
			}
			return next(c)
		}
	}
}
