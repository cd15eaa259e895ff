package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/api/metrics"
	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// LoginPath is where every failed gate check lands.
const LoginPath = "/login"

// defaultExcludedPrefixes bypass the gate entirely: JSON API routes guard
// themselves, the rest are static or operational.
var defaultExcludedPrefixes = []string{
	"/api/",
	"/static/",
	"/swagger/",
	"/metrics",
	"/health",
	"/favicon.ico",
}

// publicPages never carry an access hash.
var publicPages = map[string]struct{}{
	"/":          {},
	"/login":     {},
	"/contacto":  {},
	"/reservar":  {},
	"/servicios": {},
	"/precios":   {},
}

type GatekeeperConfig struct {
	Sessions   ports.SessionManager
	CookieName string
	Log        zerolog.Logger
	// ExcludedPrefixes replaces defaultExcludedPrefixes when set.
	ExcludedPrefixes []string
}

// Gatekeeper is a pre-routing middleware for hash-prefixed page paths of the
// form /{hash}/admin/... and /{hash}/dashboard. It resolves the session from
// the cookie and the hash together, redirects a role that strays into the
// other namespace or to an unknown page to its own home under the same hash,
// and rewrites the request to the internal path. Every failure redirects to
// the login page.
func Gatekeeper(cfg GatekeeperConfig) echo.MiddlewareFunc {
	excluded := cfg.ExcludedPrefixes
	if excluded == nil {
		excluded = defaultExcludedPrefixes
	}
	log := cfg.Log.With().Str("component", "gatekeeper").Logger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if isExcluded(path, excluded) {
				return next(c)
			}
			if _, ok := publicPages[path]; ok {
				return next(c)
			}

			first, rest := splitFirstSegment(path)
			if _, ok := publicPages["/"+first]; ok {
				return next(c)
			}

			if isNamespace(first) {
				// Internal pages are only reachable through a hash prefix.
				return redirectToLogin(c, "no_hash")
			}
			if !looksLikeHash(first) {
				return next(c)
			}
			if !domain.IsAccessHash(first) {
				return redirectToLogin(c, "malformed_hash")
			}

			cookie, err := c.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				return redirectToLogin(c, "no_session")
			}

			principal, err := cfg.Sessions.Resolve(req.Context(), cookie.Value, first)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					log.Error().Err(err).Str("path", path).Msg("session lookup failed")
				}
				return redirectToLogin(c, "hash_mismatch")
			}

			role := principal.Role()
			ns, ok := role.Namespace()
			if !ok {
				log.Error().Str("user_id", principal.User.ID).Str("role", string(role)).Msg("session user has unknown role")
				return redirectToLogin(c, "invalid_role")
			}
			home := "/" + first + ns.HomePath()
			requested, _ := splitFirstSegment(rest)
			if requested != string(ns) || !ns.HasPage(rest) {
				return c.Redirect(http.StatusTemporaryRedirect, home)
			}

			req.URL.Path = rest
			req.URL.RawPath = ""
			req.RequestURI = req.URL.RequestURI()
			c.Set(ContextPrincipal, principal)
			c.Set(ContextAccessHash, first)
			c.Response().Header().Set(HeaderSessionHash, first)
			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context, reason string) error {
	metrics.GatekeeperRedirectsTotal.WithLabelValues(reason).Inc()
	return c.Redirect(http.StatusTemporaryRedirect, LoginPath)
}

func isExcluded(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isNamespace(segment string) bool {
	switch domain.Namespace(segment) {
	case domain.NamespaceAdmin, domain.NamespaceDashboard:
		return true
	}
	return false
}

// looksLikeHash reports whether segment occupies the hash position: exactly
// AccessHashLength bytes and not a file name.
func looksLikeHash(segment string) bool {
	return len(segment) == domain.AccessHashLength && !strings.Contains(segment, ".")
}

// splitFirstSegment turns "/abc/def/g" into ("abc", "/def/g") and "/abc" into
// ("abc", "").
func splitFirstSegment(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i], trimmed[i:]
	}
	return trimmed, ""
}
