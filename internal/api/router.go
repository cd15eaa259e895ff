package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ecolimpio/booking-system/internal/api/handler"
	"github.com/ecolimpio/booking-system/internal/api/middleware"
	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// Config holds the HTTP-facing settings of the router.
type Config struct {
	BaseURL      string
	CookieName   string
	CookieDomain string
	SecureCookie bool
	SessionTTL   time.Duration

	// Registerer receives the HTTP metrics and Gatherer backs /metrics. When
	// either is nil the router gets a private registry, which keeps parallel
	// routers in tests from colliding on the default one.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Deps are the services the router exposes.
type Deps struct {
	Sessions     ports.SessionManager
	Limiter      middleware.Limiter
	Auth         ports.AuthService
	Verification ports.VerificationService
	Bookings     ports.BookingService
	Contacts     ports.ContactService
	Admin        ports.AdminService
	HealthChecks map[string]handler.HealthCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg Config, deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	registerer, gatherer := cfg.Registerer, cfg.Gatherer
	if registerer == nil || gatherer == nil {
		reg := prometheus.NewRegistry()
		registerer, gatherer = reg, reg
	}

	// --- Pre-routing: access hash gate and rewrite ---
	e.Pre(middleware.Gatekeeper(middleware.GatekeeperConfig{
		Sessions:   deps.Sessions,
		CookieName: cfg.CookieName,
		Log:        log,
	}))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, handler.CookieConfig{
		Name:   cfg.CookieName,
		Domain: cfg.CookieDomain,
		Secure: cfg.SecureCookie,
		MaxAge: cfg.SessionTTL,
	}, cfg.BaseURL)
	verificationHandler := handler.NewVerificationHandler(deps.Verification)
	bookingHandler := handler.NewBookingHandler(deps.Bookings)
	contactHandler := handler.NewContactHandler(deps.Contacts)
	adminHandler := handler.NewAdminHandler(deps.Admin, deps.Auth)
	pageHandler := handler.NewPageHandler()
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	requireSession := middleware.RequireSession(deps.Sessions, cfg.CookieName, log)
	limit := func(p domain.RateLimitPolicy, msg string) echo.MiddlewareFunc {
		return middleware.RateLimit(deps.Limiter, p, msg, log)
	}

	// --- JSON API ---
	api := e.Group("/api", limit(domain.PolicyAPI, ""))

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login,
		limit(domain.PolicyLogin, "Demasiados intentos de inicio de sesión. Inténtalo más tarde"))
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireSession)
	auth.POST("/send-code", verificationHandler.SendCode,
		limit(domain.PolicySMSCode, "Demasiadas solicitudes de código. Inténtalo más tarde"))
	auth.POST("/verify-code", verificationHandler.VerifyCode,
		limit(domain.PolicyVerifyCode, "Demasiados intentos de verificación. Inténtalo más tarde"))

	bookingLimit := limit(domain.PolicyBooking, "Demasiadas reservas. Inténtalo más tarde")
	bookings := api.Group("/bookings")
	bookings.POST("", bookingHandler.Create, bookingLimit)
	bookings.POST("/with-signup", bookingHandler.CreateWithSignup, bookingLimit)
	bookings.GET("/my", bookingHandler.Mine, requireSession)
	bookings.GET("", bookingHandler.List, requireSession, middleware.StaffOnly())
	bookings.GET("/:id", bookingHandler.Get, requireSession, middleware.StaffOnly())
	bookings.PATCH("/:id", bookingHandler.Update, requireSession, middleware.StaffOnly())
	bookings.DELETE("/:id", bookingHandler.Delete, requireSession, middleware.AdminOnly())

	contacts := api.Group("/contacts")
	contacts.POST("", contactHandler.Create,
		limit(domain.PolicyContact, "Demasiados mensajes enviados. Inténtalo más tarde"))
	contacts.GET("", contactHandler.List, requireSession, middleware.StaffOnly())
	contacts.GET("/:id", contactHandler.Get, requireSession, middleware.StaffOnly())
	contacts.PATCH("/:id", contactHandler.Update, requireSession, middleware.StaffOnly())
	contacts.DELETE("/:id", contactHandler.Delete, requireSession, middleware.AdminOnly())

	admin := api.Group("/admin", requireSession)
	admin.GET("/stats", adminHandler.Stats, middleware.StaffOnly())
	admin.GET("/customers", adminHandler.Customers, middleware.StaffOnly())
	admin.GET("/profile", adminHandler.Profile)
	admin.PATCH("/profile", adminHandler.UpdateProfile)

	// --- Pages ---
	for path, name := range map[string]string{
		"/":          "home",
		"/login":     "login",
		"/contacto":  "contacto",
		"/reservar":  "reservar",
		"/servicios": "servicios",
		"/precios":   "precios",
	} {
		e.GET(path, pageHandler.Public(name))
	}
	for _, ns := range []domain.Namespace{domain.NamespaceAdmin, domain.NamespaceDashboard} {
		for _, name := range ns.Pages() {
			e.GET(ns.PagePath(name), pageHandler.Internal(name, ns))
		}
	}

	// --- Operational ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
