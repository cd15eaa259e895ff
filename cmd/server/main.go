package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/ecolimpio/booking-system/docs" // swagger docs
	"github.com/ecolimpio/booking-system/internal/api"
	"github.com/ecolimpio/booking-system/internal/api/handler"
	"github.com/ecolimpio/booking-system/internal/core/ports"
	"github.com/ecolimpio/booking-system/internal/core/service"
	"github.com/ecolimpio/booking-system/internal/infrastructure/captcha"
	"github.com/ecolimpio/booking-system/internal/infrastructure/config"
	"github.com/ecolimpio/booking-system/internal/infrastructure/db/memory"
	mongostore "github.com/ecolimpio/booking-system/internal/infrastructure/db/mongo"
	redisstore "github.com/ecolimpio/booking-system/internal/infrastructure/db/redis"
	"github.com/ecolimpio/booking-system/internal/infrastructure/queue"
	"github.com/ecolimpio/booking-system/internal/infrastructure/sms"
	"github.com/ecolimpio/booking-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title        EcoLimpio Booking API
// @version      1.0
// @description  Public booking and contact forms, phone verification and the staff back office.
// @BasePath     /
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "booking-api"})

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// stores groups the persistence ports behind one backend choice.
type stores struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	codes    ports.VerificationRepository
	bookings ports.BookingRepository
	contacts ports.ContactRepository
	close    func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, checks map[string]handler.HealthCheck, log zerolog.Logger) (*stores, error) {
	if cfg.StoreBackend == config.BackendMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &stores{
			users:    memory.NewUserRepository(),
			sessions: memory.NewSessionRepository(),
			codes:    memory.NewVerificationRepository(),
			bookings: memory.NewBookingRepository(),
			contacts: memory.NewContactRepository(),
			close:    func(context.Context) error { return nil },
		}, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &stores{
		users:    mongostore.NewUserRepository(db),
		sessions: mongostore.NewSessionRepository(db),
		codes:    mongostore.NewVerificationRepository(db),
		bookings: mongostore.NewBookingRepository(db),
		contacts: mongostore.NewContactRepository(db),
		close:    client.Disconnect,
	}, nil
}

// openCounters returns the counter store plus the reaper the sweeper should
// run, which is nil when keys expire on their own.
func openCounters(ctx context.Context, cfg *config.Config, checks map[string]handler.HealthCheck, log zerolog.Logger) (ports.CounterStore, queue.Reaper, func() error, error) {
	if cfg.CounterBackend == config.BackendMemory {
		store := memory.NewCounterStore(nil)
		return store, store, func() error { return nil }, nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	store := redisstore.NewCounterStore(client)
	checks["redis"] = store.Ping
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return store, nil, client.Close, nil
}

func newSMSSender(cfg *config.Config, log zerolog.Logger) (ports.SMSSender, error) {
	if cfg.SMS.Provider == config.SMSProviderTwilio {
		return sms.NewTwilioSender(sms.TwilioConfig{
			AccountSID: cfg.SMS.AccountSID,
			AuthToken:  cfg.SMS.AuthToken,
			From:       cfg.SMS.From,
			Timeout:    cfg.SMS.Timeout,
		})
	}
	return sms.NewLogSender(log), nil
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	checks := make(map[string]handler.HealthCheck)

	st, err := openStores(ctx, cfg, checks, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	counters, reaper, closeCounters, err := openCounters(ctx, cfg, checks, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCounters(); err != nil {
			log.Error().Err(err).Msg("failed to close counter store")
		}
	}()

	sender, err := newSMSSender(cfg, log)
	if err != nil {
		return err
	}

	// Workers outlive the HTTP server so queued codes are still delivered
	// during shutdown.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	dispatcher := queue.NewDispatcher(cfg.SMS.Workers, cfg.SMS.Timeout, sender, log)
	dispatcher.Start(workerCtx)

	sweeper := queue.NewSweeper(st.sessions, st.codes, reaper, cfg.SweepInterval, log)
	go sweeper.Run(workerCtx)

	// --- Services ---
	sessions := service.NewSessionManager(st.sessions, st.users, cfg.Session.Secret, cfg.Session.TTL, log)
	auth := service.NewAuthService(st.users, sessions, service.NewBcryptHasher(bcrypt.DefaultCost),
		service.NewLockoutTracker(counters, service.LockoutScopeLogin, log), log)
	verifier := captcha.NewRecaptcha(captcha.Config{
		SecretKey:         cfg.Captcha.SecretKey,
		VerifyURL:         cfg.Captcha.VerifyURL,
		MinScore:          cfg.Captcha.MinScore,
		Timeout:           cfg.Captcha.Timeout,
		AllowUnconfigured: !cfg.IsProduction(),
	}, log)
	limiter := service.NewRateLimiter(counters, log)
	verification := service.NewVerificationService(st.codes, verifier, dispatcher,
		service.NewLockoutTracker(counters, service.LockoutScopePhone, log), limiter, log)

	e := api.NewRouter(api.Config{
		BaseURL:      cfg.BaseURL,
		CookieName:   cfg.Session.CookieName,
		CookieDomain: cfg.CookieDomain(),
		SecureCookie: cfg.IsProduction(),
		SessionTTL:   cfg.Session.TTL,
		Registerer:   prometheus.DefaultRegisterer,
		Gatherer:     prometheus.DefaultGatherer,
	}, api.Deps{
		Sessions:     sessions,
		Limiter:      limiter,
		Auth:         auth,
		Verification: verification,
		Bookings:     service.NewBookingService(st.bookings, st.users, auth, verification, loc, log),
		Contacts:     service.NewContactService(st.contacts, log),
		Admin:        service.NewAdminService(st.bookings, st.contacts, st.users, loc, log),
		HealthChecks: checks,
	}, log)

	addr := ":" + cfg.Port
	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Str("store", cfg.StoreBackend).
			Str("counters", cfg.CounterBackend).
			Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	cancelWorkers()
	dispatcher.Wait()
	log.Info().Msg("sms queue drained")
	return nil
}
