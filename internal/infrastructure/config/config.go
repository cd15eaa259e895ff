package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"

	SMSProviderLog    = "log"
	SMSProviderTwilio = "twilio"
)

type Config struct {
	Port     string `env:"PORT,          default=8080"`
	Env      string `env:"ENV,           default=development"`
	LogLevel string `env:"LOG_LEVEL,     default=info"`
	BaseURL  string `env:"APP_URL,       default=http://localhost:8080"`
	Timezone string `env:"APP_TIMEZONE,  default=Europe/Madrid"`

	StoreBackend   string        `env:"STORE_BACKEND,   default=memory"`
	CounterBackend string        `env:"COUNTER_BACKEND, default=memory"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL,  default=1m"`

	Session SessionConfig
	Captcha CaptchaConfig
	SMS     SMSConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET"`
	TTL        time.Duration `env:"SESSION_TTL,    default=168h"`
	CookieName string        `env:"SESSION_COOKIE, default=session_token"`
}

type CaptchaConfig struct {
	SecretKey string        `env:"RECAPTCHA_SECRET_KEY"`
	VerifyURL string        `env:"RECAPTCHA_VERIFY_URL, default=https://www.google.com/recaptcha/api/siteverify"`
	MinScore  float64       `env:"RECAPTCHA_MIN_SCORE,  default=0.5"`
	Timeout   time.Duration `env:"RECAPTCHA_TIMEOUT,    default=5s"`
}

type SMSConfig struct {
	Provider   string        `env:"SMS_PROVIDER,       default=log"`
	AccountSID string        `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string        `env:"TWILIO_AUTH_TOKEN"`
	From       string        `env:"TWILIO_FROM"`
	Timeout    time.Duration `env:"SMS_TIMEOUT,        default=8s"`
	Workers    int           `env:"SMS_WORKERS,        default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ecolimpio"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves the business timezone used for calendar-date checks.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CookieDomain is the bare host of APP_URL in production and empty otherwise,
// so the cookie never covers sibling subdomains.
func (c *Config) CookieDomain() string {
	if !c.IsProduction() {
		return ""
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Validate rejects settings that are unsafe in production. In development a
// missing session secret is replaced by a random one and reported through
// the returned warnings.
func (c *Config) Validate() (warnings []string, err error) {
	var errs []error

	switch c.StoreBackend {
	case BackendMemory, BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q", BackendMemory, BackendMongo))
	}
	switch c.CounterBackend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("COUNTER_BACKEND must be %q or %q", BackendMemory, BackendRedis))
	}
	switch c.SMS.Provider {
	case SMSProviderLog:
	case SMSProviderTwilio:
		if c.SMS.AccountSID == "" || c.SMS.AuthToken == "" || c.SMS.From == "" {
			errs = append(errs, errors.New("twilio provider requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM"))
		}
	default:
		errs = append(errs, fmt.Errorf("SMS_PROVIDER must be %q or %q", SMSProviderLog, SMSProviderTwilio))
	}
	if _, lerr := c.Location(); lerr != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE: %w", lerr))
	}

	if c.Session.Secret == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("SESSION_SECRET is required in production"))
		} else {
			buf := make([]byte, 32)
			if _, rerr := rand.Read(buf); rerr != nil {
				errs = append(errs, fmt.Errorf("generate session secret: %w", rerr))
			}
			c.Session.Secret = hex.EncodeToString(buf)
			warnings = append(warnings, "SESSION_SECRET not set, using an ephemeral secret; sessions will not survive a restart")
		}
	}
	if c.Captcha.SecretKey == "" {
		warnings = append(warnings, "RECAPTCHA_SECRET_KEY not set")
	}
	if c.IsProduction() && c.SMS.Provider == SMSProviderLog {
		warnings = append(warnings, "SMS_PROVIDER=log in production, verification codes only reach the logs")
	}

	return warnings, errors.Join(errs...)
}
