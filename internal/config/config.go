// Package config loads the site configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Content API
	APIURL     string        `env:"API_URL,required,notEmpty"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	AdminPath  string        `env:"ADMIN_PATH" envDefault:"dashboard"`

	// Sessions
	SessionDBPath   string        `env:"SESSION_DB_PATH" envDefault:"./data/sessions.db"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
	CSRFKey         string        `env:"CSRF_KEY"`

	// Public collection cache
	RedisURL          string        `env:"REDIS_URL"`
	CachePrefix       string        `env:"CACHE_PREFIX" envDefault:"portfolio:"`
	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"60s"`
	CacheWarmSchedule string        `env:"CACHE_WARM_SCHEDULE" envDefault:"@every 5m"`

	// Contact form
	ContactSubject string `env:"CONTACT_SUBJECT" envDefault:"Portfolio Inquiry"`
	OwnerEmail     string `env:"OWNER_EMAIL"`
	MailFrom       string `env:"MAIL_FROM" envDefault:"onboarding@resend.dev"`
	ResendAPIKey   string `env:"RESEND_API_KEY"`
	SMTPHost       string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort       int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser       string `env:"SMTP_USER"`
	SMTPPass       string `env:"SMTP_PASS"`

	// Login throttle: attempts per second and burst per client IP
	LoginRate  float64 `env:"LOGIN_RATE" envDefault:"0.2"`
	LoginBurst int     `env:"LOGIN_BURST" envDefault:"5"`

	CVPath string `env:"CV_PATH" envDefault:"./static/cv.pdf"`
}

// IsDevelopment returns true if the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AdminRoute is the mount point of the admin console, always with one leading slash.
func (c Config) AdminRoute() string {
	p := strings.Trim(strings.TrimSpace(c.AdminPath), "/")
	if p == "" {
		p = "dashboard"
	}
	return "/" + p
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// MinCSRFKeyLength is the key size the CSRF middleware requires.
const MinCSRFKeyLength = 32

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return nil, fmt.Errorf("API_URL must be an http(s) URL, got %q", cfg.APIURL)
	}

	if cfg.CSRFKey == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("CSRF_KEY is required outside development")
		}
		slog.Warn("CSRF_KEY not set; using an insecure development key")
		cfg.CSRFKey = strings.Repeat("d", MinCSRFKeyLength)
	}
	if len(cfg.CSRFKey) < MinCSRFKeyLength {
		return nil, fmt.Errorf("CSRF_KEY must be at least %d bytes long, got %d bytes",
			MinCSRFKeyLength, len(cfg.CSRFKey))
	}

	return cfg, nil
}
