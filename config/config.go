package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	Port     string `env:"PORT" env-default:"8888"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	SecretKey   string `env:"SECRET_KEY" env-default:"some_secret_key_should_be_unique"`
	DatabaseURL string `env:"DATABASE_URL" env-default:"sqlite://app.db"`
	SeedDemo    bool   `env:"SEED_DEMO" env-default:"false"`

	PageSize     int           `env:"PAGINATION_LIMIT_PER_PAGE" env-default:"5"`
	SessionTTL   time.Duration `env:"SESSION_TTL" env-default:"24h"`
	RememberTTL  time.Duration `env:"REMEMBER_TTL" env-default:"720h"`
	FeedCacheTTL time.Duration `env:"FEED_CACHE_TTL" env-default:"30s"`

	CORSOrigins []string `env:"CORS_ORIGINS" env-default:"http://localhost:3000" env-separator:","`

	Mail      Mail
	Redis     Redis
	S3        S3
	RateLimit RateLimit

	SentryDSN string `env:"SENTRY_DSN"`
}

// Mail holds the relay settings used to alert operators about server faults.
type Mail struct {
	Server         string   `env:"MAIL_SERVER"`
	Port           int      `env:"MAIL_PORT" env-default:"25"`
	UseTLS         bool     `env:"MAIL_USE_TLS" env-default:"false"`
	Username       string   `env:"MAIL_USERNAME"`
	Password       string   `env:"MAIL_PASSWORD"`
	Admins         []string `env:"ADMINS" env-default:"ops@chirp.local" env-separator:","`
	SendGridAPIKey string   `env:"SENDGRID_API_KEY"`
}

type Redis struct {
	URL            string `env:"REDIS_URL"`
	Addr           string `env:"REDIS_ADDR"`
	Username       string `env:"REDIS_USERNAME"`
	Password       string `env:"REDIS_PASSWORD"`
	LocalCacheSize int    `env:"LOCAL_CACHE_SIZE" env-default:"1024"`
}

type S3 struct {
	Bucket string `env:"S3_BUCKET"`
	Region string `env:"AWS_REGION" env-default:"us-east-2"`
}

type RateLimit struct {
	Every      time.Duration `env:"RATE_LIMIT_EVERY" env-default:"1s"`
	Burst      int           `env:"RATE_LIMIT_BURST" env-default:"100"`
	LoginEvery time.Duration `env:"LOGIN_RATE_LIMIT_EVERY" env-default:"10s"`
	LoginBurst int           `env:"LOGIN_RATE_LIMIT_BURST" env-default:"10"`
}

// Load reads the configuration from the environment. A .env file is honoured
// outside production; in production config comes from the platform.
func Load() (*Config, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c *Config) MailConfigured() bool {
	return c.Mail.SendGridAPIKey != "" || c.Mail.Server != ""
}

func (c *Config) validate() error {
	if c.IsProduction() && c.SecretKey == "some_secret_key_should_be_unique" {
		return fmt.Errorf("SECRET_KEY must be set in production")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGINATION_LIMIT_PER_PAGE must be positive, got %d", c.PageSize)
	}
	if c.SessionTTL <= 0 || c.RememberTTL <= 0 {
		return fmt.Errorf("session TTLs must be positive")
	}
	return nil
}

// Default returns the configuration used when no environment is present.
// Tests build on it.
func Default() *Config {
	var cfg Config
	_ = cleanenv.ReadEnv(&cfg)
	cfg.AppEnv = "test"
	cfg.PageSize = 5
	cfg.SessionTTL = 24 * time.Hour
	cfg.RememberTTL = 30 * 24 * time.Hour
	cfg.FeedCacheTTL = 30 * time.Second
	if cfg.SecretKey == "" {
		cfg.SecretKey = "test-secret"
	}
	return &cfg
}
