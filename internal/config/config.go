package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MercadoPagoAccessToken string `env:"MERCADOPAGO_ACCESS_TOKEN,required" validate:"required"`
	MercadoPagoBaseURL     string `env:"MERCADOPAGO_BASE_URL" envDefault:"https://api.mercadopago.com" validate:"required,url"`
	Currency               string `env:"CURRENCY" envDefault:"BRL" validate:"required,len=3"`

	// BaseURL is the public origin of the storefront; checkout back_urls and
	// the payment notification URL are built from it.
	BaseURL string `env:"BASE_URL,required" validate:"required,url"`

	AdminEmail        string `env:"ADMIN_EMAIL,required" validate:"required,email"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH,required" validate:"required"`
	JWTSecret         string `env:"JWT_SECRET,required" validate:"required,min=32"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	SessionStoreProvider  string `env:"SESSION_STORE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	CartStoreProvider     string `env:"CART_STORE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis,required_if=SessionStoreProvider redis,required_if=CartStoreProvider redis"`

	ResendAPIKey     string `env:"RESEND_API_KEY"`
	QuoteNotifyEmail string `env:"QUOTE_NOTIFY_EMAIL" validate:"omitempty,email"`
	EmailFrom        string `env:"EMAIL_FROM" validate:"omitempty,email"`

	SentryDSN string `env:"SENTRY_DSN"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	hasResendKey := strings.TrimSpace(c.ResendAPIKey) != ""
	hasNotifyEmail := strings.TrimSpace(c.QuoteNotifyEmail) != ""
	if hasResendKey != hasNotifyEmail {
		return fmt.Errorf("RESEND_API_KEY and QUOTE_NOTIFY_EMAIL must be set together")
	}
	if hasResendKey && strings.TrimSpace(c.EmailFrom) == "" {
		return fmt.Errorf("EMAIL_FROM is required when quote notifications are enabled")
	}

	parsed, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || parsed.Hostname() == "" {
		return fmt.Errorf("BASE_URL must be a valid absolute URL")
	}
	if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("BASE_URL must use https outside local development")
	}

	return nil
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
