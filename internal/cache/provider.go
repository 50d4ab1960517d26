// Package cache provides short-lived caching, used for payment webhook
// idempotency.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Provider defines the interface for caching processed event IDs.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// PaymentEventKey builds the idempotency key for one payment notification.
func PaymentEventKey(topic, eventID string) string {
	return fmt.Sprintf("webhook:%s:%s", topic, eventID)
}
