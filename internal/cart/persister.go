package cart

import (
	"context"
	"errors"
	"fmt"
)

// StoreName is the fixed name cart state is persisted under. Per-visitor
// state is namespaced below it with the cart session id.
const StoreName = "shopping-cart"

var ErrNotFound = errors.New("cart state not found")

// Persister stores a cart's serialized state durably across sessions.
type Persister interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewPersister(cfg Config) (Persister, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryPersister(), nil
	case "redis":
		return NewRedisPersister(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cart persister: %s", cfg.Provider)
	}
}

// StateKey returns the storage key for a visitor's cart state.
func StateKey(sessionID string) string {
	if sessionID == "" {
		return StoreName
	}
	return fmt.Sprintf("%s:%s", StoreName, sessionID)
}
