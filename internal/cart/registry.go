package cart

import (
	"context"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const registrySize = 4096

// Registry hands out one live Store per state key so every request touching
// the same cart serializes on that store's mutex. Without it, concurrent
// requests would each rehydrate a private copy and the last commit would
// overwrite the other's lines.
type Registry struct {
	mu        sync.Mutex
	persister Persister
	logger    *slog.Logger
	onCreate  func(key string, store *Store)
	stores    *lru.Cache[string, *Store]
}

// NewRegistry builds a registry over the shared persister. onCreate, when
// non-nil, runs once for each store the registry materializes.
func NewRegistry(persister Persister, logger *slog.Logger, onCreate func(key string, store *Store)) (*Registry, error) {
	stores, err := lru.New[string, *Store](registrySize)
	if err != nil {
		return nil, err
	}
	return &Registry{
		persister: persister,
		logger:    logger,
		onCreate:  onCreate,
		stores:    stores,
	}, nil
}

// Store returns the live store for key, creating and rehydrating it on first
// use. Eviction only drops the in-memory handle; the state stays persisted
// and the next request for that key rehydrates it.
func (r *Registry) Store(ctx context.Context, key string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores.Get(key); ok {
		return store
	}

	store := NewStore(ctx, r.persister, key, r.logger)
	if r.onCreate != nil {
		r.onCreate(key, store)
	}
	r.stores.Add(key, store)
	return store
}
