package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usualetiquetas/storefront/internal/pricing"
)

// PriceConfigStore holds the single pricing configuration row. Saves
// replace the whole document so admin edits are all-or-nothing.
type PriceConfigStore struct {
	pool *pgxpool.Pool
}

func NewPriceConfigStore(pool *pgxpool.Pool) *PriceConfigStore {
	return &PriceConfigStore{pool: pool}
}

// PriceConfig implements pricing.ConfigSource. A missing row surfaces as
// ErrNotFound; the engine degrades to its fallback chain without recording
// the built-in defaults as a loaded value.
func (s *PriceConfigStore) PriceConfig(ctx context.Context) (pricing.Config, error) {
	var configJSON []byte
	err := s.pool.QueryRow(ctx, `SELECT config FROM price_config WHERE id = 1`).Scan(&configJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return pricing.Config{}, ErrNotFound
	}
	if err != nil {
		return pricing.Config{}, err
	}

	var cfg pricing.Config
	if err := json.Unmarshal(configJSON, &cfg); err != nil {
		return pricing.Config{}, err
	}
	return cfg, nil
}

func (s *PriceConfigStore) Save(ctx context.Context, cfg pricing.Config) error {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO price_config (id, config, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, updated_at = NOW()
	`
	_, err = s.pool.Exec(ctx, query, configJSON)
	return err
}
