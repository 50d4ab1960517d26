package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "cart:"
	// Abandoned carts are kept for 30 days, refreshed on every save.
	redisStateTTL = 30 * 24 * time.Hour
)

// RedisPersister keeps cart state in Redis so it survives restarts and is
// shared across instances.
type RedisPersister struct {
	client *redis.Client
}

func NewRedisPersister(connectionString string) (*RedisPersister, error) {
	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis connection string: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPersister{client: client}, nil
}

func (r *RedisPersister) Save(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, redisStateKey(key), data, redisStateTTL).Err()
}

func (r *RedisPersister) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisStateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RedisPersister) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisStateKey(key)).Err()
}

func (r *RedisPersister) Close() error {
	return r.client.Close()
}

func redisStateKey(key string) string {
	return redisKeyPrefix + key
}
