package settings

import (
	"context"
	"errors"
	"fmt"
	"telemetryd/internal/structures"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps every setting as a field of a single hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(cfg structures.RedisConfig) *RedisStore {
	key := cfg.Key
	if key == "" {
		key = "ptd:settings"
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		key: key,
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.HSet(ctx, r.key, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Flush is a no-op, redis persists on its own schedule.
func (r *RedisStore) Flush(_ context.Context) error { return nil }

func (r *RedisStore) Close() error {
	return r.client.Close()
}
