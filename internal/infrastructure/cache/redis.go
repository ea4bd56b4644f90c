package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// RedisStore is a Store backed by Redis, shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Get retrieves a value by key; redis.Nil is a plain miss.
func (rs *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := rs.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores a key-value pair with expiration
func (rs *RedisStore) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return rs.client.Set(ctx, key, value, expiration).Err()
}

// Close closes the underlying client.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
