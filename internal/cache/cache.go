package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned when the key is absent from the cache.
var ErrMiss = errors.New("cache miss")

// Cache is a JSON read-through cache backed by Redis. It stores catalog
// snapshots only; booking state is never cached because availability must
// always be answered from the database.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Cache{client: client, ttl: cfg.TTL, logger: logger}, nil
}

// GetJSON loads the value at key into target. Returns ErrMiss when absent.
func (c *Cache) GetJSON(ctx context.Context, key string, target interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode cached value at %s: %w", key, err)
	}
	return nil
}

// SetJSON stores the value at key with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for cache key %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Invalidate removes the given keys. Missing keys are not an error.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
