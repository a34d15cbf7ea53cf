package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/socialhealth/healthscore/pkg/config"
	"github.com/socialhealth/healthscore/pkg/logging"
)

const namespace = "healthscore"

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = errors.New("cache is disabled")

	// ErrMiss is returned when a key is absent
	ErrMiss = errors.New("cache miss")
)

// Cache wraps a Redis client. A nil *Cache is a disabled cache.
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache client, nil when disabled in config
func New(cfg *config.RedisConfig) (*Cache, error) {
	log := logging.WithComponent("cache")
	if !cfg.Enabled {
		log.Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Redis connection established")

	return &Cache{client: client}, nil
}

func (c *Cache) namespaceKey(key string) string {
	return namespace + ":" + key
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Get retrieves a value, ErrMiss when absent
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if !c.enabled() {
		return "", ErrCacheDisabled
	}
	v, err := c.client.Get(ctx, c.namespaceKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return v, err
}

// Set sets a value with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	return c.client.Set(ctx, c.namespaceKey(key), value, ttl).Err()
}

// GetJSON decodes a stored JSON value into dest
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

// SetJSON stores value encoded as JSON
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.Set(ctx, key, raw, ttl)
}

// Delete removes keys
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = c.namespaceKey(k)
	}
	return c.client.Del(ctx, namespaced...).Err()
}

// AcquireCooldown claims key for ttl. When someone already holds it,
// it reports false and the time left on the claim.
func (c *Cache) AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	if !c.enabled() {
		return false, 0, ErrCacheDisabled
	}
	k := c.namespaceKey(key)
	ok, err := c.client.SetNX(ctx, k, time.Now().UTC().Unix(), ttl).Result()
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}

	remaining, err := c.client.TTL(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}

// ReleaseCooldown drops a claim taken by AcquireCooldown
func (c *Cache) ReleaseCooldown(ctx context.Context, key string) error {
	return c.Delete(ctx, key)
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}
