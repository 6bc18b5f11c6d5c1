package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/config"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/metrics"
	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

// NewRedisCache shares client with the rate limiter; keys are namespaced so
// the two never collide.
func NewRedisCache(client *redis.Client, cfg *config.CacheConfig) Cache {
	return &redisCache{
		client:    client,
		ttl:       cfg.DefaultTTL,
		namespace: cfg.Namespace,
	}
}

func (r *redisCache) key(key string) string {
	if r.namespace == "" {
		return key
	}

	return r.namespace + ":" + key
}

func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheLookup(kind(key), metrics.CacheMiss)
		return false, nil
	case err != nil:
		metrics.RecordCacheLookup(kind(key), metrics.CacheError)
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		metrics.RecordCacheLookup(kind(key), metrics.CacheError)
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}

	metrics.RecordCacheLookup(kind(key), metrics.CacheHit)
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = r.ttl
	}

	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	return nil
}

// Delete unlinks keys in one round trip; redis reclaims memory in the background.
func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}

	if err := r.client.Unlink(ctx, full...).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", strings.Join(keys, ","), err)
	}

	return nil
}

// Close is a no-op. The client is shared and closed by its owner.
func (r *redisCache) Close() error {
	return nil
}
