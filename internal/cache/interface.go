package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON-encoded values. A miss is (false, nil), never an error.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	// Set falls back to the configured default TTL when ttl <= 0.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes every given key. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

const (
	ProductKeyPrefix  = "product"
	CategoryKeyPrefix = "category"
	CategoryListKey   = CategoryKeyPrefix + ":all"
)

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

// kind is the prefix of a key, used as a low-cardinality metric label.
func kind(key string) string {
	if prefix, _, ok := strings.Cut(key, ":"); ok && prefix != "" {
		return prefix
	}

	return "other"
}
