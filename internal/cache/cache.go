// Package cache stores computed results keyed by a hash of their inputs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/C0n0r92/calc2/internal/config"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A miss is reported as ok=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key hashes the JSON encoding of payload under namespace. Callers must
// include everything the cached value depends on, the evaluation date
// included.
func Key(namespace string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	return fmt.Sprintf("%s:%016x", namespace, xxhash.Sum64(raw)), nil
}

// New builds the backend selected by cfg.CacheBackend.
func New(cfg *config.Config) (Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheNone:
		return Nop{}, nil
	case config.CacheMemory:
		return NewMemoryCache(), nil
	case config.CacheRedis:
		return NewRedisCache(cfg.RedisAddr), nil
	case config.CacheSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required for the sqlite cache")
		}
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)       { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Close() error                                             { return nil }
