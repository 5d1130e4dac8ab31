// Package cache stores encoded simulation results by input hash. Simulations
// are deterministic, so a cached result is identical to a recomputed one.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/cxd309/flight-engine/internal/config"
)

// Store is a byte-valued cache with per-entry expiry.
type Store interface {
	// Get returns the value for key. ok is false on a miss.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Key returns the cache key of a simulation of kind over the canonical
// (re-encoded) input payload.
func Key(kind string, payload []byte) string {
	return fmt.Sprintf("flight-engine:%s:%016x", kind, xxh3.Hash(payload))
}

// Open returns the store selected by cfg: nil when disabled, Redis when a URL
// is configured, otherwise an in-process store.
func Open(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch {
	case !cfg.Enabled:
		return nil, nil
	case cfg.RedisURL != "":
		r, err := Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return r, nil
	default:
		return NewMemory(cfg.MaxEntries), nil
	}
}
