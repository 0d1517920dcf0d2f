// Package cache stores finished conversions so that re-uploading the same
// image with the same settings skips decode and resize.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/leeforge/genico/config"
	"github.com/leeforge/genico/logging"
)

// Store is a byte cache with per entry expiry.
type Store interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New builds the Store selected by cfg.Driver.
func New(ctx context.Context, cfg config.CacheConfig, logger logging.Logger) (Store, error) {
	switch cfg.Driver {
	case "", config.CacheNone:
		return Noop{}, nil
	case config.CacheMemory:
		return NewMemory(time.Minute), nil
	case config.CacheRedis:
		return NewRedis(ctx, cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, string) error { return nil }
func (Noop) Close() error { return nil }
