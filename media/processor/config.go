package processor

import (
	"context"

	"github.com/leeforge/genico/cache"
	"github.com/leeforge/genico/concurrency"
	"github.com/leeforge/genico/config"
	"github.com/leeforge/genico/logging"
)

// OptionsFromConfig maps the image section onto pipeline options.
func OptionsFromConfig(cfg config.ImageConfig) Options {
	opts := DefaultOptions()
	if cfg.CanvasSize > 0 {
		opts.CanvasSize = cfg.CanvasSize
	}
	if cfg.MinSize > 0 {
		opts.MinSize = cfg.MinSize
	}
	if cfg.Output != "" {
		opts.Output = cfg.Output
	}
	if len(cfg.IcoSizes) > 0 {
		opts.IcoSizes = cfg.IcoSizes
	}
	if cfg.Scaler != "" {
		opts.Scaler = cfg.Scaler
	}
	if cfg.MaxPixels > 0 {
		opts.MaxPixels = cfg.MaxPixels
	}
	return opts
}

// NewConverterFromConfig wires the cache driver, the limiter and the
// logger named in cfg. The returned store must be closed by the caller.
func NewConverterFromConfig(ctx context.Context, cfg *config.AppConfig, logger logging.Logger) (*Converter, cache.Store, error) {
	store, err := cache.New(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, nil, err
	}

	c, err := NewConverter(OptionsFromConfig(cfg.Image),
		WithCache(store, cfg.Cache.TTL),
		WithLimiter(concurrency.NewConcurrencyLimiter(cfg.Limits.MaxConcurrent)),
		WithLogger(logger.Named("converter")),
	)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return c, store, nil
}
