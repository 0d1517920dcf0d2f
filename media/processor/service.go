package processor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/leeforge/genico/cache"
	"github.com/leeforge/genico/concurrency"
	apperrors "github.com/leeforge/genico/errors"
	"github.com/leeforge/genico/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrTooManyPixels rejects sources whose header declares more pixels than
// the converter is allowed to decode.
var ErrTooManyPixels = errors.New("image has too many pixels")

// Converter runs validation and the processing pipeline for both
// front-ends. It holds no per request state and is safe for concurrent use.
type Converter struct {
	opts     Options
	rules    Rules
	strict   Rules
	pipeline *ProcessingPipeline
	store    cache.Store
	ttl      time.Duration
	limiter  *concurrency.ConcurrencyLimiter
	group    singleflight.Group
	logger   logging.Logger
}

type Option func(*Converter)

// WithCache stores finished outputs in store for ttl.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(c *Converter) {
		c.store = store
		c.ttl = ttl
	}
}

// WithLimiter bounds concurrent pipeline runs.
func WithLimiter(l *concurrency.ConcurrencyLimiter) Option {
	return func(c *Converter) { c.limiter = l }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

func NewConverter(opts Options, options ...Option) (*Converter, error) {
	if opts.MinSize <= 0 {
		opts.MinSize = MinSize
	}
	if opts.CanvasSize <= 0 {
		opts.CanvasSize = CanvasSize
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = MaxPixels
	}
	pipeline, err := NewProcessingPipeline(opts)
	if err != nil {
		return nil, err
	}

	c := &Converter{
		opts:     opts,
		rules:    Rules{MinSize: opts.MinSize},
		strict:   Rules{MinSize: opts.MinSize, IgnoreFilename: true},
		pipeline: pipeline,
		store:    cache.Noop{},
		logger:   logging.Nop(),
	}
	for _, o := range options {
		o(c)
	}
	return c, nil
}

// Options returns the settings the converter was built with.
func (c *Converter) Options() Options {
	return c.opts
}

// Validate probes data and collects every warning.
func (c *Converter) Validate(data []byte, filename string) (ValidationResult, ImageMetadata) {
	return c.rules.ValidateBytes(data, filename)
}

// Convert validates with every rule and, when the image is valid, produces
// the icon. An invalid image yields a *ValidationError listing all warnings.
func (c *Converter) Convert(ctx context.Context, req ConversionRequest) (*ConversionResult, error) {
	result, meta := c.Validate(req.Data, req.Filename)
	if !result.IsValid {
		return nil, &ValidationError{Result: result, Metadata: meta}
	}
	return c.encode(ctx, req, meta)
}

// ConvertStrict stops at the first violated rule and reports it as a
// conversion failure. The format is judged by content only, so a PNG
// saved without an extension still converts.
func (c *Converter) ConvertStrict(ctx context.Context, req ConversionRequest) (*ConversionResult, error) {
	result, meta := c.strict.ValidateBytes(req.Data, req.Filename)
	if err := result.FirstViolation(); err != nil {
		return nil, apperrors.NewConversion(err)
	}
	return c.encode(ctx, req, meta)
}

func (c *Converter) encode(ctx context.Context, req ConversionRequest, meta ImageMetadata) (*ConversionResult, error) {
	if pixels := int64(meta.Width) * int64(meta.Height); pixels > c.opts.MaxPixels {
		return nil, apperrors.NewConversion(fmt.Errorf("%w: %dx%d is over %d", ErrTooManyPixels, meta.Width, meta.Height, c.opts.MaxPixels))
	}

	key := c.cacheKey(req.Data)
	logger := logging.WithContext(c.logger, ctx)

	if data, ok, err := c.store.Get(ctx, key); err != nil {
		logger.Warn("cache get failed", zap.Error(err))
	} else if ok {
		logger.Debug("cache hit", zap.String("key", key))
		return c.result(req, meta, data, true), nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Detached from the first caller so its cancellation does not fail
		// the callers sharing this run.
		runCtx := context.WithoutCancel(ctx)
		var out []byte
		run := func() error {
			var err error
			out, err = c.pipeline.Process(runCtx, req.Data)
			return err
		}
		var err error
		if c.limiter != nil {
			err = c.limiter.Execute(runCtx, run)
		} else {
			err = run()
		}
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(runCtx, key, out, c.ttl); err != nil {
			logger.Warn("cache set failed", zap.Error(err))
		}
		return out, nil
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.NewCancelled(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			if ctx.Err() != nil {
				return nil, apperrors.NewCancelled(res.Err)
			}
			logger.Error("conversion failed", zap.Error(res.Err))
			return nil, apperrors.NewConversion(res.Err)
		}
		data, ok := res.Val.([]byte)
		if !ok {
			return nil, apperrors.NewInternal(fmt.Sprintf("conversion produced %T", res.Val))
		}
		return c.result(req, meta, data, false), nil
	}
}

func (c *Converter) result(req ConversionRequest, meta ImageMetadata, data []byte, cached bool) *ConversionResult {
	return &ConversionResult{
		Data:     data,
		Filename: OutputFilename(req.Filename),
		Metadata: meta,
		Cached:   cached,
	}
}

func (c *Converter) cacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + ":" + c.opts.fingerprint()
}
