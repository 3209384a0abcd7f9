package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"penguinlens/internal/dataset"
	"penguinlens/internal/platform/metrics"
	"penguinlens/pkg/platform/sentinel"
)

// Exporter encodes subsets, memoizing the bytes in an optional Cache.
// Whether an entry is cached never changes the bytes returned.
type Exporter struct {
	cache   Cache
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Exporter)

func WithCache(c Cache) Option {
	return func(e *Exporter) {
		e.cache = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Exporter) {
		e.metrics = m
	}
}

// NewExporter constructs an Exporter. Without WithCache every call encodes.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Key derives the cache key of a subset from the dataset identity, the
// canonical selection and the subset name.
func Key(fingerprint, selectionKey string, subset Subset) string {
	h := sha256.New()
	for _, part := range []string{fingerprint, selectionKey, string(subset)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "export:v1:" + hex.EncodeToString(h.Sum(nil))
}

// Export returns the CSV for the records produced by load. load is only
// invoked on a cache miss; concurrent misses for one key share a single
// encode.
func (e *Exporter) Export(ctx context.Context, key string, load func() []dataset.Record) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.cache == nil {
		return Encode(load()), nil
	}

	if body, err := e.cache.Get(ctx, key); err == nil {
		if e.metrics != nil {
			e.metrics.IncrementExportCacheHit()
		}
		return body, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		e.logger.WarnContext(ctx, "export cache read failed",
			"key", key,
			"error", err,
		)
	}

	if e.metrics != nil {
		e.metrics.IncrementExportCacheMiss()
	}
	v, _, shared := e.group.Do(key, func() (any, error) {
		body := Encode(load())
		// Detached so a client disconnect does not abort the write.
		if err := e.cache.Set(context.WithoutCancel(ctx), key, body); err != nil {
			e.logger.WarnContext(ctx, "export cache write failed",
				"key", key,
				"error", err,
			)
		}
		return body, nil
	})
	if shared {
		return bytes.Clone(v.([]byte)), nil
	}
	return v.([]byte), nil
}
