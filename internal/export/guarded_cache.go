package export

import (
	"context"
	"errors"
	"log/slog"

	"penguinlens/pkg/platform/circuit"
	"penguinlens/pkg/platform/sentinel"
)

// GuardedCache stops calling a failing backend for a while. While the
// breaker is open reads miss and writes are skipped.
type GuardedCache struct {
	next    Cache
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuardedCache(next Cache, breaker *circuit.Breaker, logger *slog.Logger) *GuardedCache {
	return &GuardedCache{next: next, breaker: breaker, logger: logger}
}

func (c *GuardedCache) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.breaker.Allow() {
		return nil, sentinel.ErrNotFound
	}
	body, err := c.next.Get(ctx, key)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		c.failure(ctx, err)
		return nil, err
	}
	c.success(ctx)
	return body, err
}

func (c *GuardedCache) Set(ctx context.Context, key string, body []byte) error {
	if !c.breaker.Allow() {
		return nil
	}
	if err := c.next.Set(ctx, key, body); err != nil {
		c.failure(ctx, err)
		return err
	}
	c.success(ctx)
	return nil
}

func (c *GuardedCache) failure(ctx context.Context, err error) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "export cache circuit opened",
			"breaker", c.breaker.Name(),
			"error", err,
		)
	}
}

func (c *GuardedCache) success(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "export cache circuit closed",
			"breaker", c.breaker.Name(),
		)
	}
}
