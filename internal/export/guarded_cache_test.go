package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguinlens/internal/dataset/datasettest"
	"penguinlens/pkg/platform/circuit"
	"penguinlens/pkg/platform/sentinel"
)

type flakyCache struct {
	calls int
	err   error
	inner *MemoryCache
}

func (c *flakyCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.Get(ctx, key)
}

func (c *flakyCache) Set(ctx context.Context, key string, body []byte) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	return c.inner.Set(ctx, key, body)
}

func TestGuardedCache(t *testing.T) {
	ctx := context.Background()
	backend := &flakyCache{err: errors.New("connection refused"), inner: NewMemoryCache(4)}
	guarded := NewGuardedCache(backend, circuit.New("redis", circuit.WithFailureThreshold(2)), quietLogger())

	_, err := guarded.Get(ctx, "k")
	require.Error(t, err)
	require.Error(t, guarded.Set(ctx, "k", []byte("x")))
	assert.Equal(t, 2, backend.calls)

	_, err = guarded.Get(ctx, "k")
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "open breaker reads as a miss")
	assert.NoError(t, guarded.Set(ctx, "k", []byte("x")))
	assert.Equal(t, 2, backend.calls, "open breaker skips the backend")

	t.Run("exports still succeed behind an open breaker", func(t *testing.T) {
		e := NewExporter(WithCache(guarded), WithLogger(quietLogger()))
		body, err := e.Export(ctx, "k", datasettest.SampleRecords)
		require.NoError(t, err)
		assert.Equal(t, Encode(datasettest.SampleRecords()), body)
	})
}

func TestGuardedCachePassesThroughWhenHealthy(t *testing.T) {
	ctx := context.Background()
	backend := &flakyCache{inner: NewMemoryCache(4)}
	guarded := NewGuardedCache(backend, circuit.New("redis"), quietLogger())

	_, err := guarded.Get(ctx, "k")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	require.NoError(t, guarded.Set(ctx, "k", []byte("x")))
	got, err := guarded.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}
