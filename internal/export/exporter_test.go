package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguinlens/internal/dataset"
	"penguinlens/internal/dataset/datasettest"
	"penguinlens/internal/platform/metrics"
	"penguinlens/pkg/platform/sentinel"
)

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, []byte) error {
	return errors.New("cache down")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExporterCaching(t *testing.T) {
	records := datasettest.SampleRecords()
	want := Encode(records)

	t.Run("cached and uncached output are identical", func(t *testing.T) {
		m := metrics.New(prometheus.NewRegistry())
		cached := NewExporter(WithCache(NewMemoryCache(4)), WithMetrics(m), WithLogger(quietLogger()))
		plain := NewExporter()

		var loads atomic.Int32
		load := func() []dataset.Record {
			loads.Add(1)
			return records
		}

		first, err := cached.Export(context.Background(), "k", load)
		require.NoError(t, err)
		second, err := cached.Export(context.Background(), "k", load)
		require.NoError(t, err)
		uncached, err := plain.Export(context.Background(), "k", load)
		require.NoError(t, err)

		assert.Equal(t, want, first)
		assert.Equal(t, first, second)
		assert.Equal(t, first, uncached)
		assert.Equal(t, int32(2), loads.Load(), "second cached call should not reload")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportCacheHits))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportCacheMisses))
	})

	t.Run("cache failures fall through to encoding", func(t *testing.T) {
		e := NewExporter(WithCache(failingCache{}), WithLogger(quietLogger()))
		body, err := e.Export(context.Background(), "k", func() []dataset.Record { return records })
		require.NoError(t, err)
		assert.Equal(t, want, body)
	})

	t.Run("concurrent misses produce the same bytes", func(t *testing.T) {
		e := NewExporter(WithCache(NewMemoryCache(4)), WithLogger(quietLogger()))
		var wg sync.WaitGroup
		results := make([][]byte, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = e.Export(context.Background(), "shared", func() []dataset.Record { return records })
			}(i)
		}
		wg.Wait()
		for _, r := range results {
			assert.Equal(t, want, r)
		}
	})

	t.Run("cancelled context is rejected", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewExporter().Export(ctx, "k", func() []dataset.Record { return records })
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestKey(t *testing.T) {
	a := Key("fp", "species=[\"Adelie\"]", SubsetMale)
	assert.Equal(t, a, Key("fp", "species=[\"Adelie\"]", SubsetMale))
	assert.NotEqual(t, a, Key("fp", "species=[\"Adelie\"]", SubsetFemale))
	assert.NotEqual(t, a, Key("fp2", "species=[\"Adelie\"]", SubsetMale))
	assert.NotEqual(t, Key("ab", "c", SubsetMale), Key("a", "bc", SubsetMale))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	_, err := c.Get(ctx, "a")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	// Touch a so b becomes the eviction candidate.
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", []byte("3")))

	assert.Equal(t, 2, c.Len())
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	require.NoError(t, c.Set(ctx, "a", []byte("1b")))
	got, _ = c.Get(ctx, "a")
	assert.Equal(t, []byte("1b"), got)
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, DefaultMemoryEntries, NewMemoryCache(0).max)

	t.Run("entries are isolated from caller mutation", func(t *testing.T) {
		c := NewMemoryCache(1)
		in := []byte("species")
		require.NoError(t, c.Set(ctx, "k", in))
		in[0] = 'X'

		out, err := c.Get(ctx, "k")
		require.NoError(t, err)
		out[1] = 'X'

		again, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("species"), again)
	})
}
