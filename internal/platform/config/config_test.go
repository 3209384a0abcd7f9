package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PENGUINLENS_ADDR", "DATASET_SOURCE", "REDIS_URL", "KAFKA_BROKERS", "EXPORT_CACHE_SIZE", "S3_USE_SSL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, SourceURL, cfg.Dataset.Source)
	assert.Equal(t, 30*time.Second, cfg.Dataset.LoadTimeout)
	assert.Equal(t, 256, cfg.Export.CacheSize)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, cfg.Object.UseSSL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PENGUINLENS_ADDR", ":9090")
	t.Setenv("DATASET_SOURCE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/penguins")
	t.Setenv("DATASET_TABLE", "palmer")
	t.Setenv("EXPORT_CACHE_TTL", "5m")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("SESSION_IDLE_TTL", "2h")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, SourcePostgres, cfg.Dataset.Source)
	assert.Equal(t, "palmer", cfg.Dataset.Table)
	assert.Equal(t, 5*time.Minute, cfg.Export.CacheTTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
}

func TestValidate(t *testing.T) {
	t.Run("bad values keep defaults and are reported", func(t *testing.T) {
		t.Setenv("DATASET_SOURCE", "")
		t.Setenv("DATASET_LOAD_TIMEOUT", "soon")
		t.Setenv("EXPORT_CACHE_SIZE", "many")

		cfg := FromEnv()
		assert.Equal(t, 30*time.Second, cfg.Dataset.LoadTimeout)
		assert.Equal(t, 256, cfg.Export.CacheSize)
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATASET_LOAD_TIMEOUT")
		assert.Contains(t, err.Error(), "EXPORT_CACHE_SIZE")
	})

	t.Run("source requirements", func(t *testing.T) {
		cfg := Server{Dataset: DatasetConfig{Source: SourceFile}, Export: ExportConfig{CacheSize: 1}}
		assert.ErrorContains(t, cfg.Validate(), "DATASET_PATH")

		cfg.Dataset.Source = SourceObject
		assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET")

		cfg.Dataset.Source = "ftp"
		assert.ErrorContains(t, cfg.Validate(), "unknown DATASET_SOURCE")
	})
}
