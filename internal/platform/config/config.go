package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Dataset source kinds.
const (
	SourceURL      = "url"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceObject   = "object"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	LogFormat      string
	LogLevel       string
	SessionIdleTTL time.Duration
	Dataset        DatasetConfig
	Export         ExportConfig
	Redis          RedisConfig
	Postgres       PostgresConfig
	Object         ObjectConfig
	Kafka          KafkaConfig

	parseErrs []error
}

// DatasetConfig selects where the penguin table is read from.
type DatasetConfig struct {
	Source      string
	URL         string
	Path        string
	Table       string
	LoadTimeout time.Duration
}

// ExportConfig sizes the export cache.
type ExportConfig struct {
	CacheTTL  time.Duration
	CacheSize int
}

// RedisConfig configures the shared export cache. An empty URL selects the
// in-process cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig is used by the postgres dataset source.
type PostgresConfig struct {
	URL string
}

// ObjectConfig locates the dataset CSV in an S3-compatible bucket.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	UseSSL    bool
}

// KafkaConfig enables the Kafka download-event publisher when Brokers is
// non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables. Unparseable
// values keep their defaults and are reported by Validate.
func FromEnv() Server {
	var cfg Server
	cfg.Addr = envString("PENGUINLENS_ADDR", ":8080")
	cfg.LogFormat = envString("LOG_FORMAT", "json")
	cfg.LogLevel = envString("LOG_LEVEL", "info")
	cfg.SessionIdleTTL = cfg.envDuration("SESSION_IDLE_TTL", 30*time.Minute)

	cfg.Dataset = DatasetConfig{
		Source:      strings.ToLower(envString("DATASET_SOURCE", SourceURL)),
		URL:         envString("DATASET_URL", ""),
		Path:        envString("DATASET_PATH", ""),
		Table:       envString("DATASET_TABLE", "penguins"),
		LoadTimeout: cfg.envDuration("DATASET_LOAD_TIMEOUT", 30*time.Second),
	}
	cfg.Export = ExportConfig{
		CacheTTL:  cfg.envDuration("EXPORT_CACHE_TTL", time.Hour),
		CacheSize: cfg.envInt("EXPORT_CACHE_SIZE", 256),
	}
	cfg.Redis = RedisConfig{
		URL:          envString("REDIS_URL", ""),
		PoolSize:     cfg.envInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: cfg.envInt("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  cfg.envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  cfg.envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: cfg.envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
	cfg.Postgres = PostgresConfig{
		URL: envString("DATABASE_URL", ""),
	}
	cfg.Object = ObjectConfig{
		Endpoint:  envString("S3_ENDPOINT", ""),
		AccessKey: envString("S3_ACCESS_KEY", ""),
		SecretKey: envString("S3_SECRET_KEY", ""),
		Bucket:    envString("S3_BUCKET", ""),
		Key:       envString("S3_KEY", "penguins.csv"),
		UseSSL:    cfg.envBool("S3_USE_SSL", true),
	}
	cfg.Kafka = KafkaConfig{
		Brokers: envList("KAFKA_BROKERS"),
		Topic:   envString("KAFKA_TOPIC", "penguinlens.downloads"),
	}
	return cfg
}

// Validate reports parse failures and settings the selected dataset source
// needs but does not have.
func (c Server) Validate() error {
	errs := append([]error(nil), c.parseErrs...)
	switch c.Dataset.Source {
	case SourceURL:
	case SourceFile:
		if c.Dataset.Path == "" {
			errs = append(errs, errors.New("DATASET_PATH is required for the file source"))
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres source"))
		}
	case SourceObject:
		if c.Object.Endpoint == "" || c.Object.Bucket == "" {
			errs = append(errs, errors.New("S3_ENDPOINT and S3_BUCKET are required for the object source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATASET_SOURCE %q", c.Dataset.Source))
	}
	if c.Export.CacheSize <= 0 {
		errs = append(errs, errors.New("EXPORT_CACHE_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Server) envDuration(key string, def time.Duration) time.Duration {
	v := envString(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (c *Server) envInt(key string, def int) int {
	v := envString(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (c *Server) envBool(key string, def bool) bool {
	v := envString(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return def
	}
	return b
}
