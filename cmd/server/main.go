package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzhttp"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"penguinlens/internal/audit"
	"penguinlens/internal/dashboard"
	dashboardHandler "penguinlens/internal/dashboard/handler"
	"penguinlens/internal/dataset"
	"penguinlens/internal/dataset/source"
	"penguinlens/internal/export"
	"penguinlens/internal/platform/config"
	"penguinlens/internal/platform/httpserver"
	"penguinlens/internal/platform/logger"
	"penguinlens/internal/platform/metrics"
	redisClient "penguinlens/internal/platform/redis"
	"penguinlens/pkg/platform/circuit"
	"penguinlens/pkg/platform/httputil"
)

// main wires dependencies, loads the dataset once and serves the dashboard
// API until interrupted.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	src, closeSource, err := buildSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	store := dataset.NewStore(src, dataset.WithLogger(log), dataset.WithMetrics(m))
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Dataset.LoadTimeout)
	ds, err := store.Load(loadCtx)
	cancelLoad()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	cache, closeCache, err := buildExportCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, closePublisher, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()
	async := audit.NewAsyncPublisher(publisher, audit.DefaultBufferSize, log)

	sessions := dashboard.NewSessionStore(cfg.SessionIdleTTL, m)
	service := dashboard.NewService(store,
		dashboard.WithLogger(log),
		dashboard.WithMetrics(m),
		dashboard.WithSessionStore(sessions),
		dashboard.WithPublisher(async),
		dashboard.WithExporter(export.NewExporter(
			export.WithCache(cache),
			export.WithLogger(log),
			export.WithMetrics(m),
		)),
	)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"records": ds.Len(),
		})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	dashboardHandler.New(service, log, m).Register(r)

	srv := httpserver.New(cfg.Addr, gzhttp.GzipHandler(r))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	workersDone := make(chan struct{}, 2)
	go func() {
		_ = sessions.StartCleanup(workerCtx, time.Minute)
		workersDone <- struct{}{}
	}()
	go func() {
		_ = async.Run(workerCtx)
		workersDone <- struct{}{}
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting penguinlens",
			"addr", cfg.Addr,
			"source", src.Name(),
			"records", ds.Len(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stopWorkers()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	stopWorkers()
	<-workersDone
	<-workersDone
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}
	return nil
}

func buildSource(cfg config.Server) (dataset.Source, func(), error) {
	noop := func() {}
	switch cfg.Dataset.Source {
	case config.SourceFile:
		return source.NewFile(cfg.Dataset.Path), noop, nil
	case config.SourcePostgres:
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		return source.NewPostgres(db, cfg.Dataset.Table), func() { _ = db.Close() }, nil
	case config.SourceObject:
		client, err := minio.New(cfg.Object.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Object.AccessKey, cfg.Object.SecretKey, ""),
			Secure: cfg.Object.UseSSL,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("create object storage client: %w", err)
		}
		return source.NewObject(client, cfg.Object.Bucket, cfg.Object.Key), noop, nil
	default:
		client := &http.Client{Timeout: cfg.Dataset.LoadTimeout}
		return source.NewHTTP(cfg.Dataset.URL, client), noop, nil
	}
}

// buildExportCache prefers Redis when configured so replicas share encoded
// exports.
func buildExportCache(ctx context.Context, cfg config.Server, log *slog.Logger) (export.Cache, func(), error) {
	client, err := redisClient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		log.Info("using in-memory export cache", "entries", cfg.Export.CacheSize)
		return export.NewMemoryCache(cfg.Export.CacheSize), func() {}, nil
	}
	log.Info("using redis export cache", "ttl", cfg.Export.CacheTTL.String())
	cache := export.NewGuardedCache(
		export.NewRedisCache(client.Client, cfg.Export.CacheTTL),
		circuit.New("redis-export-cache", circuit.WithCooldown(30*time.Second)),
		log,
	)
	return cache, func() { _ = client.Close() }, nil
}

func buildPublisher(ctx context.Context, cfg config.Server, log *slog.Logger) (audit.Publisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return audit.NewLogPublisher(log), func() {}, nil
	}
	p, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, func() {}, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		log.Warn("kafka not reachable at startup, events will be retried by the producer", "error", err)
	}
	log.Info("publishing download events to kafka", "topic", cfg.Kafka.Topic)
	return p, p.Close, nil
}
