package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"penguinlens/internal/platform/metrics"
	dErrors "penguinlens/pkg/domain-errors"
)

//go:generate mockgen -source=store.go -destination=mocks/source_mock.go -package=mocks Source

// Source yields the raw rows of the penguin table.
type Source interface {
	Name() string
	FetchRaw(ctx context.Context) ([]RawRecord, error)
}

// Store loads the dataset once and serves the cached result for the life of
// the process. A failed load is cached too: the dataset is fetched at most
// once.
type Store struct {
	source  Source
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	done   bool
	ds     *Dataset
	report CleanReport
	err    error
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore constructs a Store over source.
func NewStore(source Source, opts ...Option) *Store {
	s := &Store{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and cleans the dataset on first call. Fetch failures and
// empty results are reported as CodeUnavailable.
func (s *Store) Load(ctx context.Context) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return s.ds, s.err
	}
	s.done = true
	s.ds, s.report, s.err = s.load(ctx)
	return s.ds, s.err
}

// Report returns the cleaning report of a successful load.
func (s *Store) Report() CleanReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func (s *Store) load(ctx context.Context) (*Dataset, CleanReport, error) {
	start := time.Now()
	raw, err := s.source.FetchRaw(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset fetch failed",
			"source", s.source.Name(),
			"error", err,
		)
		return nil, CleanReport{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "dataset could not be loaded")
	}

	ds, report := Clean(raw)
	if ds.Len() == 0 {
		s.logger.ErrorContext(ctx, "dataset has no usable records",
			"source", s.source.Name(),
			"rows", report.Total,
		)
		return nil, report, dErrors.New(dErrors.CodeUnavailable, "dataset has no usable records")
	}

	s.logger.InfoContext(ctx, "dataset loaded",
		"source", s.source.Name(),
		"rows", report.Total,
		"kept", report.Kept,
		"excluded", report.Excluded,
		"species", len(ds.Species()),
		"islands", len(ds.Islands()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if report.Excluded > 0 {
		s.logger.DebugContext(ctx, "records excluded by cleaning",
			"missing_by_field", report.MissingByField,
		)
	}
	if s.metrics != nil {
		s.metrics.SetDatasetCounts(report.Kept, report.Excluded)
	}
	return ds, report, nil
}
