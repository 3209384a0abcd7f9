// Package dashboard recomputes the penguin dashboard from a selection and
// serves the sex-partitioned CSV downloads.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"penguinlens/internal/aggregate"
	"penguinlens/internal/audit"
	"penguinlens/internal/dataset"
	"penguinlens/internal/export"
	"penguinlens/internal/filter"
	"penguinlens/internal/platform/metrics"
	"penguinlens/pkg/requestcontext"
)

// DatasetLoader yields the cleaned dataset. *dataset.Store satisfies it.
type DatasetLoader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Snapshot is everything the presentation layer needs to draw one state of
// the dashboard.
type Snapshot struct {
	Selection     filter.Selection        `json:"selection"`
	FilteredCount int                     `json:"filtered_count"`
	Summary       aggregate.Summary       `json:"summary"`
	Grouped       aggregate.GroupedCounts `json:"grouped"`
	Dropped       int                     `json:"dropped"`
	Charts        []Chart                 `json:"charts"`
	Exports       []ExportLink            `json:"exports"`
}

// ExportLink describes one of the two downloads of a snapshot. Href is
// filled in by the transport.
type ExportLink struct {
	Subset   export.Subset `json:"subset"`
	Label    string        `json:"label"`
	Filename string        `json:"filename"`
	Rows     int           `json:"rows"`
	Href     string        `json:"href,omitempty"`
}

// Options lists the selectable values of the loaded dataset.
type Options struct {
	Species  []string `json:"species"`
	Islands  []string `json:"islands"`
	Records  int      `json:"records"`
	Excluded int      `json:"excluded"`
}

// Service computes snapshots and exports. It holds no per-viewer state
// beyond the session store.
type Service struct {
	loader    DatasetLoader
	exporter  *export.Exporter
	sessions  *SessionStore
	publisher audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithExporter(e *export.Exporter) Option {
	return func(s *Service) {
		s.exporter = e
	}
}

func WithSessionStore(store *SessionStore) Option {
	return func(s *Service) {
		s.sessions = store
	}
}

// WithPublisher sets the sink for download events.
func WithPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// NewService constructs a Service. Unset collaborators get in-memory
// defaults.
func NewService(loader DatasetLoader, opts ...Option) *Service {
	s := &Service{
		loader: loader,
		logger: slog.Default(),
		tracer: otel.Tracer("penguinlens/dashboard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.exporter == nil {
		s.exporter = export.NewExporter(export.WithLogger(s.logger), export.WithMetrics(s.metrics))
	}
	if s.sessions == nil {
		s.sessions = NewSessionStore(DefaultSessionIdleTTL, s.metrics)
	}
	if s.publisher == nil {
		s.publisher = audit.NewLogPublisher(s.logger)
	}
	return s
}

// Options returns the distinct species and islands of the dataset.
func (s *Service) Options(ctx context.Context) (*Options, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Options{
		Species:  ds.Species(),
		Islands:  ds.Islands(),
		Records:  ds.Len(),
		Excluded: ds.Excluded(),
	}, nil
}

// DefaultSelection selects every species and island.
func (s *Service) DefaultSelection(ctx context.Context) (filter.Selection, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return filter.Selection{}, err
	}
	return filter.Default(ds), nil
}

// Snapshot recomputes the dashboard for sel.
func (s *Service) Snapshot(ctx context.Context, sel filter.Selection) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.Snapshot",
		trace.WithAttributes(
			attribute.Int("selection.species", len(sel.Species)),
			attribute.Int("selection.islands", len(sel.Islands)),
		),
	)
	defer span.End()

	start := time.Now()
	ds, err := s.loader.Load(ctx)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	if err := sel.Validate(ds); err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	view := filter.Apply(ds, sel)
	partition := aggregate.PartitionBySex(view)
	summary := aggregate.Summarize(partition)
	grouped := aggregate.CountBySpeciesSex(view)

	if partition.Dropped > 0 {
		s.logger.WarnContext(ctx, "records with unexpected sex value left out of partitions",
			"request_id", requestcontext.RequestID(ctx),
			"dropped", partition.Dropped,
		)
		if s.metrics != nil {
			s.metrics.AddUnexpectedSexValues(partition.Dropped)
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveSnapshot(start)
	}
	span.SetAttributes(attribute.Int("filtered_count", view.Len()))

	return &Snapshot{
		Selection:     sel,
		FilteredCount: view.Len(),
		Summary:       summary,
		Grouped:       grouped,
		Dropped:       partition.Dropped,
		Charts:        buildCharts(summary, grouped),
		Exports: []ExportLink{
			{Subset: export.SubsetMale, Label: "Download Male Penguins CSV", Filename: export.SubsetMale.Filename(), Rows: partition.Male.Len()},
			{Subset: export.SubsetFemale, Label: "Download Female Penguins CSV", Filename: export.SubsetFemale.Filename(), Rows: partition.Female.Len()},
		},
	}, nil
}

// Export encodes the subset of sel's view whose sex matches subset.
func (s *Service) Export(ctx context.Context, sel filter.Selection, subset export.Subset) (*export.Download, error) {
	return s.export(ctx, "", sel, subset)
}

func (s *Service) export(ctx context.Context, sessionID string, sel filter.Selection, subset export.Subset) (*export.Download, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.Export",
		trace.WithAttributes(attribute.String("subset", string(subset))),
	)
	defer span.End()

	ds, err := s.loader.Load(ctx)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	if err := sel.Validate(ds); err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	partition := aggregate.PartitionBySex(filter.Apply(ds, sel))
	side := partition.Male
	if subset == export.SubsetFemale {
		side = partition.Female
	}

	body, err := s.exporter.Export(ctx, export.Key(ds.Fingerprint(), sel.Key(), subset), side.Records)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AddExportBytes(string(subset), len(body))
	}
	span.SetAttributes(attribute.Int("rows", side.Len()), attribute.Int("bytes", len(body)))

	s.emitDownload(ctx, sessionID, sel, subset, side.Len())

	return &export.Download{
		Subset:      subset,
		Filename:    subset.Filename(),
		ContentType: export.ContentType,
		Rows:        side.Len(),
		Body:        body,
	}, nil
}

func (s *Service) emitDownload(ctx context.Context, sessionID string, sel filter.Selection, subset export.Subset, rows int) {
	event := audit.Event{
		Action:    audit.ActionExportDownloaded,
		SessionID: sessionID,
		Sex:       string(subset),
		Rows:      rows,
		Selection: sel,
		Client:    audit.ClientFamily(requestcontext.UserAgent(ctx)),
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish download event",
			"request_id", event.RequestID,
			"error", err,
		)
	}
}

// CreateSession starts a session on the default selection.
func (s *Service) CreateSession(ctx context.Context) (string, *Snapshot, error) {
	sel, err := s.DefaultSelection(ctx)
	if err != nil {
		return "", nil, err
	}
	snapshot, err := s.Snapshot(ctx, sel)
	if err != nil {
		return "", nil, err
	}
	session := s.sessions.Create(sel, requestcontext.Now(ctx))
	s.logger.InfoContext(ctx, "session created",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", session.ID,
	)
	return session.ID, snapshot, nil
}

// SessionSnapshot recomputes the dashboard for a session's current
// selection.
func (s *Service) SessionSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	session, err := s.sessions.Get(id, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, session.Selection)
}

// UpdateFilters replaces a session's selection and returns the fresh
// snapshot. An invalid selection leaves the session unchanged.
func (s *Service) UpdateFilters(ctx context.Context, id string, sel filter.Selection) (*Snapshot, error) {
	if _, err := s.sessions.Get(id, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	snapshot, err := s.Snapshot(ctx, sel)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.SetSelection(id, sel, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// SessionExport serves a download for a session's current selection.
func (s *Service) SessionExport(ctx context.Context, id string, subset export.Subset) (*export.Download, error) {
	session, err := s.sessions.Get(id, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	return s.export(ctx, session.ID, session.Selection, subset)
}

// DeleteSession discards a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "session deleted",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", id,
	)
	return nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
