package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RecordsLoaded       prometheus.Gauge
	RecordsExcluded     prometheus.Gauge
	SnapshotsComputed   prometheus.Counter
	SnapshotDuration    prometheus.Histogram
	UnexpectedSexValues prometheus.Counter
	ExportCacheHits     prometheus.Counter
	ExportCacheMisses   prometheus.Counter
	ExportBytes         *prometheus.CounterVec
	SessionsActive      prometheus.Gauge
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the application metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RecordsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Name: "penguinlens_dataset_records",
			Help: "Number of records retained after cleaning the dataset",
		}),
		RecordsExcluded: f.NewGauge(prometheus.GaugeOpts{
			Name: "penguinlens_dataset_records_excluded",
			Help: "Number of source records dropped by cleaning because a tracked field was missing",
		}),
		SnapshotsComputed: f.NewCounter(prometheus.CounterOpts{
			Name: "penguinlens_snapshots_computed_total",
			Help: "Total number of dashboard snapshots recomputed",
		}),
		SnapshotDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "penguinlens_snapshot_duration_seconds",
			Help:    "Duration of filter, aggregate and chart recomputation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		UnexpectedSexValues: f.NewCounter(prometheus.CounterOpts{
			Name: "penguinlens_unexpected_sex_values_total",
			Help: "Records excluded from the sex partition because sex was neither Male nor Female",
		}),
		ExportCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "penguinlens_export_cache_hits_total",
			Help: "Exports served from the export cache",
		}),
		ExportCacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "penguinlens_export_cache_misses_total",
			Help: "Exports that had to be encoded",
		}),
		ExportBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "penguinlens_export_bytes_total",
			Help: "Bytes of CSV served per exported subset",
		}, []string{"sex"}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "penguinlens_sessions_active",
			Help: "Number of live dashboard sessions",
		}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "penguinlens_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// SetDatasetCounts records the outcome of the one-time dataset load.
func (m *Metrics) SetDatasetCounts(loaded, excluded int) {
	m.RecordsLoaded.Set(float64(loaded))
	m.RecordsExcluded.Set(float64(excluded))
}

// ObserveSnapshot records one recomputation. Call with time.Now() taken at
// the start of the computation.
func (m *Metrics) ObserveSnapshot(start time.Time) {
	m.SnapshotsComputed.Inc()
	m.SnapshotDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddUnexpectedSexValues(n int) {
	if n > 0 {
		m.UnexpectedSexValues.Add(float64(n))
	}
}

func (m *Metrics) IncrementExportCacheHit() {
	m.ExportCacheHits.Inc()
}

func (m *Metrics) IncrementExportCacheMiss() {
	m.ExportCacheMisses.Inc()
}

func (m *Metrics) AddExportBytes(sex string, n int) {
	m.ExportBytes.WithLabelValues(sex).Add(float64(n))
}

func (m *Metrics) SetSessionsActive(n int) {
	m.SessionsActive.Set(float64(n))
}

// ObserveHTTPRequest records a finished request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
