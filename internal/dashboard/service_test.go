package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"penguinlens/internal/audit"
	"penguinlens/internal/dataset"
	"penguinlens/internal/dataset/datasettest"
	"penguinlens/internal/export"
	"penguinlens/internal/filter"
	"penguinlens/internal/platform/metrics"
	dErrors "penguinlens/pkg/domain-errors"
	"penguinlens/pkg/requestcontext"
	"penguinlens/pkg/testutil"
)

type staticLoader struct {
	ds  *dataset.Dataset
	err error
}

func (l staticLoader) Load(context.Context) (*dataset.Dataset, error) {
	return l.ds, l.err
}

type capturePublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *capturePublisher) Emit(_ context.Context, e audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return errors.New("sink unavailable")
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	metrics   *metrics.Metrics
	publisher *capturePublisher
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithRequestID(context.Background(), "req-1")
	s.ctx = requestcontext.WithTime(s.ctx, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.publisher = &capturePublisher{}
	s.service = s.newService(datasettest.Sample(), export.NewMemoryCache(16))
}

func (s *ServiceSuite) newService(ds *dataset.Dataset, cache export.Cache) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	exporterOpts := []export.Option{export.WithLogger(logger), export.WithMetrics(s.metrics)}
	if cache != nil {
		exporterOpts = append(exporterOpts, export.WithCache(cache))
	}
	return NewService(staticLoader{ds: ds},
		WithLogger(logger),
		WithMetrics(s.metrics),
		WithExporter(export.NewExporter(exporterOpts...)),
		WithPublisher(s.publisher),
	)
}

func (s *ServiceSuite) TestOptions() {
	opts, err := s.service.Options(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Adelie", "Chinstrap", "Gentoo"}, opts.Species)
	s.Equal([]string{"Torgersen", "Biscoe", "Dream"}, opts.Islands)
	s.Equal(17, opts.Records)
	s.Equal(4, opts.Excluded)
}

func (s *ServiceSuite) TestSnapshot() {
	s.Run("default selection covers the dataset", func() {
		sel, err := s.service.DefaultSelection(s.ctx)
		s.Require().NoError(err)

		snap, err := s.service.Snapshot(s.ctx, sel)
		s.Require().NoError(err)
		s.Equal(17, snap.FilteredCount)
		s.Equal(8, snap.Summary.Male)
		s.Equal(9, snap.Summary.Female)
		s.Equal(17, snap.Summary.Total)
		s.Equal(17, snap.Grouped.Total())
		s.Len(snap.Charts, 3)
		s.Require().Len(snap.Exports, 2)
		s.Equal("male_penguins.csv", snap.Exports[0].Filename)
		s.Equal(8, snap.Exports[0].Rows)
		s.Equal(9, snap.Exports[1].Rows)
	})

	s.Run("one species across all islands", func() {
		service := s.newService(datasettest.Scenario(), nil)
		snap, err := service.Snapshot(s.ctx, filter.NewSelection([]string{"Adelie"}, []string{"Torgersen", "Dream"}))
		s.Require().NoError(err)

		s.Equal(6, snap.FilteredCount)
		s.Equal(6, snap.Summary.Male+snap.Summary.Female)
		s.Equal([]string{"Adelie"}, snap.Grouped.Species)
		s.Len(snap.Grouped.Counts, 1)
		s.Equal(6, snap.Grouped.Get("Adelie").Total())
	})

	s.Run("empty species set selects nothing", func() {
		snap, err := s.service.Snapshot(s.ctx, filter.NewSelection(nil, []string{"Dream"}))
		s.Require().NoError(err)
		s.Equal(0, snap.FilteredCount)
		s.Equal(0, snap.Summary.Total)
		s.Empty(snap.Grouped.Species)
	})

	s.Run("zero selection renders empty lists", func() {
		snap, err := s.service.Snapshot(s.ctx, filter.Selection{})
		s.Require().NoError(err)

		raw, err := json.Marshal(snap)
		s.Require().NoError(err)
		var body struct {
			Selection map[string]json.RawMessage `json:"selection"`
		}
		s.Require().NoError(json.Unmarshal(raw, &body))
		s.JSONEq(`[]`, string(body.Selection["species"]))
		s.JSONEq(`[]`, string(body.Selection["islands"]))
	})

	s.Run("unknown value is a validation error", func() {
		_, err := s.service.Snapshot(s.ctx, filter.NewSelection([]string{"Emperor"}, []string{"Dream"}))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unexpected sex values are dropped and counted", func() {
		ds := dataset.New([]dataset.Record{
			datasettest.Rec("Adelie", "Dream", "Male"),
			datasettest.Rec("Adelie", "Dream", "."),
		}, 0)
		service := s.newService(ds, nil)
		before := promtest.ToFloat64(s.metrics.UnexpectedSexValues)

		snap, err := service.Snapshot(s.ctx, filter.Default(ds))
		s.Require().NoError(err)
		s.Equal(2, snap.FilteredCount)
		s.Equal(1, snap.Summary.Total)
		s.Equal(1, snap.Dropped)
		s.Equal(before+1, promtest.ToFloat64(s.metrics.UnexpectedSexValues))
	})
}

func (s *ServiceSuite) TestSnapshotUnavailableDataset() {
	service := NewService(staticLoader{err: dErrors.New(dErrors.CodeUnavailable, "dataset could not be loaded")})
	_, err := service.Snapshot(s.ctx, filter.NewSelection([]string{"Adelie"}, nil))
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	_, err = service.Options(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ServiceSuite) TestExport() {
	sel := filter.NewSelection([]string{"Gentoo"}, []string{"Biscoe"})
	cached := s.service
	ctx := s.ctx

	testutil.Given(s.T(), "a cached and an uncached service over the same data", func(t *testing.T) {
		uncached := s.newService(datasettest.Sample(), nil)

		testutil.When(t, "the female subset is exported twice", func(t *testing.T) {
			first, err := cached.Export(ctx, sel, export.SubsetFemale)
			require.NoError(t, err)
			second, err := cached.Export(ctx, sel, export.SubsetFemale)
			require.NoError(t, err)
			plain, err := uncached.Export(ctx, sel, export.SubsetFemale)
			require.NoError(t, err)

			testutil.Then(t, "every download carries identical bytes", func(t *testing.T) {
				assert.Equal(t, first.Body, second.Body)
				assert.Equal(t, first.Body, plain.Body)
				assert.Equal(t, 2, first.Rows)
				assert.Equal(t, "female_penguins.csv", first.Filename)
				assert.Equal(t, "text/csv", first.ContentType)
				assert.Equal(t, 1.0, promtest.ToFloat64(s.metrics.ExportCacheHits))
			})

			testutil.Then(t, "the body holds only female Gentoo rows", func(t *testing.T) {
				parsed, err := export.Parse(first.Body)
				require.NoError(t, err)
				require.Len(t, parsed, 2)
				for _, r := range parsed {
					assert.Equal(t, "Female", r.Sex)
					assert.Equal(t, "Gentoo", r.Species)
				}
			})

			testutil.And(t, "editing a returned body leaves the cached export intact", func(t *testing.T) {
				want := string(second.Body)
				second.Body[0] = 'X'
				third, err := cached.Export(ctx, sel, export.SubsetFemale)
				require.NoError(t, err)
				assert.Equal(t, want, string(third.Body))
			})
		})
	})
}

func (s *ServiceSuite) TestExportEmptyViewIsHeaderOnly() {
	d, err := s.service.Export(s.ctx, filter.NewSelection(nil, nil), export.SubsetMale)
	s.Require().NoError(err)
	s.Equal(0, d.Rows)
	s.Equal(string(export.Encode(nil)), string(d.Body))
}

func (s *ServiceSuite) TestExportEmitsDownloadEvent() {
	ctx := requestcontext.WithUserAgent(s.ctx, "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
	sel := filter.NewSelection([]string{"Chinstrap"}, []string{"Dream"})

	// The publisher fails; the download must still succeed.
	d, err := s.service.Export(ctx, sel, export.SubsetMale)
	s.Require().NoError(err)
	s.Equal(2, d.Rows)

	s.Require().Len(s.publisher.events, 1)
	event := s.publisher.events[0]
	s.Equal(audit.ActionExportDownloaded, event.Action)
	s.Equal("male", event.Sex)
	s.Equal(2, event.Rows)
	s.Equal("Firefox", event.Client)
	s.Equal("req-1", event.RequestID)
	s.Empty(event.SessionID)
	s.True(event.Selection.Equal(sel))
}

func (s *ServiceSuite) TestSessions() {
	idA, snapA, err := s.service.CreateSession(s.ctx)
	s.Require().NoError(err)
	idB, _, err := s.service.CreateSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(17, snapA.FilteredCount)

	s.Run("filter updates are isolated per session", func() {
		snap, err := s.service.UpdateFilters(s.ctx, idA, filter.NewSelection([]string{"Gentoo"}, []string{"Biscoe"}))
		s.Require().NoError(err)
		s.Equal(3, snap.FilteredCount)

		other, err := s.service.SessionSnapshot(s.ctx, idB)
		s.Require().NoError(err)
		s.Equal(17, other.FilteredCount)

		again, err := s.service.SessionSnapshot(s.ctx, idA)
		s.Require().NoError(err)
		s.Equal(3, again.FilteredCount)
	})

	s.Run("invalid update leaves the session unchanged", func() {
		_, err := s.service.UpdateFilters(s.ctx, idA, filter.NewSelection([]string{"Emperor"}, nil))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		snap, err := s.service.SessionSnapshot(s.ctx, idA)
		s.Require().NoError(err)
		s.Equal(3, snap.FilteredCount)
	})

	s.Run("session export follows the session selection", func() {
		d, err := s.service.SessionExport(s.ctx, idA, export.SubsetMale)
		s.Require().NoError(err)
		s.Equal(1, d.Rows)
		last := s.publisher.events[len(s.publisher.events)-1]
		s.Equal(idA, last.SessionID)
	})

	s.Run("deleted sessions are gone", func() {
		s.Require().NoError(s.service.DeleteSession(s.ctx, idB))
		_, err := s.service.SessionSnapshot(s.ctx, idB)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.service.UpdateFilters(s.ctx, idB, filter.NewSelection(nil, nil))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
