package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"penguinlens/internal/dashboard"
	"penguinlens/internal/export"
	"penguinlens/internal/filter"
	"penguinlens/internal/platform/metrics"
	"penguinlens/internal/platform/middleware"
	dErrors "penguinlens/pkg/domain-errors"
	"penguinlens/pkg/platform/httputil"
	"penguinlens/pkg/platform/middleware/metadata"
	"penguinlens/pkg/platform/middleware/requesttime"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service

// Service defines the dashboard operations served over HTTP.
type Service interface {
	Options(ctx context.Context) (*dashboard.Options, error)
	DefaultSelection(ctx context.Context) (filter.Selection, error)
	Snapshot(ctx context.Context, sel filter.Selection) (*dashboard.Snapshot, error)
	Export(ctx context.Context, sel filter.Selection, subset export.Subset) (*export.Download, error)
	CreateSession(ctx context.Context) (string, *dashboard.Snapshot, error)
	SessionSnapshot(ctx context.Context, id string) (*dashboard.Snapshot, error)
	UpdateFilters(ctx context.Context, id string, sel filter.Selection) (*dashboard.Snapshot, error)
	SessionExport(ctx context.Context, id string, subset export.Subset) (*export.Download, error)
	DeleteSession(ctx context.Context, id string) error
}

// Handler serves the dashboard API.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a dashboard Handler. metrics may be nil.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts the /api routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Recovery(h.logger))
		api.Use(middleware.RequestID)
		api.Use(requesttime.Middleware)
		api.Use(metadata.ClientMetadata)
		api.Use(middleware.Logger(h.logger))
		api.Use(middleware.Timeout(30 * time.Second))
		api.Use(middleware.LatencyMiddleware(h.metrics))

		api.Get("/options", h.handleOptions)
		api.Get("/dashboard", h.handleDashboard)
		api.Get("/exports/{sex}", h.handleExport)

		api.Post("/sessions", h.handleCreateSession)
		api.Route("/sessions/{id}", func(s chi.Router) {
			s.Get("/", h.handleGetSession)
			s.Put("/filters", h.handleUpdateFilters)
			s.Get("/exports/{sex}", h.handleSessionExport)
			s.Delete("/", h.handleDeleteSession)
		})
	})
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := h.service.Options(ctx)
	if err != nil {
		h.writeError(ctx, w, err, "failed to load options")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, opts)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sel, err := h.selectionFromQuery(ctx, r)
	if err != nil {
		h.writeError(ctx, w, err, "failed to resolve selection")
		return
	}
	snapshot, err := h.service.Snapshot(ctx, sel)
	if err != nil {
		h.writeError(ctx, w, err, "failed to compute dashboard")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, withStatelessLinks(snapshot))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subset, err := export.ParseSubset(chi.URLParam(r, "sex"))
	if err != nil {
		h.writeError(ctx, w, err, "unknown export")
		return
	}
	sel, err := h.selectionFromQuery(ctx, r)
	if err != nil {
		h.writeError(ctx, w, err, "failed to resolve selection")
		return
	}
	download, err := h.service.Export(ctx, sel, subset)
	if err != nil {
		h.writeError(ctx, w, err, "failed to export")
		return
	}
	writeDownload(w, download)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, snapshot, err := h.service.CreateSession(ctx)
	if err != nil {
		h.writeError(ctx, w, err, "failed to create session")
		return
	}
	w.Header().Set("Location", "/api/sessions/"+id)
	httputil.WriteJSON(w, http.StatusCreated, &SessionResponse{
		SessionID: id,
		Dashboard: withSessionLinks(snapshot, id),
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.sessionID(ctx, w, r)
	if !ok {
		return
	}
	snapshot, err := h.service.SessionSnapshot(ctx, id)
	if err != nil {
		h.writeError(ctx, w, err, "failed to compute dashboard")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, withSessionLinks(snapshot, id))
}

func (h *Handler) handleUpdateFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id, ok := h.sessionID(ctx, w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateFiltersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	snapshot, err := h.service.UpdateFilters(ctx, id, req.Selection())
	if err != nil {
		h.writeError(ctx, w, err, "failed to update filters")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, withSessionLinks(snapshot, id))
}

func (h *Handler) handleSessionExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.sessionID(ctx, w, r)
	if !ok {
		return
	}
	subset, err := export.ParseSubset(chi.URLParam(r, "sex"))
	if err != nil {
		h.writeError(ctx, w, err, "unknown export")
		return
	}
	download, err := h.service.SessionExport(ctx, id, subset)
	if err != nil {
		h.writeError(ctx, w, err, "failed to export")
		return
	}
	writeDownload(w, download)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.sessionID(ctx, w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteSession(ctx, id); err != nil {
		h.writeError(ctx, w, err, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionID rejects path IDs that could never name a session.
func (h *Handler) sessionID(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	if _, err := uuid.Parse(raw); err != nil {
		h.writeError(ctx, w, dErrors.New(dErrors.CodeNotFound, "session not found"), "invalid session id")
		return "", false
	}
	return raw, true
}

// selectionFromQuery reads repeated species and island parameters. An
// absent parameter selects every value of that dimension.
func (h *Handler) selectionFromQuery(ctx context.Context, r *http.Request) (filter.Selection, error) {
	q := r.URL.Query()
	species, hasSpecies := q[QuerySpecies]
	islands, hasIslands := q[QueryIsland]
	if hasSpecies && hasIslands {
		return filter.NewSelection(species, islands), nil
	}

	def, err := h.service.DefaultSelection(ctx)
	if err != nil {
		return filter.Selection{}, err
	}
	if !hasSpecies {
		species = def.Species
	}
	if !hasIslands {
		islands = def.Islands
	}
	return filter.NewSelection(species, islands), nil
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	requestID := middleware.GetRequestID(ctx)
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"code", de.Code,
			"error", err,
		)
	} else {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func writeDownload(w http.ResponseWriter, d *export.Download) {
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+d.Filename+`"`)
	w.Header().Set("X-Export-Rows", strconv.Itoa(d.Rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Body)
}
