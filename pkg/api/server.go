// Package api exposes the planner over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prm-planner/pkg/config"
	"prm-planner/pkg/export"
	"prm-planner/pkg/geometry"
	"prm-planner/pkg/metrics"
	"prm-planner/pkg/planner"
	"prm-planner/pkg/search"
)

const maxBodyBytes = 1 << 20

// Config configures the HTTP server.
type Config struct {
	Addr       string
	CORSOrigin string // value of Access-Control-Allow-Origin; empty disables CORS

	// Metrics and Gatherer default to the global Prometheus registry.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// PlanResponse is the default body returned by POST /plan.
type PlanResponse struct {
	RunID      string           `json:"runId"`
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Path       []int            `json:"path"`
	Waypoints  []geometry.Point `json:"waypoints"`
	Cost       float64          `json:"cost,omitempty"`
	NumNodes   int              `json:"numNodes"`
	NumEdges   int              `json:"numEdges"`
	Components int              `json:"components"`
	Expanded   int              `json:"expanded"`
	Seed       *int64           `json:"seed,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Server handles planning requests. The most recent result is kept for the
// visualisation endpoints; every plan builds a fresh roadmap.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu   sync.RWMutex
	last *export.Document
}

// New creates a Server.
func New(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Default()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{cfg: cfg, logger: logger, metrics: cfg.Metrics}
}

// NewServer returns an http.Server serving a new Server's routes on cfg.Addr.
func NewServer(cfg Config, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           New(cfg, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func ListenAndServe(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Handler returns the routes:
//
//	POST /plan            run the planner; ?format=geojson|document
//	GET  /roadmap         last result as a document; ?format=geojson
//	GET  /roadmap/lines   last roadmap edges as line segments
//	GET  /health          status
//	GET  /metrics         Prometheus metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /plan", s.instrument("/plan", s.planHandler))
	mux.Handle("GET /roadmap", s.instrument("/roadmap", s.roadmapHandler))
	mux.Handle("GET /roadmap/lines", s.instrument("/roadmap/lines", s.linesHandler))
	mux.Handle("GET /health", s.instrument("/health", s.healthHandler))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	return corsMiddleware(s.cfg.CORSOrigin, mux)
}

func (s *Server) planHandler(w http.ResponseWriter, r *http.Request) {
	f, err := config.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logger.Warn("invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	cfg, err := f.Planner()
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := planner.Plan(r.Context(), cfg, planner.WithLogger(s.logger), planner.WithMetrics(s.metrics))
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc := export.FromResult(res)
	s.mu.Lock()
	s.last = doc
	s.mu.Unlock()

	switch r.URL.Query().Get("format") {
	case "geojson":
		writeGeoJSON(w, doc)
	case "document":
		writeJSON(w, http.StatusOK, doc)
	default:
		writeJSON(w, http.StatusOK, newPlanResponse(res))
	}
}

func newPlanResponse(res *planner.Result) PlanResponse {
	resp := PlanResponse{
		RunID:      res.RunID.String(),
		Success:    res.Found,
		Path:       []int{},
		Waypoints:  []geometry.Point{},
		NumNodes:   res.Graph.NumNodes(),
		NumEdges:   res.Graph.NumEdges(),
		Components: res.Components.Count(),
		Expanded:   res.Path.Expanded,
		Seed:       res.Seed,
	}
	if res.Found {
		resp.Path = res.Path.Nodes
		resp.Waypoints = res.PathPoints()
		resp.Cost = res.Path.Cost
	} else {
		resp.Message = "No path found."
	}
	return resp
}

func (s *Server) roadmapHandler(w http.ResponseWriter, r *http.Request) {
	doc := s.lastDocument()
	if doc == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no roadmap built yet, call POST /plan first"})
		return
	}
	if r.URL.Query().Get("format") == "geojson" {
		writeGeoJSON(w, doc)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) linesHandler(w http.ResponseWriter, _ *http.Request) {
	doc := s.lastDocument()
	if doc == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no roadmap built yet, call POST /plan first"})
		return
	}

	lines := doc.LineStrings()
	writeJSON(w, http.StatusOK, map[string]any{
		"runId":    doc.RunID,
		"lines":    lines,
		"numNodes": len(doc.Nodes),
		"numEdges": len(lines),
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok"}
	if doc := s.lastDocument(); doc != nil {
		body["lastRunId"] = doc.RunID
		body["numNodes"] = len(doc.Nodes)
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) lastDocument() *export.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// writeError maps planner errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var cerr *planner.ConfigError
	switch {
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: cerr.Field})
	case errors.Is(err, planner.ErrInvalidConfig):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, search.ErrSearchAborted):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("planning request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeGeoJSON(w http.ResponseWriter, doc *export.Document) {
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(export.GeoJSON(doc))
}
