package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/campus-tree-forest/internal/domain"
	"github.com/couchcryptid/campus-tree-forest/internal/observability"
	"github.com/couchcryptid/campus-tree-forest/internal/render"
	"github.com/couchcryptid/campus-tree-forest/internal/viz"
)

// UnknownGenus is the path segment that addresses the aggregate of records
// with no genus, since a route wildcard cannot match an empty segment.
const UnknownGenus = "_unknown"

// Forest is the loaded census as seen by the HTTP layer.
type Forest interface {
	CheckReadiness(ctx context.Context) error
	Dataset() *domain.Dataset
}

// Server exposes health, readiness, and metrics endpoints alongside the
// forest page, its SVG, and the JSON view API.
type Server struct {
	httpServer *http.Server
	forest     Forest
	opts       viz.Options
	cache      *renderCache
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, /,
// /forest.svg, /api/genera, and /api/genera/{genus} routes.
func NewServer(addr string, forest Forest, opts viz.Options, cacheSize int, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		forest:  forest,
		opts:    opts,
		cache:   newRenderCache(cacheSize),
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(forest))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /forest.svg", s.handleSVG)
	mux.HandleFunc("GET /api/genera", s.handleGenera)
	mux.HandleFunc("GET /api/genera/{genus}", s.handleGenus)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// generaResponse is the JSON body of GET /api/genera.
type generaResponse struct {
	Search   string     `json:"search"`
	Sort     string     `json:"sort"`
	Shown    int        `json:"shown"`
	Total    int        `json:"total"`
	Records  int        `json:"records"`
	LoadedAt time.Time  `json:"loaded_at"`
	Items    []viz.Item `json:"items"`
}

func (s *Server) handleGenera(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.ViewRequests.WithLabelValues("json", string(q.Sort)).Inc()

	ds := s.forest.Dataset()
	v := viz.Build(ds.Genera, q, s.opts)
	writeJSON(w, http.StatusOK, generaResponse{
		Search:   q.Search,
		Sort:     string(q.Sort),
		Shown:    len(v.Items),
		Total:    v.Total,
		Records:  ds.Records,
		LoadedAt: ds.LoadedAt,
		Items:    v.Items,
	})
}

func (s *Server) handleGenus(w http.ResponseWriter, r *http.Request) {
	genus := r.PathValue("genus")
	if genus == UnknownGenus {
		genus = ""
	}

	v := viz.Build(s.forest.Dataset().Genera, viz.Query{}, s.opts)
	var f viz.Focus
	f.Enter(genus)
	it, ok := f.Resolve(v)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("genus not found"))
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.ViewRequests.WithLabelValues("svg", string(q.Sort)).Inc()

	svg, _ := s.renderForest(q, r.URL.Query().Get("focus"))
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg) //nolint:errcheck // client disconnects are not actionable
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.metrics.ViewRequests.WithLabelValues("html", string(q.Sort)).Inc()

	svg, v := s.renderForest(q, r.URL.Query().Get("focus"))
	ds := s.forest.Dataset()

	var buf bytes.Buffer
	err = render.RenderPage(&buf, render.PageData{
		Search:  q.Search,
		Sort:    q.Sort,
		Shown:   len(v.Items),
		Total:   v.Total,
		Forest:  svg,
		LoadErr: ds.Err != nil,
	})
	if err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client disconnects are not actionable
}

// renderForest returns the SVG for q, from cache when possible, together
// with the view it was built from.
func (s *Server) renderForest(q viz.Query, focus string) ([]byte, viz.View) {
	ds := s.forest.Dataset()
	v := viz.Build(ds.Genera, q, s.opts)

	key := renderKey(ds.Generation(), q, focus)
	if svg, ok := s.cache.get(key); ok {
		s.metrics.RenderCache.WithLabelValues("hit").Inc()
		return svg, v
	}
	s.metrics.RenderCache.WithLabelValues("miss").Inc()

	var opts []render.SVGOption
	if focus != "" {
		var f viz.Focus
		f.Enter(focus)
		if it, ok := f.Resolve(v); ok {
			opts = append(opts, render.WithFocus(it))
		}
	}
	svg := render.RenderSVG(v, opts...)
	s.cache.put(key, svg)
	return svg, v
}

func parseQuery(r *http.Request) (viz.Query, error) {
	values := r.URL.Query()
	sort, err := viz.ParseSortKey(values.Get("sort"))
	if err != nil {
		return viz.Query{}, err
	}
	return viz.Query{Search: values.Get("search"), Sort: sort}, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
