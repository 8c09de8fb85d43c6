// Package web serves the game catalog as server-rendered HTML with an
// infinite-scrolling grid, plus a small JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/logging"
)

//go:embed assets
var assets embed.FS

// Reference provides the lists offered as query filters.
type Reference interface {
	Genres(ctx context.Context) ([]game.Genre, error)
	ParentPlatforms(ctx context.Context) ([]game.Platform, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	Cache     *catalog.Cache
	Views     *catalog.Views
	Reference Reference
	DB        Pinger // optional, checked by /health

	// FirstPageWait bounds how long the page shell waits for the first
	// page before rendering skeletons.
	FirstPageWait time.Duration
	// FragmentWait bounds how long grid fragments wait for a request in
	// flight.
	FragmentWait time.Duration
}

// Server handles HTTP requests.
type Server struct {
	cache *catalog.Cache
	views *catalog.Views
	ref   Reference
	db    Pinger

	firstPageWait time.Duration
	fragmentWait  time.Duration

	tmpl *template.Template
	mux  *http.ServeMux
	log  *slog.Logger
}

// NewServer creates a new web server.
func NewServer(opts Options) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cache:         opts.Cache,
		views:         opts.Views,
		ref:           opts.Reference,
		db:            opts.DB,
		firstPageWait: opts.FirstPageWait,
		fragmentWait:  opts.FragmentWait,
		tmpl:          tmpl,
		mux:           http.NewServeMux(),
		log:           logging.With("component", "web"),
	}
	if s.firstPageWait <= 0 {
		s.firstPageWait = 2 * time.Second
	}
	if s.fragmentWait <= 0 {
		s.fragmentWait = 10 * time.Second
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler returns the server wrapped with tracing and access logging.
func (s *Server) Handler() http.Handler {
	logged := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(s.mux, w, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
		)
	})
	return otelhttp.NewHandler(logged, "gamehub.web")
}

func (s *Server) setupRoutes() error {
	static, err := fs.Sub(assets, "assets/static")
	if err != nil {
		return err
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /grid", s.handleGrid)
	s.mux.HandleFunc("GET /grid/next", s.handleGridNext)
	s.mux.HandleFunc("POST /grid/retry", s.handleGridRetry)
	s.mux.HandleFunc("GET /games/{slug}", s.handleGame)
	s.mux.HandleFunc("GET /api/games", s.handleAPIGames)
	s.mux.HandleFunc("GET /api/games/{id}/trailer", s.handleAPITrailer)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := http.StatusOK
	dbOK := true

	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			dbOK = false
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, statusCode, map[string]any{
		"status": status,
		"db":     dbOK,
		"views":  s.views.Len(),
		"feeds":  s.cache.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
