// Package server exposes the loaded geometry layers and optimization runs
// over HTTP as GeoJSON for a browser map. Geometry is read-only shared
// state; the latest result is the only mutable value, replaced wholesale on
// each run.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/greenprism/siteopt/internal/cost"
	"github.com/greenprism/siteopt/internal/feasibility"
	"github.com/greenprism/siteopt/internal/geodata"
	"github.com/greenprism/siteopt/internal/model"
	"github.com/greenprism/siteopt/internal/optimizer"
)

// Server holds the immutable geometry and the latest optimization result.
type Server struct {
	geometry    *geodata.Geometry
	eval        *feasibility.Evaluator
	costParams  cost.Params
	optSettings optimizer.Settings
	limiter     *rate.Limiter
	log         *zap.Logger

	mu     sync.RWMutex
	latest *model.OptimizationResult
}

// New creates a Server. optimizePerMinute caps how often the CPU-bound
// optimize endpoint may run; zero disables the limit.
func New(g *geodata.Geometry, costParams cost.Params, optSettings optimizer.Settings, optimizePerMinute int) *Server {
	var limiter *rate.Limiter
	if optimizePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(optimizePerMinute)), 1)
	}
	return &Server{
		geometry:    g,
		eval:        feasibility.New(g),
		costParams:  costParams,
		optSettings: optSettings,
		limiter:     limiter,
		log:         zap.L().With(zap.String("component", "server")),
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/geometry/allowed", s.handleAllowed)
		r.Get("/geometry/excluded", s.handleExcluded)
		r.Get("/geometry/sensitive", s.handleSensitive)
		r.Post("/optimize", s.handleOptimize)
		r.Get("/result", s.handleResult)
		r.Get("/result/geojson", s.handleResultGeoJSON)
	})

	return r
}

// Latest returns the most recent result, or nil.
func (s *Server) Latest() *model.OptimizationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Server) setLatest(res *model.OptimizationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = res
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": eris.ToString(err, false)})
}
