package server

import (
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/greenprism/siteopt/internal/cost"
	"github.com/greenprism/siteopt/internal/optimizer"
	"github.com/greenprism/siteopt/internal/report"
	"github.com/greenprism/siteopt/internal/sites"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAllowed(w http.ResponseWriter, _ *http.Request) {
	s.respondGeometry(w, s.geometry.Allowed)
}

func (s *Server) handleExcluded(w http.ResponseWriter, _ *http.Request) {
	s.respondGeometry(w, s.geometry.Excluded)
}

func (s *Server) respondGeometry(w http.ResponseWriter, g geom.T) {
	data, err := geojson.Marshal(g)
	if err != nil {
		respondError(w, http.StatusInternalServerError, eris.Wrap(err, "server: encode geometry"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleSensitive(w http.ResponseWriter, _ *http.Request) {
	fc := &geojson.FeatureCollection{}
	for _, p := range s.geometry.SensitivePoints {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{p.Lng, p.Lat}),
			Properties: map[string]interface{}{
				"buffer_distance": s.geometry.BufferDistance,
			},
		})
	}
	respondJSON(w, http.StatusOK, fc)
}

// optimizeRequest is the POST /api/optimize payload.
type optimizeRequest struct {
	Sites []sites.Record `json:"sites"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		respondError(w, http.StatusTooManyRequests, eris.New("server: optimize rate limit exceeded"))
		return
	}

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, eris.Wrap(err, "server: decode request"))
		return
	}

	demand, err := sites.FromRecords(req.Sites)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	calc := cost.NewCalculator(s.costParams, s.eval, demand)
	res, err := optimizer.Run(r.Context(), demand, calc, s.optSettings)
	if err != nil {
		// Per-run failures are reported to the caller for retry with
		// adjusted input; they are not server faults.
		if eris.Is(err, optimizer.ErrInfeasibleRegion) || eris.Is(err, optimizer.ErrNotConverged) {
			respondError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.log.Error("optimize failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	s.setLatest(res)
	s.log.Info("optimization run complete",
		zap.String("run_id", res.RunID.String()),
		zap.Float64("lng", res.Location.Lng),
		zap.Float64("lat", res.Location.Lat),
		zap.Float64("total_cost", res.TotalCost),
	)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleResult(w http.ResponseWriter, _ *http.Request) {
	res := s.Latest()
	if res == nil {
		respondError(w, http.StatusNotFound, eris.New("server: no optimization run yet"))
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleResultGeoJSON(w http.ResponseWriter, _ *http.Request) {
	res := s.Latest()
	if res == nil {
		respondError(w, http.StatusNotFound, eris.New("server: no optimization run yet"))
		return
	}
	respondJSON(w, http.StatusOK, report.FeatureCollection(res))
}
