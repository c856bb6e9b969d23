// Package optimizer runs the bounded local search that places the facility.
//
// The search domain is the axis-aligned bounding box of the demand sites: the
// unconstrained optimum of a sum of demand-weighted distances lies inside the
// convex hull of the sites, and the box is a cheap superset of it. When
// feasibility constraints push the true optimum outside the box the search
// will not find it; that is an accepted property of the bounding strategy,
// not a solver defect.
package optimizer

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/greenprism/siteopt/internal/model"
)

// outOfBoxCost bounds the search: iterates outside the site bounding box are
// priced like infeasible points, so the line search never accepts them.
const outOfBoxCost = 1e9

var (
	// ErrNoSites is returned when the run has nothing to optimize.
	ErrNoSites = eris.New("optimizer: no demand sites")
	// ErrInfeasibleRegion is returned when no point of the search box passes
	// the feasibility predicate. Not retried automatically.
	ErrInfeasibleRegion = eris.New("optimizer: no feasible point in the search box")
	// ErrNotConverged is returned when the numeric method stops without
	// improving on the starting point. Callers may retry with different
	// input; the process is not affected.
	ErrNotConverged = eris.New("optimizer: search did not converge")
)

// Objective prices candidate locations. cost.Calculator implements it.
type Objective interface {
	Total(p model.Coordinate) float64
	Feasible(p model.Coordinate) bool
}

// Settings control the bounded local search. The zero value is unusable; use
// DefaultSettings and override fields from configuration.
type Settings struct {
	// Method selects the gonum minimizer: "lbfgs" (quasi-Newton with a
	// central-difference numeric gradient) or "neldermead".
	Method string `yaml:"method" mapstructure:"method"`
	// MaxIterations caps the solver's major iterations.
	MaxIterations int `yaml:"max_iterations" mapstructure:"max_iterations"`
	// GradientTolerance is the convergence threshold on the gradient norm.
	GradientTolerance float64 `yaml:"gradient_tolerance" mapstructure:"gradient_tolerance"`
	// SeedGridSize is the per-axis resolution of the fallback scan used to
	// repair an infeasible centroid seed.
	SeedGridSize int `yaml:"seed_grid_size" mapstructure:"seed_grid_size"`
}

// DefaultSettings returns the solver defaults.
func DefaultSettings() Settings {
	return Settings{
		Method:            "lbfgs",
		MaxIterations:     200,
		GradientTolerance: 1e-8,
		SeedGridSize:      24,
	}
}

// Run minimizes the objective over the bounding box of sites, seeded at
// their centroid, and returns the best feasible location found.
func Run(ctx context.Context, sites []model.DemandSite, obj Objective, s Settings) (*model.OptimizationResult, error) {
	started := time.Now()
	log := zap.L().With(zap.String("component", "optimizer"))

	if len(sites) == 0 {
		return nil, ErrNoSites
	}

	box := model.BBoxFromSites(sites)
	seed := model.Centroid(sites)

	// A single site (or coincident sites) leaves no search freedom: the
	// collapsed box either is the answer or there is none.
	if box.Degenerate() {
		if !obj.Feasible(seed) {
			return nil, eris.Wrap(ErrInfeasibleRegion, "degenerate search box at an infeasible point")
		}
		return newResult(seed, sites, obj, 1, started), nil
	}

	if !obj.Feasible(seed) {
		repaired, err := scanForSeed(ctx, box, obj, s.SeedGridSize)
		if err != nil {
			return nil, err
		}
		log.Debug("centroid infeasible, seed repaired",
			zap.Float64("lng", repaired.Lng),
			zap.Float64("lat", repaired.Lat),
		)
		seed = repaired
	}

	// Track the cheapest feasible point across every evaluation so an early
	// solver stop still yields the best point seen.
	var (
		evals    int
		best     = seed
		bestCost = obj.Total(seed)
	)
	objFn := func(x []float64) float64 {
		evals++
		p := model.Coordinate{Lng: x[0], Lat: x[1]}
		if !box.Contains(p) {
			return outOfBoxCost
		}
		c := obj.Total(p)
		if c < bestCost && obj.Feasible(p) {
			best, bestCost = p, c
		}
		return c
	}

	problem := optimize.Problem{
		Func: objFn,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, objFn, x, &fd.Settings{Formula: fd.Central})
		},
	}

	var method optimize.Method
	switch strings.ToLower(s.Method) {
	case "neldermead":
		method = &optimize.NelderMead{}
	default:
		method = &optimize.LBFGS{}
	}

	settings := &optimize.Settings{
		GradientThreshold: s.GradientTolerance,
		MajorIterations:   s.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 20,
		},
	}

	seedCost := bestCost
	res, solveErr := optimize.Minimize(problem, []float64{seed.Lng, seed.Lat}, settings, method)
	if solveErr == nil {
		solveErr = res.Status.Err()
	}
	if solveErr != nil {
		if bestCost >= seedCost {
			return nil, eris.Wrapf(ErrNotConverged, "%v", solveErr)
		}
		// The method stopped early, typically a failed line search against
		// the penalty wall at a feasibility boundary. The best feasible
		// point seen is still a valid, improved answer.
		log.Warn("solver stopped early, keeping best feasible point",
			zap.Error(solveErr),
			zap.Float64("cost", bestCost),
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "optimizer: cancelled")
	}

	log.Info("search finished",
		zap.Float64("lng", best.Lng),
		zap.Float64("lat", best.Lat),
		zap.Float64("cost", bestCost),
		zap.Int("evaluations", evals),
	)

	return newResult(best, sites, obj, evals, started), nil
}

func newResult(p model.Coordinate, sites []model.DemandSite, obj Objective, evals int, started time.Time) *model.OptimizationResult {
	return &model.OptimizationResult{
		RunID:       uuid.New(),
		Location:    p,
		Sites:       append([]model.DemandSite(nil), sites...),
		TotalCost:   obj.Total(p),
		Evaluations: evals,
		StartedAt:   started,
		FinishedAt:  time.Now(),
	}
}

// scanForSeed walks a fixed coarse grid over the box and returns the cheapest
// feasible point. The grid is deterministic, so repeated runs repair the same
// seed. No feasible grid point means the box is treated as fully infeasible.
func scanForSeed(ctx context.Context, box model.BBox, obj Objective, gridSize int) (model.Coordinate, error) {
	if gridSize < 1 {
		gridSize = 1
	}

	var (
		best     model.Coordinate
		bestCost = math.Inf(1)
		found    bool
	)

	for _, lng := range axisSteps(box.MinLng, box.MaxLng, gridSize) {
		if err := ctx.Err(); err != nil {
			return model.Coordinate{}, eris.Wrap(err, "optimizer: seed scan cancelled")
		}
		for _, lat := range axisSteps(box.MinLat, box.MaxLat, gridSize) {
			p := model.Coordinate{Lng: lng, Lat: lat}
			if !obj.Feasible(p) {
				continue
			}
			if c := obj.Total(p); c < bestCost {
				best, bestCost = p, c
				found = true
			}
		}
	}

	if !found {
		return model.Coordinate{}, ErrInfeasibleRegion
	}
	return best, nil
}

// axisSteps splits [lo, hi] into n even intervals, endpoints included. A
// collapsed axis contributes its single value.
func axisSteps(lo, hi float64, n int) []float64 {
	if hi == lo {
		return []float64{lo}
	}
	steps := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		steps = append(steps, lo+(hi-lo)*float64(i)/float64(n))
	}
	return steps
}
