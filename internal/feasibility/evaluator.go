// Package feasibility decides whether a candidate location may host the
// facility. The predicate composes three geometric checks: inside the allowed
// region, outside the excluded region, and clear of every sensitive point by
// at least the buffer distance.
package feasibility

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/greenprism/siteopt/internal/geodata"
	"github.com/greenprism/siteopt/internal/model"
)

// Evaluator is a pure predicate over coordinates. It holds read-only
// references into the loaded Geometry and is safe for concurrent use.
type Evaluator struct {
	allowed   *geom.MultiPolygon
	excluded  *geom.MultiPolygon
	sensitive []model.Coordinate
	buffer    float64
}

// New builds an Evaluator over loaded geometry.
func New(g *geodata.Geometry) *Evaluator {
	return &Evaluator{
		allowed:   g.Allowed,
		excluded:  g.Excluded,
		sensitive: g.SensitivePoints,
		buffer:    g.BufferDistance,
	}
}

// Feasible reports whether p lies inside the allowed region, outside the
// excluded region, and at least the buffer distance from every sensitive
// point. The checks short-circuit in that order; this predicate runs on
// every objective evaluation during the search.
func (e *Evaluator) Feasible(p model.Coordinate) bool {
	if !containsPoint(e.allowed, p) {
		return false
	}
	if containsPoint(e.excluded, p) {
		return false
	}
	for _, s := range e.sensitive {
		// Exactly at the buffer distance is allowed; strictly inside is not.
		if p.DistanceTo(s) < e.buffer {
			return false
		}
	}
	return true
}

// containsPoint is a boundary-inclusive containment test against a
// multipolygon: inside any polygon's shell and not inside one of that
// polygon's holes. A nil or empty multipolygon contains nothing.
func containsPoint(mp *geom.MultiPolygon, p model.Coordinate) bool {
	if mp == nil {
		return false
	}
	c := geom.Coord{p.Lng, p.Lat}
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		if poly.NumLinearRings() == 0 {
			continue
		}
		if !xy.IsPointInRing(poly.Layout(), c, poly.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for r := 1; r < poly.NumLinearRings(); r++ {
			if xy.IsPointInRing(poly.Layout(), c, poly.LinearRing(r).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}
