// Package model defines the plain data types shared across the siting pipeline.
package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Coordinate is a lng/lat pair in the shared planar reference frame.
// All geometry layers are normalized to the same frame at load time; no
// projection correction is applied afterwards, so distances are straight-line
// in coordinate units.
type Coordinate struct {
	Lng float64 `json:"lng" yaml:"lng"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// DistanceTo returns the euclidean distance to other in coordinate units.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	dx := c.Lng - other.Lng
	dy := c.Lat - other.Lat
	return math.Sqrt(dx*dx + dy*dy)
}

// DemandSite is one waste source that the facility must serve.
// Immutable once constructed; a new run gets a fresh slice.
type DemandSite struct {
	Name       string     `json:"name" yaml:"name"`
	Location   Coordinate `json:"location" yaml:"location"`
	DailyWaste float64    `json:"daily_waste" yaml:"daily_waste"` // tons/day, non-negative
}

// BBox is an axis-aligned geographic bounding box.
type BBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// BBoxFromSites returns the tightest box enclosing every site location.
// An empty slice yields the zero box; callers validate input first.
func BBoxFromSites(sites []DemandSite) BBox {
	if len(sites) == 0 {
		return BBox{}
	}
	b := BBox{
		MinLng: sites[0].Location.Lng, MaxLng: sites[0].Location.Lng,
		MinLat: sites[0].Location.Lat, MaxLat: sites[0].Location.Lat,
	}
	for _, s := range sites[1:] {
		b.MinLng = math.Min(b.MinLng, s.Location.Lng)
		b.MaxLng = math.Max(b.MaxLng, s.Location.Lng)
		b.MinLat = math.Min(b.MinLat, s.Location.Lat)
		b.MaxLat = math.Max(b.MaxLat, s.Location.Lat)
	}
	return b
}

// Contains reports whether c lies inside the box, boundary inclusive.
func (b BBox) Contains(c Coordinate) bool {
	return c.Lng >= b.MinLng && c.Lng <= b.MaxLng &&
		c.Lat >= b.MinLat && c.Lat <= b.MaxLat
}

// Degenerate reports whether the box has collapsed to a single point.
func (b BBox) Degenerate() bool {
	return b.MinLng == b.MaxLng && b.MinLat == b.MaxLat
}

// Center returns the midpoint of the box.
func (b BBox) Center() Coordinate {
	return Coordinate{Lng: (b.MinLng + b.MaxLng) / 2, Lat: (b.MinLat + b.MaxLat) / 2}
}

// Centroid returns the arithmetic mean of all site locations, the seed for
// the local search. An empty slice yields the zero coordinate.
func Centroid(sites []DemandSite) Coordinate {
	if len(sites) == 0 {
		return Coordinate{}
	}
	var sumLng, sumLat float64
	for _, s := range sites {
		sumLng += s.Location.Lng
		sumLat += s.Location.Lat
	}
	n := float64(len(sites))
	return Coordinate{Lng: sumLng / n, Lat: sumLat / n}
}

// OptimizationResult is the outcome of one siting run. Each run produces a
// fresh result that supersedes the previous one; results are never merged.
type OptimizationResult struct {
	RunID       uuid.UUID    `json:"run_id"`
	Location    Coordinate   `json:"location"`
	Sites       []DemandSite `json:"sites"`
	TotalCost   float64      `json:"total_cost"`
	Evaluations int          `json:"evaluations"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
}
