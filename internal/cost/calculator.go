// Package cost prices candidate facility locations. The objective is the sum
// over demand sites of (rate per unit distance) x (vehicle trips) x
// (straight-line distance), with a large finite penalty standing in for
// infeasible locations. The penalty keeps the objective total-ordered so a
// smooth local optimizer can search over it; it is a deliberate design
// choice, not a placeholder for constraint handling.
package cost

import (
	"math"

	"github.com/greenprism/siteopt/internal/model"
)

// tonsPerUnit converts daily waste in tons to the scaled transport unit
// (thousand tons) that the rate constants are expressed in.
const tonsPerUnit = 1000.0

// Params holds the transport cost rates, all in scaled units.
type Params struct {
	// VehicleCapacity is the load one trip can carry, in scaled units.
	VehicleCapacity float64 `yaml:"vehicle_capacity" mapstructure:"vehicle_capacity"`
	// PerUnitDistance is the haul rate per trip per unit of distance.
	PerUnitDistance float64 `yaml:"per_unit_distance" mapstructure:"per_unit_distance"`
	// InfeasiblePenalty is the sentinel cost of an infeasible location.
	InfeasiblePenalty float64 `yaml:"infeasible_penalty" mapstructure:"infeasible_penalty"`
}

// DefaultParams corresponds to 5-ton vehicles hauling at 20 currency units
// per km, both expressed in the scaled unit.
func DefaultParams() Params {
	return Params{
		VehicleCapacity:   5.0 / tonsPerUnit,
		PerUnitDistance:   20.0 / tonsPerUnit,
		InfeasiblePenalty: 1e9,
	}
}

// FeasibilityChecker reports whether a location may host the facility.
type FeasibilityChecker interface {
	Feasible(p model.Coordinate) bool
}

// SiteCost is one site's contribution to the total, for reporting.
type SiteCost struct {
	Name     string  `json:"name"`
	Trips    float64 `json:"trips"`
	Distance float64 `json:"distance"`
	Cost     float64 `json:"cost"`
}

// Calculator computes transport costs for a fixed site set against fixed
// geometry. It is pure and reentrant.
type Calculator struct {
	params Params
	check  FeasibilityChecker
	sites  []model.DemandSite
}

// NewCalculator creates a Calculator for one optimization run.
func NewCalculator(params Params, check FeasibilityChecker, sites []model.DemandSite) *Calculator {
	return &Calculator{params: params, check: check, sites: sites}
}

// Feasible exposes the underlying feasibility predicate.
func (c *Calculator) Feasible(p model.Coordinate) bool {
	return c.check.Feasible(p)
}

// Total returns the aggregate daily transport cost of serving every site
// from p, or the infeasible penalty when p cannot host the facility. The
// penalty does not depend on the site set.
func (c *Calculator) Total(p model.Coordinate) float64 {
	if !c.check.Feasible(p) {
		return c.params.InfeasiblePenalty
	}

	var total float64
	for _, s := range c.sites {
		total += c.siteCost(s, p)
	}
	return total
}

// PerSite breaks the cost of a feasible location down by site.
func (c *Calculator) PerSite(p model.Coordinate) []SiteCost {
	out := make([]SiteCost, 0, len(c.sites))
	for _, s := range c.sites {
		out = append(out, SiteCost{
			Name:     s.Name,
			Trips:    c.trips(s),
			Distance: s.Location.DistanceTo(p),
			Cost:     c.siteCost(s, p),
		})
	}
	return out
}

func (c *Calculator) trips(s model.DemandSite) float64 {
	q := s.DailyWaste / tonsPerUnit
	return math.Ceil(q / c.params.VehicleCapacity)
}

func (c *Calculator) siteCost(s model.DemandSite, p model.Coordinate) float64 {
	return c.params.PerUnitDistance * c.trips(s) * s.Location.DistanceTo(p)
}
