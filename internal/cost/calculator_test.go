package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenprism/siteopt/internal/model"
)

// feasibleAlways and feasibleNever stub the geometry predicate.
type feasibleAlways struct{}

func (feasibleAlways) Feasible(model.Coordinate) bool { return true }

type feasibleNever struct{}

func (feasibleNever) Feasible(model.Coordinate) bool { return false }

func testSites() []model.DemandSite {
	return []model.DemandSite{
		{Name: "Zone 1", Location: model.Coordinate{Lng: 80.0, Lat: 6.9}, DailyWaste: 2000},
		{Name: "Zone 2", Location: model.Coordinate{Lng: 80.2, Lat: 6.9}, DailyWaste: 2000},
	}
}

func TestTotal_Feasible(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(DefaultParams(), feasibleAlways{}, testSites())

	// 2000 tons -> 2 scaled units -> ceil(2/0.005) = 400 trips per site.
	// At the midpoint both distances are 0.1:
	// 2 * (20/1000 * 400 * 0.1) = 1.6
	got := calc.Total(model.Coordinate{Lng: 80.1, Lat: 6.9})
	assert.InDelta(t, 1.6, got, 1e-9)
}

func TestTotal_InfeasiblePenalty(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(DefaultParams(), feasibleNever{}, testSites())
	p := model.Coordinate{Lng: 80.1, Lat: 6.9}

	assert.Equal(t, 1e9, calc.Total(p))

	// Penalty is independent of the site set.
	empty := NewCalculator(DefaultParams(), feasibleNever{}, nil)
	assert.Equal(t, calc.Total(p), empty.Total(p))
}

func TestTotal_MonotonicInDistance(t *testing.T) {
	t.Parallel()

	site := []model.DemandSite{
		{Name: "only", Location: model.Coordinate{Lng: 80.0, Lat: 6.9}, DailyWaste: 1500},
	}
	calc := NewCalculator(DefaultParams(), feasibleAlways{}, site)

	near := calc.Total(model.Coordinate{Lng: 80.05, Lat: 6.9})
	far := calc.Total(model.Coordinate{Lng: 80.2, Lat: 6.9})
	atSite := calc.Total(model.Coordinate{Lng: 80.0, Lat: 6.9})

	assert.LessOrEqual(t, near, far)
	assert.Zero(t, atSite, "zero distance costs nothing")
}

func TestTrips_Ceiling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		waste     float64
		wantTrips float64
	}{
		{"exact multiple", 2000, 400},
		{"rounds up", 2001, 401},
		{"tiny load still needs one trip", 1, 1},
		{"zero waste needs no trips", 0, 0},
	}

	params := DefaultParams()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calc := NewCalculator(params, feasibleAlways{}, nil)
			s := model.DemandSite{Location: model.Coordinate{Lng: 80, Lat: 6.9}, DailyWaste: tt.waste}
			assert.Equal(t, tt.wantTrips, calc.trips(s))
		})
	}
}

func TestPerSite(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(DefaultParams(), feasibleAlways{}, testSites())
	rows := calc.PerSite(model.Coordinate{Lng: 80.1, Lat: 6.9})

	require.Len(t, rows, 2)
	assert.Equal(t, "Zone 1", rows[0].Name)
	assert.InDelta(t, 400, rows[0].Trips, 1e-9)
	assert.InDelta(t, 0.1, rows[0].Distance, 1e-9)
	assert.InDelta(t, 0.8, rows[0].Cost, 1e-9)

	var sum float64
	for _, r := range rows {
		sum += r.Cost
	}
	assert.InDelta(t, calc.Total(model.Coordinate{Lng: 80.1, Lat: 6.9}), sum, 1e-9)
}

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	assert.InDelta(t, 0.005, p.VehicleCapacity, 1e-12)
	assert.InDelta(t, 0.02, p.PerUnitDistance, 1e-12)
	assert.Equal(t, 1e9, p.InfeasiblePenalty)
}
