package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenprism/siteopt/internal/cost"
	"github.com/greenprism/siteopt/internal/model"
)

type feasibleAlways struct{}

func (feasibleAlways) Feasible(model.Coordinate) bool { return true }

func testResult() *model.OptimizationResult {
	return &model.OptimizationResult{
		RunID:    uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479"),
		Location: model.Coordinate{Lng: 80.1, Lat: 6.9},
		Sites: []model.DemandSite{
			{Name: "Zone 1", Location: model.Coordinate{Lng: 80.0, Lat: 6.9}, DailyWaste: 2000},
			{Name: "Zone 2", Location: model.Coordinate{Lng: 80.2, Lat: 6.9}, DailyWaste: 2000},
		},
		TotalCost:   1.6,
		Evaluations: 42,
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	res := testResult()
	calc := cost.NewCalculator(cost.DefaultParams(), feasibleAlways{}, res.Sites)

	out := Summary(res, calc)
	assert.Contains(t, out, "80.100000")
	assert.Contains(t, out, "6.900000")
	assert.Contains(t, out, "Zone 1")
	assert.Contains(t, out, "Zone 2")
	assert.Contains(t, out, "f47ac10b")
}

func TestSummary_NoCalculator(t *testing.T) {
	t.Parallel()

	out := Summary(testResult(), nil)
	assert.Contains(t, out, "80.100000")
	assert.NotContains(t, out, "breakdown")
}

func TestFeatureCollection(t *testing.T) {
	t.Parallel()

	fc := FeatureCollection(testResult())
	require.Len(t, fc.Features, 3, "two sites plus the facility")

	last := fc.Features[2]
	assert.Equal(t, "facility", last.Properties["role"])
	assert.Equal(t, 1.6, last.Properties["total_cost"])
}

func TestWriteGeoJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "result.geojson")
	require.NoError(t, WriteGeoJSON(path, testResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	assert.Len(t, doc["features"], 3)
}
