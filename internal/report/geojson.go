package report

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/greenprism/siteopt/internal/model"
)

// FeatureCollection builds a GeoJSON collection with one point feature per
// demand site and one for the facility itself.
func FeatureCollection(res *model.OptimizationResult) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}

	for _, s := range res.Sites {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{s.Location.Lng, s.Location.Lat}),
			Properties: map[string]interface{}{
				"role":        "demand_site",
				"name":        s.Name,
				"daily_waste": s.DailyWaste,
			},
		})
	}

	fc.Features = append(fc.Features, &geojson.Feature{
		Geometry: geom.NewPointFlat(geom.XY, []float64{res.Location.Lng, res.Location.Lat}),
		Properties: map[string]interface{}{
			"role":       "facility",
			"run_id":     res.RunID.String(),
			"total_cost": res.TotalCost,
		},
	})

	return fc
}

// WriteGeoJSON writes the result's feature collection to path.
func WriteGeoJSON(path string, res *model.OptimizationResult) error {
	data, err := json.MarshalIndent(FeatureCollection(res), "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}
