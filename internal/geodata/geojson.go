package geodata

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/greenprism/siteopt/internal/model"
)

// LoadGeoJSONPolygons reads a GeoJSON feature collection and merges every
// Polygon and MultiPolygon geometry into one MultiPolygon. Non-areal
// geometries contribute nothing to a containment test and are skipped.
func LoadGeoJSONPolygons(path string) (*geom.MultiPolygon, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(srid)
	var skipped int

	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case *geom.Polygon:
			if err := mp.Push(polygonXY(g)); err != nil {
				skipped++
			}
		case *geom.MultiPolygon:
			if err := appendPolygons(mp, g); err != nil {
				skipped++
			}
		default:
			skipped++
		}
	}

	if skipped > 0 {
		zap.L().Debug("geodata: skipped non-areal geojson features",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return mp, nil
}

// LoadGeoJSONPoints reads a GeoJSON feature collection and collects Point and
// MultiPoint coordinates in file order.
func LoadGeoJSONPoints(path string) ([]model.Coordinate, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	var pts []model.Coordinate
	var skipped int

	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case *geom.Point:
			c := g.Coords()
			pts = append(pts, model.Coordinate{Lng: c[0], Lat: c[1]})
		case *geom.MultiPoint:
			for i := 0; i < g.NumPoints(); i++ {
				c := g.Point(i).Coords()
				pts = append(pts, model.Coordinate{Lng: c[0], Lat: c[1]})
			}
		default:
			skipped++
		}
	}

	if skipped > 0 {
		zap.L().Debug("geodata: skipped non-point geojson features",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return pts, nil
}

func readFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: read geojson %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "geodata: parse geojson %s", path)
	}
	return &fc, nil
}
