// Package geodata loads and assembles the geographic inputs to a siting run:
// the allowed country boundary, the merged exclusion layers, and the
// sensitive points with their buffer distance. Layers are loaded once,
// normalized to a single planar frame at the provider boundary, and never
// mutated afterwards, so a Geometry is safe for concurrent readers.
package geodata

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/greenprism/siteopt/internal/model"
)

// srid is the shared planar reference frame for every layer.
const srid = 4326

// ErrGeometryLoad marks a fatal geometry initialization failure. A run must
// not proceed without an allowed region, so callers abort startup instead of
// treating the whole plane as infeasible.
var ErrGeometryLoad = eris.New("geodata: geometry load failed")

// Geometry holds the immutable geographic inputs to a siting run.
//
// Excluded is the union of all exclusion layers, held as the collection of
// member polygons: point-in-union is equivalent to point-in-any-member, so
// the union is never materialized as a single boolean-op result. It may hold
// zero polygons when nothing is excluded.
type Geometry struct {
	Allowed         *geom.MultiPolygon
	Excluded        *geom.MultiPolygon
	SensitivePoints []model.Coordinate
	BufferDistance  float64
}

// appendPolygons copies every polygon of src into dst, normalized to XY.
func appendPolygons(dst, src *geom.MultiPolygon) error {
	if src == nil {
		return nil
	}
	for i := 0; i < src.NumPolygons(); i++ {
		if err := dst.Push(polygonXY(src.Polygon(i))); err != nil {
			return eris.Wrap(err, "geodata: merge polygon")
		}
	}
	return nil
}

// polygonXY rebuilds p with XY layout, dropping Z and M values. Source layers
// routinely carry a Z coordinate, and a layout mismatch would otherwise
// reject the polygon when merging into a shared MultiPolygon.
func polygonXY(p *geom.Polygon) *geom.Polygon {
	if p.Layout() == geom.XY {
		return p
	}

	stride := p.Layout().Stride()
	flat := p.FlatCoords()

	coords := make([]float64, 0, 2*len(flat)/stride)
	for i := 0; i+1 < len(flat); i += stride {
		coords = append(coords, flat[i], flat[i+1])
	}

	ends := make([]int, len(p.Ends()))
	for i, e := range p.Ends() {
		ends[i] = e / stride * 2
	}

	return geom.NewPolygonFlat(geom.XY, coords, ends)
}
