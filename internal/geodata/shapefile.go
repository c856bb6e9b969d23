package geodata

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadBoundary reads polygon records from a shapefile and merges them into a
// single MultiPolygon. If nameField is non-empty, only records whose
// nameField attribute equals nameValue are kept; this is how a single country
// is cut out of a world boundaries file.
func LoadBoundary(shpPath, nameField, nameValue string) (*geom.MultiPolygon, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	if nameField != "" {
		nameIdx = fieldIndex(reader, nameField)
		if nameIdx < 0 {
			return nil, eris.Errorf("geodata: field %q not found in %s", nameField, shpPath)
		}
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(srid)
	var skipped int

	for reader.Next() {
		if nameIdx >= 0 {
			name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
			if name != nameValue {
				continue
			}
		}

		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		if err := appendShapePolygon(mp, poly); err != nil {
			skipped++
		}
	}

	if skipped > 0 {
		zap.L().Debug("geodata: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return mp, nil
}

// LoadPolygonLayer reads every polygon record from a shapefile into a
// MultiPolygon, with no attribute filter.
func LoadPolygonLayer(shpPath string) (*geom.MultiPolygon, error) {
	return LoadBoundary(shpPath, "", "")
}

// appendShapePolygon converts a shapefile polygon record and pushes each of
// its parts onto mp as a single-ring polygon.
func appendShapePolygon(mp *geom.MultiPolygon, p *shp.Polygon) error {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return eris.New("geodata: empty polygon record")
	}

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("geodata: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("geodata: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	return nil
}

// fieldIndex returns the index of the named attribute field, or -1.
// Shapefile field names are fixed-width and NUL padded.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		got := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(got, name) {
			return i
		}
	}
	return -1
}
