package geodata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBoundaryShapefile creates a shapefile with two named square polygons.
func writeBoundaryShapefile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "boundary.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{shp.StringField("NAME", 25)})

	squares := []struct {
		name   string
		minX   float64
		minY   float64
		maxX   float64
		maxY   float64
	}{
		{"Testland", 79, 6, 82, 10},
		{"Elsewhere", 0, 0, 1, 1},
	}
	for i, s := range squares {
		poly := &shp.Polygon{
			NumParts:  1,
			NumPoints: 5,
			Parts:     []int32{0},
			Points: []shp.Point{
				{X: s.minX, Y: s.minY},
				{X: s.minX, Y: s.maxY},
				{X: s.maxX, Y: s.maxY},
				{X: s.maxX, Y: s.minY},
				{X: s.minX, Y: s.minY},
			},
		}
		w.Write(poly)
		require.NoError(t, w.WriteAttribute(i, 0, s.name))
	}
	w.Close()

	// go-shp's Writer drops the attribute sidecar at "<base>dbf" while the
	// Reader opens "<base>.dbf"; rename so LoadBoundary sees the fields.
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))

	return path
}

func TestLoadBoundary_NameFilter(t *testing.T) {
	t.Parallel()

	path := writeBoundaryShapefile(t)

	mp, err := LoadBoundary(path, "NAME", "Testland")
	require.NoError(t, err)
	require.Equal(t, 1, mp.NumPolygons())

	b := mp.Bounds()
	assert.InDelta(t, 79.0, b.Min(0), 1e-9)
	assert.InDelta(t, 82.0, b.Max(0), 1e-9)
	assert.InDelta(t, 6.0, b.Min(1), 1e-9)
	assert.InDelta(t, 10.0, b.Max(1), 1e-9)
}

func TestLoadBoundary_NoFilterKeepsAll(t *testing.T) {
	t.Parallel()

	path := writeBoundaryShapefile(t)

	mp, err := LoadPolygonLayer(path)
	require.NoError(t, err)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestLoadBoundary_UnknownField(t *testing.T) {
	t.Parallel()

	path := writeBoundaryShapefile(t)

	_, err := LoadBoundary(path, "NOPE", "Testland")
	require.Error(t, err)
}

func TestLoadBoundary_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadBoundary(filepath.Join(t.TempDir(), "missing.shp"), "", "")
	require.Error(t, err)
}
