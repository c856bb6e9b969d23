package geodata

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

func polygonWKB(t *testing.T, minX, minY, maxX, maxY float64) []byte {
	t.Helper()
	poly := geom.NewPolygonFlat(geom.XY, []float64{
		minX, minY, maxX, minY, maxX, maxY, minX, maxY, minX, minY,
	}, []int{10})
	data, err := wkb.Marshal(poly, wkb.NDR)
	require.NoError(t, err)
	return data
}

func pointWKB(t *testing.T, x, y float64) []byte {
	t.Helper()
	data, err := wkb.Marshal(geom.NewPointFlat(geom.XY, []float64{x, y}), wkb.NDR)
	require.NoError(t, err)
	return data
}

func TestLoadFromPostgis(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mock.ExpectQuery(`SELECT ST_AsBinary\(geom\) FROM geo\.boundary`).
		WillReturnRows(pgxmock.NewRows([]string{"st_asbinary"}).
			AddRow(polygonWKB(t, 79, 6, 82, 10)))
	mock.ExpectQuery(`SELECT ST_AsBinary\(geom\) FROM geo\.exclusions`).
		WillReturnRows(pgxmock.NewRows([]string{"st_asbinary"}).
			AddRow(polygonWKB(t, 80, 7, 80.4, 7.4)))
	mock.ExpectQuery(`SELECT ST_AsBinary\(geom\) FROM geo\.sensitive`).
		WillReturnRows(pgxmock.NewRows([]string{"st_asbinary"}).
			AddRow(pointWKB(t, 80.1, 6.95)).
			AddRow(pointWKB(t, 80.2, 7.0)))

	cfg := PostgisConfig{
		AllowedTable:   "geo.boundary",
		ExcludedTable:  "geo.exclusions",
		SensitiveTable: "geo.sensitive",
	}

	g, err := LoadFromPostgis(context.Background(), mock, cfg, 0.0001)
	require.NoError(t, err)

	assert.Equal(t, 1, g.Allowed.NumPolygons())
	assert.Equal(t, 1, g.Excluded.NumPolygons())
	require.Len(t, g.SensitivePoints, 2)
	assert.InDelta(t, 80.1, g.SensitivePoints[0].Lng, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFromPostgis_EmptyAllowed(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mock.ExpectQuery(`SELECT ST_AsBinary\(geom\) FROM geo\.boundary`).
		WillReturnRows(pgxmock.NewRows([]string{"st_asbinary"}))

	cfg := PostgisConfig{AllowedTable: "geo.boundary"}
	_, err = LoadFromPostgis(context.Background(), mock, cfg, 0.0001)
	require.ErrorIs(t, err, ErrGeometryLoad)
}

func TestValidateTable(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateTable("geo.boundary"))
	assert.NoError(t, validateTable("boundary"))
	assert.Error(t, validateTable("geo.boundary; DROP TABLE x"))
	assert.Error(t, validateTable(""))
	assert.Error(t, validateTable("geo.boundary.extra"))
}
