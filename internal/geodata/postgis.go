package geodata

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"

	"github.com/greenprism/siteopt/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the PostGIS provider. pgxmock
// satisfies it in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgisConfig names the geometry tables to read layers from. Each table
// must carry a geometry(..., 4326) column named geom; reprojection happens in
// the database, not here.
type PostgisConfig struct {
	AllowedTable   string `yaml:"allowed_table" mapstructure:"allowed_table"`
	ExcludedTable  string `yaml:"excluded_table" mapstructure:"excluded_table"`
	SensitiveTable string `yaml:"sensitive_table" mapstructure:"sensitive_table"`
}

// tableIdent matches a plain or schema-qualified identifier. Table names come
// from configuration and are interpolated into SQL, so anything else is
// rejected before a query is built.
var tableIdent = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

func validateTable(table string) error {
	if !tableIdent.MatchString(table) {
		return eris.Errorf("geodata: invalid table name %q", table)
	}
	return nil
}

// LoadFromPostgis assembles a Geometry by reading every layer once from
// PostGIS tables. The geometries arrive as WKB already in the shared frame.
func LoadFromPostgis(ctx context.Context, pool Pool, cfg PostgisConfig, bufferDistance float64) (*Geometry, error) {
	allowed, err := queryPolygons(ctx, pool, cfg.AllowedTable)
	if err != nil {
		return nil, eris.Wrapf(ErrGeometryLoad, "%v", err)
	}
	if allowed.NumPolygons() == 0 {
		return nil, eris.Wrapf(ErrGeometryLoad, "table %s yielded no polygons", cfg.AllowedTable)
	}

	excluded := geom.NewMultiPolygon(geom.XY).SetSRID(srid)
	if cfg.ExcludedTable != "" {
		excluded, err = queryPolygons(ctx, pool, cfg.ExcludedTable)
		if err != nil {
			return nil, eris.Wrapf(ErrGeometryLoad, "%v", err)
		}
	}

	var sensitive []model.Coordinate
	if cfg.SensitiveTable != "" {
		sensitive, err = queryPoints(ctx, pool, cfg.SensitiveTable)
		if err != nil {
			return nil, eris.Wrapf(ErrGeometryLoad, "%v", err)
		}
	}

	return &Geometry{
		Allowed:         allowed,
		Excluded:        excluded,
		SensitivePoints: sensitive,
		BufferDistance:  bufferDistance,
	}, nil
}

func queryPolygons(ctx context.Context, pool Pool, table string) (*geom.MultiPolygon, error) {
	rows, err := queryGeoms(ctx, pool, table)
	if err != nil {
		return nil, err
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(srid)
	for _, g := range rows {
		switch t := g.(type) {
		case *geom.Polygon:
			if err := mp.Push(t); err != nil {
				return nil, eris.Wrapf(err, "geodata: merge polygon from %s", table)
			}
		case *geom.MultiPolygon:
			if err := appendPolygons(mp, t); err != nil {
				return nil, err
			}
		}
	}
	return mp, nil
}

func queryPoints(ctx context.Context, pool Pool, table string) ([]model.Coordinate, error) {
	rows, err := queryGeoms(ctx, pool, table)
	if err != nil {
		return nil, err
	}

	var pts []model.Coordinate
	for _, g := range rows {
		switch t := g.(type) {
		case *geom.Point:
			c := t.Coords()
			pts = append(pts, model.Coordinate{Lng: c[0], Lat: c[1]})
		case *geom.MultiPoint:
			for i := 0; i < t.NumPoints(); i++ {
				c := t.Point(i).Coords()
				pts = append(pts, model.Coordinate{Lng: c[0], Lat: c[1]})
			}
		}
	}
	return pts, nil
}

func queryGeoms(ctx context.Context, pool Pool, table string) ([]geom.T, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(`SELECT ST_AsBinary(geom) FROM %s`, table)
	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: query %s", table)
	}
	defer rows.Close()

	var geoms []geom.T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrapf(err, "geodata: scan %s", table)
		}
		g, err := wkb.Unmarshal(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "geodata: decode WKB from %s", table)
		}
		geoms = append(geoms, g)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "geodata: iterate %s", table)
	}

	return geoms, nil
}
