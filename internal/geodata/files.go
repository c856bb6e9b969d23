package geodata

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greenprism/siteopt/internal/model"
)

// FileConfig points the file provider at local layer files.
type FileConfig struct {
	BoundaryShapefile string   `yaml:"boundary_shapefile" mapstructure:"boundary_shapefile"`
	BoundaryNameField string   `yaml:"boundary_name_field" mapstructure:"boundary_name_field"`
	BoundaryName      string   `yaml:"boundary_name" mapstructure:"boundary_name"`
	ExclusionLayers   []string `yaml:"exclusion_layers" mapstructure:"exclusion_layers"`
	SensitiveLayer    string   `yaml:"sensitive_layer" mapstructure:"sensitive_layer"`
}

// LoadFromFiles assembles a Geometry from local layer files. The boundary,
// exclusion, and sensitive layers load concurrently; any failure aborts the
// whole load with ErrGeometryLoad, leaving no partial state behind.
func LoadFromFiles(ctx context.Context, cfg FileConfig, bufferDistance float64) (*Geometry, error) {
	log := zap.L().With(zap.String("component", "geodata.files"))

	var (
		allowed   *geom.MultiPolygon
		excluded  *geom.MultiPolygon
		sensitive []model.Coordinate
	)

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		mp, err := LoadBoundary(cfg.BoundaryShapefile, cfg.BoundaryNameField, cfg.BoundaryName)
		if err != nil {
			return err
		}
		allowed = mp
		return nil
	})

	g.Go(func() error {
		mp := geom.NewMultiPolygon(geom.XY).SetSRID(srid)
		for _, path := range cfg.ExclusionLayers {
			layer, err := loadPolygonFile(path)
			if err != nil {
				return err
			}
			if err := appendPolygons(mp, layer); err != nil {
				return err
			}
		}
		excluded = mp
		return nil
	})

	g.Go(func() error {
		if cfg.SensitiveLayer == "" {
			return nil
		}
		pts, err := LoadGeoJSONPoints(cfg.SensitiveLayer)
		if err != nil {
			return err
		}
		sensitive = pts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, eris.Wrapf(ErrGeometryLoad, "%v", err)
	}

	if allowed.NumPolygons() == 0 {
		return nil, eris.Wrapf(ErrGeometryLoad, "boundary %q yielded no polygons", cfg.BoundaryName)
	}

	log.Info("geometry loaded",
		zap.Int("allowed_polygons", allowed.NumPolygons()),
		zap.Int("excluded_polygons", excluded.NumPolygons()),
		zap.Int("sensitive_points", len(sensitive)),
		zap.Float64("buffer_distance", bufferDistance),
	)

	return &Geometry{
		Allowed:         allowed,
		Excluded:        excluded,
		SensitivePoints: sensitive,
		BufferDistance:  bufferDistance,
	}, nil
}

// loadPolygonFile dispatches on file extension: shapefile or GeoJSON.
func loadPolygonFile(path string) (*geom.MultiPolygon, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return LoadPolygonLayer(path)
	case ".geojson", ".json":
		return LoadGeoJSONPolygons(path)
	default:
		return nil, eris.Errorf("geodata: unsupported layer format %s", path)
	}
}
