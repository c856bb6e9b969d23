package main

import (
	"context"

	"github.com/greenprism/siteopt/internal/db"
	"github.com/greenprism/siteopt/internal/geodata"
)

// loadGeometry assembles the exclusion geometry from whichever source the
// config selects.
func loadGeometry(ctx context.Context) (*geodata.Geometry, error) {
	switch cfg.Geometry.Source {
	case "postgis":
		pool, err := db.Connect(ctx, cfg.Geometry.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return geodata.LoadFromPostgis(ctx, pool, cfg.Geometry.Postgis, cfg.Geometry.BufferDistance)
	default:
		return geodata.LoadFromFiles(ctx, cfg.Geometry.Files, cfg.Geometry.BufferDistance)
	}
}
