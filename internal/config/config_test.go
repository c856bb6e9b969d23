package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "files", cfg.Geometry.Source)
	assert.InDelta(t, 0.0001, cfg.Geometry.BufferDistance, 1e-12)
	assert.Equal(t, "NAME", cfg.Geometry.Files.BoundaryNameField)
	assert.InDelta(t, 0.005, cfg.Cost.VehicleCapacity, 1e-12)
	assert.InDelta(t, 0.02, cfg.Cost.PerUnitDistance, 1e-12)
	assert.Equal(t, 1e9, cfg.Cost.InfeasiblePenalty)
	assert.Equal(t, "lbfgs", cfg.Optimizer.Method)
	assert.Equal(t, 200, cfg.Optimizer.MaxIterations)
	assert.Equal(t, 24, cfg.Optimizer.SeedGridSize)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.OptimizePerMinute)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	yaml := `
geometry:
  source: postgis
  buffer_distance: 0.05
  postgis:
    allowed_table: geo.boundary
optimizer:
  method: neldermead
server:
  port: 9090
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgis", cfg.Geometry.Source)
	assert.InDelta(t, 0.05, cfg.Geometry.BufferDistance, 1e-12)
	assert.Equal(t, "geo.boundary", cfg.Geometry.Postgis.AllowedTable)
	assert.Equal(t, "neldermead", cfg.Optimizer.Method)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, 200, cfg.Optimizer.MaxIterations)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.Error(t, InitLogger(LogConfig{Level: "not-a-level", Format: "json"}))
}
