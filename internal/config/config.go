// Package config loads application configuration from config.yaml and the
// environment, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/greenprism/siteopt/internal/cost"
	"github.com/greenprism/siteopt/internal/geodata"
	"github.com/greenprism/siteopt/internal/optimizer"
)

// Config holds the full application configuration.
type Config struct {
	Geometry  GeometryConfig     `yaml:"geometry" mapstructure:"geometry"`
	Cost      cost.Params        `yaml:"cost" mapstructure:"cost"`
	Optimizer optimizer.Settings `yaml:"optimizer" mapstructure:"optimizer"`
	Server    ServerConfig       `yaml:"server" mapstructure:"server"`
	Log       LogConfig          `yaml:"log" mapstructure:"log"`
}

// GeometryConfig selects and configures the geometry provider.
type GeometryConfig struct {
	// Source is "files" or "postgis".
	Source         string                `yaml:"source" mapstructure:"source"`
	BufferDistance float64               `yaml:"buffer_distance" mapstructure:"buffer_distance"`
	Files          geodata.FileConfig    `yaml:"files" mapstructure:"files"`
	DatabaseURL    string                `yaml:"database_url" mapstructure:"database_url"`
	Postgis        geodata.PostgisConfig `yaml:"postgis" mapstructure:"postgis"`
}

// ServerConfig configures the map-data server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
	// OptimizePerMinute rate-limits the optimize endpoint; a run is CPU-bound.
	OptimizePerMinute int `yaml:"optimize_per_minute" mapstructure:"optimize_per_minute"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITEOPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("geometry.source", "files")
	v.SetDefault("geometry.buffer_distance", 0.0001)
	v.SetDefault("geometry.files.boundary_name_field", "NAME")
	v.SetDefault("cost.vehicle_capacity", 5.0/1000)
	v.SetDefault("cost.per_unit_distance", 20.0/1000)
	v.SetDefault("cost.infeasible_penalty", 1e9)
	v.SetDefault("optimizer.method", "lbfgs")
	v.SetDefault("optimizer.max_iterations", 200)
	v.SetDefault("optimizer.gradient_tolerance", 1e-8)
	v.SetDefault("optimizer.seed_grid_size", 24)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.optimize_per_minute", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
