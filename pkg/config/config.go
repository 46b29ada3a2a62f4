package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for airlift.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Secrets (passwords) must
// only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Analysis holds relationship inference engine tuning.
	Analysis AnalysisConfig `yaml:"analysis"`

	// Database holds destination PostgreSQL configuration.
	Database DatabaseConfig `yaml:"database"`
}

// AnalysisConfig holds relationship inference engine settings.
//
// The auto-suggest confidence cutoff (0.70) is part of the stable output
// contract and deliberately not configurable here.
type AnalysisConfig struct {
	// SampleCap bounds per-field value samples, preventing unbounded memory
	// growth on large imports.
	SampleCap int `yaml:"sample_cap" env:"ANALYSIS_SAMPLE_CAP" env-default:"1000"`
	// MinSampleSize is the observation count below which candidates are
	// dropped instead of scored.
	MinSampleSize int `yaml:"min_sample_size" env:"ANALYSIS_MIN_SAMPLE_SIZE" env-default:"10"`
	// MinMatchRatio is the smallest source-value overlap ratio the detector
	// will propose a candidate for.
	MinMatchRatio float64 `yaml:"min_match_ratio" env:"ANALYSIS_MIN_MATCH_RATIO" env-default:"0.5"`
	// MinIntersection is the smallest absolute value-set intersection the
	// detector will propose a candidate for.
	MinIntersection int `yaml:"min_intersection" env:"ANALYSIS_MIN_INTERSECTION" env-default:"3"`
	// MaxConcurrent bounds fan-out for per-table and per-candidate work.
	MaxConcurrent int `yaml:"max_concurrent" env:"ANALYSIS_MAX_CONCURRENT" env-default:"8"`
}

// DatabaseConfig holds destination PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"airlift"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"airlift"`
	Schema         string `yaml:"schema" env:"PGSCHEMA" env-default:"public"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is not an error; defaults and environment
// variables apply. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate rejects settings the engine cannot run with.
func (c *Config) validate() error {
	if c.Analysis.SampleCap < 1 {
		return fmt.Errorf("analysis.sample_cap must be positive, got %d", c.Analysis.SampleCap)
	}
	if c.Analysis.MinSampleSize < 1 {
		return fmt.Errorf("analysis.min_sample_size must be positive, got %d", c.Analysis.MinSampleSize)
	}
	if c.Analysis.MinMatchRatio < 0 || c.Analysis.MinMatchRatio > 1 {
		return fmt.Errorf("analysis.min_match_ratio must be in [0,1], got %g", c.Analysis.MinMatchRatio)
	}
	if c.Analysis.MaxConcurrent < 1 {
		return fmt.Errorf("analysis.max_concurrent must be positive, got %d", c.Analysis.MaxConcurrent)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
