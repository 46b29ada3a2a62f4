package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 1000, cfg.Analysis.SampleCap)
	assert.Equal(t, 10, cfg.Analysis.MinSampleSize)
	assert.Equal(t, 0.5, cfg.Analysis.MinMatchRatio)
	assert.Equal(t, 3, cfg.Analysis.MinIntersection)
	assert.Equal(t, 8, cfg.Analysis.MaxConcurrent)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "public", cfg.Database.Schema)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("ANALYSIS_SAMPLE_CAP", "250")
	t.Setenv("ANALYSIS_MAX_CONCURRENT", "2")
	t.Setenv("PGPASSWORD", "secret")

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Analysis.SampleCap)
	assert.Equal(t, 2, cfg.Analysis.MaxConcurrent)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero sample cap", "ANALYSIS_SAMPLE_CAP", "0"},
		{"zero min sample", "ANALYSIS_MIN_SAMPLE_SIZE", "0"},
		{"match ratio above one", "ANALYSIS_MIN_MATCH_RATIO", "1.5"},
		{"zero concurrency", "ANALYSIS_MAX_CONCURRENT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("test")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "airlift",
		Password: "pw",
		Database: "imports",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=airlift password=pw dbname=imports sslmode=require",
		db.ConnectionString())
}
