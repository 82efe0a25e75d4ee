package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 25*time.Second, cfg.Overpass.ClientTimeout())
	assert.Equal(t, 2000, cfg.Discovery.DefaultRadius)
	assert.Equal(t, 10000, cfg.Discovery.MaxRadius)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestValidateRejectsInvertedRadii(t *testing.T) {
	cfg := Default()
	cfg.Discovery.MaxRadius = 1000
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveDriftTolerance(t *testing.T) {
	for _, drift := range []float64{0, -0.1} {
		cfg := Default()
		cfg.Cache.DriftToleranceKm = drift
		assert.Error(t, cfg.Validate(), "drift %v", drift)
	}

	cfg := Default()
	cfg.Cache.DriftToleranceKm = 0.05
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsZeroDriftFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CACHE_DRIFT_TOLERANCE_KM", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DriftToleranceKm")
}

func TestLoadLayersFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := []byte("discovery:\n  default_radius: 1500\ncache:\n  ttl: 2m\n")
	require.NoError(t, os.WriteFile(path, yamlBody, 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OVERPASS_MAX_RESULTS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1500, cfg.Discovery.DefaultRadius)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Overpass.MaxResults)
	assert.Equal(t, ":8080", cfg.Server.Port)
}

func TestEnvTransformIgnoresUnknownKeys(t *testing.T) {
	assert.Equal(t, "", envTransformFunc("HOME"))
	assert.Equal(t, "cache.ttl", envTransformFunc("CACHE_TTL"))
}
