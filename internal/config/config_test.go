package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 300, cfg.Data.Points)
	assert.Equal(t, 2, cfg.Data.Features)
	assert.Equal(t, 20.0, cfg.Data.Scale)
	assert.Equal(t, -10.0, cfg.Data.Offset)
	assert.Equal(t, 100, cfg.Clustering.MaxIterations)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "clusterviz.yaml", `
server:
  addr: ":9090"
  codec: json
  shutdown_timeout: 3s
data:
  points: 50
clustering:
  seed: 42
  cache_ttl: 1m
log:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Server.Codec)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 50, cfg.Data.Points)
	assert.Equal(t, 2, cfg.Data.Features, "unset fields keep defaults")
	assert.Equal(t, int64(42), cfg.Clustering.Seed)
	assert.Equal(t, time.Minute, cfg.Clustering.CacheTTL)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "server: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "clusterviz.yaml", "server:\n  addr: \":9090\"\n")
	t.Setenv("CLUSTERVIZ_ADDR", ":7070")
	t.Setenv("CLUSTERVIZ_MAX_CONCURRENT_RUNS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, int64(2), cfg.Limits.MaxConcurrentRuns)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CLUSTERVIZ_POINTS":              "10",
		"CLUSTERVIZ_SCALE":               "2.5",
		"CLUSTERVIZ_GZIP":                "false",
		"CLUSTERVIZ_RUN_WAIT_TIMEOUT":    "250ms",
		"CLUSTERVIZ_SEED":                "-7",
		"CLUSTERVIZ_REQUESTS_PER_SECOND": "0",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, 10, cfg.Data.Points)
	assert.Equal(t, 2.5, cfg.Data.Scale)
	assert.False(t, cfg.Server.Gzip)
	assert.Equal(t, 250*time.Millisecond, cfg.Limits.RunWaitTimeout)
	assert.Equal(t, int64(-7), cfg.Clustering.Seed)
	assert.Equal(t, 0.0, cfg.Limits.RequestsPerSecond)
}

func TestApplyEnv_ParseErrors(t *testing.T) {
	env := map[string]string{
		"CLUSTERVIZ_POINTS":    "many",
		"CLUSTERVIZ_CACHE_TTL": "soon",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	err := cfg.ApplyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLUSTERVIZ_POINTS")
	assert.Contains(t, err.Error(), "CLUSTERVIZ_CACHE_TTL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"unknown codec", func(c *Config) { c.Server.Codec = "xml" }},
		{"no points", func(c *Config) { c.Data.Points = 0 }},
		{"zero scale", func(c *Config) { c.Data.Scale = 0 }},
		{"zero max iterations", func(c *Config) { c.Clustering.MaxIterations = 0 }},
		{"zero runs", func(c *Config) { c.Limits.MaxConcurrentRuns = 0 }},
		{"zero session capacity", func(c *Config) { c.Limits.SessionCapacityBytes = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "CLUSTERVIZ_LOG_LEVEL=warn\n")
	t.Setenv("CLUSTERVIZ_LOG_LEVEL", "")
	os.Unsetenv("CLUSTERVIZ_LOG_LEVEL")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "warn", os.Getenv("CLUSTERVIZ_LOG_LEVEL"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
