package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/clusterviz/codec"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CLUSTERVIZ_"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the complete server configuration.
type Config struct {
	Server     Server     `yaml:"server"`
	Data       Data       `yaml:"data"`
	Clustering Clustering `yaml:"clustering"`
	Limits     Limits     `yaml:"limits"`
	Log        Log        `yaml:"log"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Codec           string        `yaml:"codec"`
	Gzip            bool          `yaml:"gzip"`
}

// Data configures generated point clouds.
type Data struct {
	Points   int     `yaml:"points"`
	Features int     `yaml:"features"`
	Scale    float64 `yaml:"scale"`
	Offset   float64 `yaml:"offset"`
}

// Clustering configures runs.
type Clustering struct {
	MaxIterations int `yaml:"max_iterations"`
	// Seed fixes the random source when non-zero.
	Seed int64 `yaml:"seed"`
	// CacheTTL is how long results of manual runs are kept. Zero disables caching.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Limits configures admission control.
type Limits struct {
	MaxConcurrentRuns    int64         `yaml:"max_concurrent_runs"`
	RunWaitTimeout       time.Duration `yaml:"run_wait_timeout"`
	RequestsPerSecond    float64       `yaml:"requests_per_second"`
	Burst                int           `yaml:"burst"`
	MemoryLimitBytes     int64         `yaml:"memory_limit_bytes"`
	SessionCapacityBytes int64         `yaml:"session_capacity_bytes"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Codec:           "go-json",
			Gzip:            true,
		},
		Data: Data{
			Points:   300,
			Features: 2,
			Scale:    20,
			Offset:   -10,
		},
		Clustering: Clustering{
			MaxIterations: 100,
			CacheTTL:      5 * time.Minute,
		},
		Limits: Limits{
			MaxConcurrentRuns:    8,
			RunWaitTimeout:       2 * time.Second,
			RequestsPerSecond:    50,
			Burst:                100,
			MemoryLimitBytes:     256 << 20,
			SessionCapacityBytes: 64 << 20,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from CLUSTERVIZ_* variables found via lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	parse := func(name string, set func(string) error) {
		if v, ok := lookup(EnvPrefix + name); ok {
			if err := set(strings.TrimSpace(v)); err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, name, v, err))
			}
		}
	}
	integer := func(name string, dst *int) {
		parse(name, func(v string) (err error) { *dst, err = strconv.Atoi(v); return })
	}
	int64v := func(name string, dst *int64) {
		parse(name, func(v string) (err error) { *dst, err = strconv.ParseInt(v, 10, 64); return })
	}
	float := func(name string, dst *float64) {
		parse(name, func(v string) (err error) { *dst, err = strconv.ParseFloat(v, 64); return })
	}
	duration := func(name string, dst *time.Duration) {
		parse(name, func(v string) (err error) { *dst, err = time.ParseDuration(v); return })
	}
	boolean := func(name string, dst *bool) {
		parse(name, func(v string) (err error) { *dst, err = strconv.ParseBool(v); return })
	}

	str("ADDR", &c.Server.Addr)
	duration("READ_TIMEOUT", &c.Server.ReadTimeout)
	duration("WRITE_TIMEOUT", &c.Server.WriteTimeout)
	duration("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	str("CODEC", &c.Server.Codec)
	boolean("GZIP", &c.Server.Gzip)

	integer("POINTS", &c.Data.Points)
	integer("FEATURES", &c.Data.Features)
	float("SCALE", &c.Data.Scale)
	float("OFFSET", &c.Data.Offset)

	integer("MAX_ITERATIONS", &c.Clustering.MaxIterations)
	int64v("SEED", &c.Clustering.Seed)
	duration("CACHE_TTL", &c.Clustering.CacheTTL)

	int64v("MAX_CONCURRENT_RUNS", &c.Limits.MaxConcurrentRuns)
	duration("RUN_WAIT_TIMEOUT", &c.Limits.RunWaitTimeout)
	float("REQUESTS_PER_SECOND", &c.Limits.RequestsPerSecond)
	integer("BURST", &c.Limits.Burst)
	int64v("MEMORY_LIMIT_BYTES", &c.Limits.MemoryLimitBytes)
	int64v("SESSION_CAPACITY_BYTES", &c.Limits.SessionCapacityBytes)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	return errors.Join(errs...)
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Server.Addr != "", "server.addr is empty")
	check(c.Server.ShutdownTimeout >= 0, "server.shutdown_timeout must not be negative")
	_, ok := codec.ByName(c.Server.Codec)
	check(ok, "server.codec %q is not one of %v", c.Server.Codec, codec.Names())

	check(c.Data.Points >= 1, "data.points must be >= 1, got %d", c.Data.Points)
	check(c.Data.Features >= 1, "data.features must be >= 1, got %d", c.Data.Features)
	check(c.Data.Scale > 0, "data.scale must be > 0, got %g", c.Data.Scale)

	check(c.Clustering.MaxIterations >= 1, "clustering.max_iterations must be >= 1, got %d", c.Clustering.MaxIterations)
	check(c.Clustering.CacheTTL >= 0, "clustering.cache_ttl must not be negative")

	check(c.Limits.MaxConcurrentRuns >= 1, "limits.max_concurrent_runs must be >= 1, got %d", c.Limits.MaxConcurrentRuns)
	check(c.Limits.RunWaitTimeout >= 0, "limits.run_wait_timeout must not be negative")
	check(c.Limits.RequestsPerSecond >= 0, "limits.requests_per_second must not be negative")
	check(c.Limits.Burst >= 0, "limits.burst must not be negative")
	check(c.Limits.MemoryLimitBytes >= 0, "limits.memory_limit_bytes must not be negative")
	check(c.Limits.SessionCapacityBytes > 0, "limits.session_capacity_bytes must be > 0")

	_, err := c.Log.SlogLevel()
	check(err == nil, "log.level %q is unknown", c.Log.Level)
	check(c.Log.Format == "json" || c.Log.Format == "text", "log.format must be json or text, got %q", c.Log.Format)

	return errors.Join(errs...)
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}
