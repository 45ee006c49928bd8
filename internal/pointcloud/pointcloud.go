package pointcloud

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Defaults for Generate.
const (
	DefaultPoints   = 300
	DefaultFeatures = 2
	DefaultScale    = 20.0
	DefaultOffset   = -10.0
)

// ErrInvalidConfig is returned for non-positive sizes or scale.
var ErrInvalidConfig = errors.New("pointcloud: invalid config")

// Config describes a uniform cloud: every coordinate is drawn from
// [Offset, Offset+Scale).
type Config struct {
	Points   int
	Features int
	Scale    float64
	Offset   float64
}

// DefaultConfig returns 300 two-dimensional points in [-10, 10).
func DefaultConfig() Config {
	return Config{
		Points:   DefaultPoints,
		Features: DefaultFeatures,
		Scale:    DefaultScale,
		Offset:   DefaultOffset,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	switch {
	case c.Points < 1:
		return fmt.Errorf("%w: points must be >= 1, got %d", ErrInvalidConfig, c.Points)
	case c.Features < 1:
		return fmt.Errorf("%w: features must be >= 1, got %d", ErrInvalidConfig, c.Features)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale must be > 0, got %g", ErrInvalidConfig, c.Scale)
	}
	return nil
}

// Bounds is an axis-aligned box, one entry per feature.
type Bounds struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// Domain returns the half-open box the generator samples from.
func (c Config) Domain() Bounds {
	b := Bounds{Min: make([]float64, c.Features), Max: make([]float64, c.Features)}
	for j := range c.Features {
		b.Min[j] = c.Offset
		b.Max[j] = c.Offset + c.Scale
	}
	return b
}

// Cloud is a generated dataset with the box it was drawn from.
type Cloud struct {
	Points [][]float64
	Domain Bounds
}

// Generate draws a uniform cloud. All rows share one backing array.
func Generate(rng *rand.Rand, cfg Config) (*Cloud, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	flat := make([]float64, cfg.Points*cfg.Features)
	for i := range flat {
		flat[i] = rng.Float64()
	}
	floats.Scale(cfg.Scale, flat)
	floats.AddConst(cfg.Offset, flat)

	points := make([][]float64, cfg.Points)
	for i := range points {
		points[i] = flat[i*cfg.Features : (i+1)*cfg.Features : (i+1)*cfg.Features]
	}
	return &Cloud{Points: points, Domain: cfg.Domain()}, nil
}

// Extent returns the tight bounding box of data, or zero Bounds if data is empty.
func Extent(data [][]float64) Bounds {
	if len(data) == 0 {
		return Bounds{}
	}
	d := len(data[0])
	b := Bounds{Min: make([]float64, d), Max: make([]float64, d)}
	col := make([]float64, len(data))
	for j := range d {
		for i, p := range data {
			col[i] = p[j]
		}
		b.Min[j] = floats.Min(col)
		b.Max[j] = floats.Max(col)
	}
	return b
}
