package noise

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
	"github.com/pkg/errors"
)

// Backend names accepted by NewField3 and NewField2
const (
	BackendSimplex     = "simplex"
	BackendOpenSimplex = "opensimplex"
	BackendValue       = "value"
	BackendPerlin      = "perlin"
)

// Field3Backends lists the backends NewField3 understands
var Field3Backends = []string{BackendSimplex, BackendOpenSimplex}

// Field2Backends lists the backends NewField2 understands
var Field2Backends = []string{BackendValue, BackendPerlin}

// NewField3 creates a 3D noise field for the named backend
func NewField3(backend string, seed int64) (Field3, error) {
	switch backend {
	case BackendSimplex, "":
		return NewSimplex(seed), nil
	case BackendOpenSimplex:
		return &openSimplexField{noise: opensimplex.New(seed)}, nil
	default:
		return nil, errors.Errorf("unknown 3D noise backend %q", backend)
	}
}

// NewField2 creates a planar noise field for the named backend
func NewField2(backend string, seed int64) (Field2, error) {
	switch backend {
	case BackendValue, "":
		return NewValueNoise2D(seed), nil
	case BackendPerlin:
		// alpha 2, beta 2, a single octave: octaves are layered by the caller
		return &perlinField{noise: perlin.NewPerlin(2, 2, 1, seed)}, nil
	default:
		return nil, errors.Errorf("unknown 2D noise backend %q", backend)
	}
}

// openSimplexField adapts opensimplex-go to Field3
type openSimplexField struct {
	noise opensimplex.Noise
}

// Eval3 samples the OpenSimplex field
func (f *openSimplexField) Eval3(x, y, z float64) float64 {
	if !finite(x) || !finite(y) || !finite(z) {
		return 0
	}
	return clamp(f.noise.Eval3(x, y, z), -1, 1)
}

// perlinField adapts go-perlin to Field2
type perlinField struct {
	noise *perlin.Perlin
}

// Eval2 samples the Perlin field. go-perlin returns roughly [-0.7, 0.7] for a
// single octave, so the result is stretched and clamped to [-1, 1].
func (f *perlinField) Eval2(x, z float64) float64 {
	if !finite(x) || !finite(z) {
		return 0
	}
	return clamp(f.noise.Noise2D(x, z)*math.Sqrt2, -1, 1)
}

// clamp restricts v to [lo, hi]; NaN becomes 0
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
