package creature

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	noise "biomorph/internal/math"
	"biomorph/internal/util"
)

// octaveWeights blend the three noise octaves; they sum to 1
var octaveWeights = [3]float64{0.5, 0.3, 0.2}

// deformChunk is the vertex count below which Apply stays on one goroutine
const deformChunk = 2048

// Sampler turns a noise field into a smooth, flowing radial offset
type Sampler struct {
	field noise.Field3
}

// NewSampler creates a deformation sampler over the given field
func NewSampler(field noise.Field3) *Sampler {
	return &Sampler{field: field}
}

// RadialOffset returns how far the vertex originally at (x, y, z) moves along
// its radial direction at the given time. The magnitude never exceeds
// |amplitude|. Non-finite input yields 0.
func (s *Sampler) RadialOffset(x, y, z, time, frequency, amplitude float64) float64 {
	if s == nil || s.field == nil {
		return 0
	}
	if !util.AllFinite(x, y, z, time, frequency, amplitude) {
		return 0
	}

	combined := 0.0
	scale := frequency
	for k, weight := range octaveWeights {
		// Each octave drifts along z at its own rate so the surface flows
		drift := time * (0.3 + 0.2*float64(k))
		combined += weight * s.field.Eval3(x*scale, y*scale, z*scale+drift)
		scale *= 2
	}

	return shape(combined) * amplitude
}

// shape flattens spikes with smoothstep, mapped symmetrically over [-1, 1]
func shape(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	s := (util.Clamp(v, -1, 1) + 1) * 0.5
	return 2*util.SmoothStep(s) - 1
}

// Pulse is the uniform breathing scale of the creature
type Pulse struct {
	Base   float64 // Scale at rest
	Amount float64 // Peak deviation from Base
	Speed  float64 // Angular speed in radians per second
}

// Scale returns the uniform mesh scale at time t
func (p Pulse) Scale(t float64) float64 {
	if !util.IsFinite(t) {
		return p.Base
	}
	return p.Base + math.Sin(t*p.Speed)*p.Amount
}

// Deformer recomputes a mesh's vertex positions every frame from an immutable
// copy of the undeformed positions, so repeated frames never drift.
type Deformer struct {
	sampler  *Sampler
	original []float32
	dirs     []float32
}

// NewDeformer snapshots the original positions (3 floats per vertex).
// Vertices at the origin have no radial direction and are left in place.
func NewDeformer(original []float32, sampler *Sampler) *Deformer {
	n := len(original) / 3
	d := &Deformer{
		sampler:  sampler,
		original: make([]float32, n*3),
		dirs:     make([]float32, n*3),
	}
	copy(d.original, original[:n*3])

	for i := 0; i < n; i++ {
		x := float64(d.original[i*3])
		y := float64(d.original[i*3+1])
		z := float64(d.original[i*3+2])
		length := math.Sqrt(x*x + y*y + z*z)
		if length == 0 || !util.IsFinite(length) {
			continue
		}
		d.dirs[i*3] = float32(x / length)
		d.dirs[i*3+1] = float32(y / length)
		d.dirs[i*3+2] = float32(z / length)
	}

	return d
}

// VertexCount returns the number of vertices the deformer manages
func (d *Deformer) VertexCount() int {
	return len(d.original) / 3
}

// Original returns a copy of the undeformed positions
func (d *Deformer) Original() []float32 {
	out := make([]float32, len(d.original))
	copy(out, d.original)
	return out
}

// Apply writes deformed positions into dst. Only the overlap of dst and the
// original set is written. Large meshes are split across goroutines; every
// vertex is computed independently, so the result matches a serial pass.
func (d *Deformer) Apply(dst []float32, time, frequency, amplitude float64) {
	n := d.VertexCount()
	if m := len(dst) / 3; m < n {
		n = m
	}
	if n <= deformChunk {
		d.deformRange(dst, 0, n, time, frequency, amplitude)
		return
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < n; start += deformChunk {
		lo, hi := start, start+deformChunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			d.deformRange(dst, lo, hi, time, frequency, amplitude)
			return nil
		})
	}
	// deformRange cannot fail; Wait only joins the workers
	_ = g.Wait()
}

// Reset writes the undeformed positions into dst
func (d *Deformer) Reset(dst []float32) {
	copy(dst, d.original)
}

// deformRange displaces vertices [lo, hi)
func (d *Deformer) deformRange(dst []float32, lo, hi int, time, frequency, amplitude float64) {
	for i := lo; i < hi; i++ {
		ox := float64(d.original[i*3])
		oy := float64(d.original[i*3+1])
		oz := float64(d.original[i*3+2])

		offset := d.sampler.RadialOffset(ox, oy, oz, time, frequency, amplitude)

		dst[i*3] = float32(ox + float64(d.dirs[i*3])*offset)
		dst[i*3+1] = float32(oy + float64(d.dirs[i*3+1])*offset)
		dst[i*3+2] = float32(oz + float64(d.dirs[i*3+2])*offset)
	}
}
