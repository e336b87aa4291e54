// Package terrain synthesizes height-field ground patches from layered
// planar noise and colors them by height.
package terrain

import (
	"math"

	noise "biomorph/internal/math"
	"biomorph/internal/util"
)

// defaultFrequency is used when a biome leaves Frequency unset
const defaultFrequency = 0.08

// Patch is a generated terrain grid. Positions and Normals carry 3 floats per
// vertex, Colors 3 (RGB), Indices 3 per triangle. Vertices are laid out row
// by row along +X, rows advancing along +Z.
type Patch struct {
	Positions []float32
	Colors    []float32
	Normals   []float32
	Indices   []uint32

	Segments  int
	Width     float64
	Depth     float64
	MinHeight float64
	MaxHeight float64
}

// VertexCount returns the number of vertices
func (p *Patch) VertexCount() int {
	return len(p.Positions) / 3
}

// BlendFactor maps a height to the base/rock blend weight in [0, 1] using
// the patch's sampled extremes. A flat patch is all base.
func (p *Patch) BlendFactor(h float64) float64 {
	return util.Map(h, p.MinHeight, p.MaxHeight, 0, 1)
}

// Synthesizer produces terrain for one biome. It holds no mutable state and
// may be shared between goroutines as long as the field may be.
type Synthesizer struct {
	field noise.Field2
	biome Biome
}

// NewSynthesizer creates a synthesizer over the given planar noise field
func NewSynthesizer(field noise.Field2, biome Biome) *Synthesizer {
	return &Synthesizer{field: field, biome: biome}
}

// Biome returns the biome the synthesizer was built with
func (s *Synthesizer) Biome() Biome {
	return s.biome
}

// HeightAt returns the ground height at world position (x, z)
func (s *Synthesizer) HeightAt(x, z float64) float64 {
	if s.field == nil || !util.AllFinite(x, z) {
		return 0
	}

	octaves := s.biome.Octaves
	if octaves < 1 {
		octaves = 1
	}
	frequency := s.biome.Frequency
	if frequency <= 0 || !util.IsFinite(frequency) {
		frequency = defaultFrequency
	}

	height := 0.0
	amplitude := 1.0
	for i := 0; i < octaves; i++ {
		height += s.field.Eval2(x*frequency, z*frequency) * amplitude
		frequency *= 2
		amplitude *= 0.5
	}

	return height * s.biome.Displacement
}

// Generate builds a width x depth patch centered on the origin with
// segments x segments quads. Non-positive sizes give an empty patch.
func (s *Synthesizer) Generate(width, depth float64, segments int) *Patch {
	if segments < 1 {
		segments = 1
	}
	patch := &Patch{Segments: segments, Width: width, Depth: depth}
	if !util.AllFinite(width, depth) || width <= 0 || depth <= 0 {
		return patch
	}

	side := segments + 1
	count := side * side
	heights := make([]float64, count)
	patch.Positions = make([]float32, count*3)

	stepX := width / float64(segments)
	stepZ := depth / float64(segments)

	for row := 0; row < side; row++ {
		z := -depth/2 + float64(row)*stepZ
		for col := 0; col < side; col++ {
			x := -width/2 + float64(col)*stepX
			i := row*side + col
			h := s.HeightAt(x, z)
			heights[i] = h

			patch.Positions[i*3] = float32(x)
			patch.Positions[i*3+1] = float32(h)
			patch.Positions[i*3+2] = float32(z)
		}
	}

	patch.MinHeight, patch.MaxHeight = util.MinMax(heights)
	patch.Colors = make([]float32, count*3)
	for i, h := range heights {
		c := s.biome.Base.BlendRgb(s.biome.Rock, patch.BlendFactor(h))
		patch.Colors[i*3] = float32(c.R)
		patch.Colors[i*3+1] = float32(c.G)
		patch.Colors[i*3+2] = float32(c.B)
	}

	patch.Normals = gridNormals(heights, side, stepX, stepZ)
	patch.Indices = gridIndices(segments)

	return patch
}

// Helper functions

// gridNormals estimates per-vertex normals by central differences,
// falling back to one-sided differences on the border
func gridNormals(heights []float64, side int, stepX, stepZ float64) []float32 {
	normals := make([]float32, len(heights)*3)
	at := func(row, col int) float64 {
		return heights[row*side+col]
	}

	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			l, r := max(col-1, 0), min(col+1, side-1)
			d, u := max(row-1, 0), min(row+1, side-1)

			dx := (at(row, r) - at(row, l)) / (float64(r-l) * stepX)
			dz := (at(u, col) - at(d, col)) / (float64(u-d) * stepZ)

			nx, ny, nz := -dx, 1.0, -dz
			length := math.Sqrt(nx*nx + ny*ny + nz*nz)

			i := (row*side + col) * 3
			normals[i] = float32(nx / length)
			normals[i+1] = float32(ny / length)
			normals[i+2] = float32(nz / length)
		}
	}

	return normals
}

// gridIndices triangulates a segments x segments grid, two triangles per
// quad, counter-clockwise seen from above
func gridIndices(segments int) []uint32 {
	side := uint32(segments + 1)
	indices := make([]uint32, 0, segments*segments*6)

	for row := uint32(0); row < uint32(segments); row++ {
		for col := uint32(0); col < uint32(segments); col++ {
			a := row*side + col
			b := a + 1
			c := a + side
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}

	return indices
}
