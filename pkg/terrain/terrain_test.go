package terrain

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	noise "biomorph/internal/math"
)

// flatField returns the same value everywhere
type flatField float64

func (f flatField) Eval2(x, z float64) float64 { return float64(f) }

func newJungle(seed int64) *Synthesizer {
	return NewSynthesizer(noise.NewValueNoise2D(seed), Presets[BiomeJungle])
}

func TestHeightAtDeterministicAndBounded(t *testing.T) {
	s := newJungle(1)
	biome := s.Biome()

	// Octave amplitudes 1, 1/2, 1/4 ... sum below 2
	limit := 2 * biome.Displacement
	for x := -50.0; x <= 50; x += 3.7 {
		for z := -50.0; z <= 50; z += 4.1 {
			h := s.HeightAt(x, z)
			require.Equal(t, h, s.HeightAt(x, z))
			require.LessOrEqual(t, math.Abs(h), limit)
		}
	}
}

func TestHeightAtOctaveSum(t *testing.T) {
	biome := Biome{Displacement: 2, Octaves: 3, Frequency: 1}
	s := NewSynthesizer(flatField(0.5), biome)

	// 0.5 * (1 + 0.5 + 0.25) * 2
	assert.InDelta(t, 1.75, s.HeightAt(3, 4), 1e-12)
}

func TestHeightAtDefaults(t *testing.T) {
	s := NewSynthesizer(flatField(1), Biome{Displacement: 1})
	assert.InDelta(t, 1.0, s.HeightAt(0, 0), 1e-12, "zero octaves means one")

	assert.Equal(t, 0.0, s.HeightAt(math.NaN(), 0))
	assert.Equal(t, 0.0, NewSynthesizer(nil, Presets[BiomeDesert]).HeightAt(1, 1))
}

func TestGenerateLayout(t *testing.T) {
	s := newJungle(2)
	p := s.Generate(40, 20, 8)

	assert.Equal(t, 81, p.VertexCount())
	assert.Len(t, p.Colors, 81*3)
	assert.Len(t, p.Normals, 81*3)
	assert.Len(t, p.Indices, 8*8*6)

	// Corners of the grid
	assert.Equal(t, float32(-20), p.Positions[0])
	assert.Equal(t, float32(-10), p.Positions[2])
	last := (p.VertexCount() - 1) * 3
	assert.Equal(t, float32(20), p.Positions[last])
	assert.Equal(t, float32(10), p.Positions[last+2])

	// Every vertex height comes from HeightAt
	for i := 0; i < p.VertexCount(); i++ {
		x := float64(p.Positions[i*3])
		z := float64(p.Positions[i*3+2])
		assert.InDelta(t, s.HeightAt(x, z), p.Positions[i*3+1], 1e-4)
	}
}

func TestGenerateBlendFactor(t *testing.T) {
	biome := Presets[BiomeAlien]
	s := NewSynthesizer(noise.NewValueNoise2D(3), biome)
	p := s.Generate(60, 60, 32)
	require.Less(t, p.MinHeight, p.MaxHeight)

	assert.Equal(t, 0.0, p.BlendFactor(p.MinHeight))
	assert.InDelta(t, 1.0, p.BlendFactor(p.MaxHeight), 1e-9)
	assert.Equal(t, 0.0, p.BlendFactor(p.MinHeight-10))
	assert.Equal(t, 1.0, p.BlendFactor(p.MaxHeight+10))

	lowest, highest := -1, -1
	for i := 0; i < p.VertexCount(); i++ {
		h := float64(p.Positions[i*3+1])
		if lowest < 0 || h < float64(p.Positions[lowest*3+1]) {
			lowest = i
		}
		if highest < 0 || h > float64(p.Positions[highest*3+1]) {
			highest = i
		}
		for c := 0; c < 3; c++ {
			v := p.Colors[i*3+c]
			assert.True(t, v >= 0 && v <= 1, "color channel %v", v)
		}
	}

	assertColor(t, biome.Base, p.Colors[lowest*3:lowest*3+3])
	assertColor(t, biome.Rock, p.Colors[highest*3:highest*3+3])
}

func assertColor(t *testing.T, want colorful.Color, got []float32) {
	t.Helper()
	assert.InDelta(t, want.R, got[0], 1e-3)
	assert.InDelta(t, want.G, got[1], 1e-3)
	assert.InDelta(t, want.B, got[2], 1e-3)
}

func TestGenerateFlatTerrain(t *testing.T) {
	biome := Presets[BiomeDesert]
	p := NewSynthesizer(flatField(0.2), biome).Generate(10, 10, 4)

	for i := 0; i < p.VertexCount(); i++ {
		assertColor(t, biome.Base, p.Colors[i*3:i*3+3])
		assert.InDelta(t, 1, p.Normals[i*3+1], 1e-6, "flat ground faces up")
	}
}

func TestGenerateInvalidSizes(t *testing.T) {
	s := newJungle(1)

	assert.Zero(t, s.Generate(0, 10, 4).VertexCount())
	assert.Zero(t, s.Generate(10, -1, 4).VertexCount())
	assert.Zero(t, s.Generate(math.Inf(1), 10, 4).VertexCount())
	assert.Equal(t, 4, s.Generate(10, 10, 0).VertexCount(), "segments below 1 become 1")
}

func TestGridIndicesWindUp(t *testing.T) {
	p := NewSynthesizer(flatField(0), Presets[BiomeJungle]).Generate(2, 2, 2)

	for tri := 0; tri < len(p.Indices)/3; tri++ {
		a, b, c := p.Indices[tri*3], p.Indices[tri*3+1], p.Indices[tri*3+2]
		ax, az := p.Positions[a*3], p.Positions[a*3+2]
		bx, bz := p.Positions[b*3], p.Positions[b*3+2]
		cx, cz := p.Positions[c*3], p.Positions[c*3+2]

		// y component of (b-a) x (c-a)
		ny := (bz-az)*(cx-ax) - (bx-ax)*(cz-az)
		assert.Greater(t, ny, float32(0), "triangle %d", tri)
	}
}

func TestPresetsComplete(t *testing.T) {
	for _, name := range BiomeNames() {
		b, ok := Presets[name]
		require.True(t, ok, name)
		assert.Equal(t, name, b.Name)
		assert.Greater(t, b.Displacement, 0.0)
		assert.Greater(t, b.Octaves, 0)
	}
}
