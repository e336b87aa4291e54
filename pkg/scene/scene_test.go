package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	noise "biomorph/internal/math"
	"biomorph/pkg/config"
	"biomorph/pkg/creature"
	"biomorph/pkg/perf"
	"biomorph/pkg/terrain"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Creature.CellCount = 40
	cfg.Terrain.Segments = 16
	cfg.Terrain.Size = 40
	cfg.Terrain.PropCount = 200
	return cfg
}

func fullSettings() perf.EffectSettings {
	return perf.EffectSettings{BloomIntensity: 1, AnimationSpeed: 1, Particles: true, Shadows: true, AmbientAudio: true}
}

func TestBuild(t *testing.T) {
	s, err := Build(testConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, 40*(creature.CellSides+1), s.Creature.VertexCount())
	assert.Equal(t, s.Creature.Positions, s.Positions)
	assert.Equal(t, 17*17, s.Terrain.VertexCount())
	assert.Equal(t, terrain.BiomeJungle, s.Biome().Name)
	assert.NotEmpty(t, s.Props)
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Noise.Backend = "worley"
	_, err := Build(cfg, nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Creature.CellCount = 0
	_, err = Build(cfg, nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Terrain.Biome = "tundra"
	_, err = Build(cfg, nil)
	assert.Error(t, err)
}

func TestPropsStandOnTheGround(t *testing.T) {
	s, err := Build(testConfig(), nil)
	require.NoError(t, err)

	for _, p := range s.Props {
		x, y, z := p.Position.Elem()
		assert.Equal(t, s.HeightAt(x, z), y, "prop %d", p.ID)
		assert.LessOrEqual(t, x, s.Terrain.Width/2)
		assert.GreaterOrEqual(t, x, -s.Terrain.Width/2)
		assert.LessOrEqual(t, z, s.Terrain.Depth/2)
		assert.GreaterOrEqual(t, z, -s.Terrain.Depth/2)

		blend := s.Terrain.BlendFactor(y)
		switch p.Kind {
		case PropTree:
			assert.True(t, blend > 0.3 && blend < 0.7)
		case PropRock:
			assert.Greater(t, blend, 0.2)
		default:
			t.Fatalf("unexpected prop kind %v", p.Kind)
		}
	}
}

func TestPropsDeterministic(t *testing.T) {
	a, err := Build(testConfig(), nil)
	require.NoError(t, err)
	b, err := Build(testConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, a.Props, b.Props)
}

func TestPlacePropsEmptyPatch(t *testing.T) {
	field, err := noise.NewField2(noise.BackendValue, 1)
	require.NoError(t, err)
	synth := terrain.NewSynthesizer(field, terrain.Presets[terrain.BiomeDesert])

	assert.Nil(t, placeProps(synth, synth.Generate(0, 0, 4), 10, 1))
	assert.Nil(t, placeProps(synth, synth.Generate(10, 10, 4), 0, 1))
}

func TestSetBiome(t *testing.T) {
	s, err := Build(testConfig(), nil)
	require.NoError(t, err)
	before := s.Terrain

	require.NoError(t, s.SetBiome(terrain.BiomeAlien))
	assert.Equal(t, terrain.BiomeAlien, s.Biome().Name)
	assert.NotEqual(t, before.Positions, s.Terrain.Positions)

	current := s.Terrain
	assert.Error(t, s.SetBiome("tundra"))
	assert.Same(t, current, s.Terrain)
	assert.Equal(t, terrain.BiomeAlien, s.Biome().Name)
}

func TestUpdateDeformsFromOriginal(t *testing.T) {
	cfg := testConfig()
	s, err := Build(cfg, nil)
	require.NoError(t, err)

	s.Update(5, fullSettings())
	first := append([]float32(nil), s.Positions...)
	assert.Equal(t, 5.0, s.Time())
	assert.NotEqual(t, s.Creature.Positions, first)

	s.Update(0, fullSettings())
	assert.Equal(t, first, s.Positions)
	assert.InDelta(t, creature.Pulse{
		Base:   cfg.Creature.PulseBase,
		Amount: cfg.Creature.PulseAmount,
		Speed:  cfg.Creature.PulseSpeed,
	}.Scale(5), s.CreatureScale(), 1e-12)
}

func TestUpdateFollowsAnimationSpeed(t *testing.T) {
	s, err := Build(testConfig(), nil)
	require.NoError(t, err)

	s.Update(2, perf.EffectSettings{AnimationSpeed: 0.5})
	assert.Equal(t, 1.0, s.Time())

	s.Update(-1, fullSettings())
	assert.Equal(t, 1.0, s.Time())
}

func TestCreatureOriginAboveGround(t *testing.T) {
	s, err := Build(testConfig(), nil)
	require.NoError(t, err)

	assert.Greater(t, s.CreatureOrigin().Y(), s.HeightAt(0, 0))
}

func TestPropKindString(t *testing.T) {
	assert.Equal(t, "tree", PropTree.String())
	assert.Equal(t, "rock", PropRock.String())
	assert.Equal(t, "unknown", PropKind(9).String())
}

func TestCreatureColors(t *testing.T) {
	cfg := testConfig()
	s, err := Build(cfg, nil)
	require.NoError(t, err)

	require.Len(t, s.CreatureColors, len(s.Creature.Positions))
	for _, c := range s.CreatureColors {
		assert.GreaterOrEqual(t, c, float32(0))
		assert.LessOrEqual(t, c, float32(1))
	}

	// Every vertex of a cell shares its color
	stride := (creature.CellSides + 1) * 3
	for v := 1; v <= creature.CellSides; v++ {
		assert.Equal(t, s.CreatureColors[0:3], s.CreatureColors[v*3:v*3+3])
		assert.Equal(t, s.CreatureColors[stride:stride+3], s.CreatureColors[stride+v*3:stride+v*3+3])
	}
}

func TestSmoothCreatureIsAllSkin(t *testing.T) {
	cfg := testConfig()
	cfg.Creature.DepthVariation = 0
	s, err := Build(cfg, nil)
	require.NoError(t, err)

	skin, _, err := cfg.CreatureColors()
	require.NoError(t, err)
	for i := 0; i < len(s.CreatureColors); i += 3 {
		assert.InDelta(t, skin.R, s.CreatureColors[i], 1e-5)
		assert.InDelta(t, skin.G, s.CreatureColors[i+1], 1e-5)
		assert.InDelta(t, skin.B, s.CreatureColors[i+2], 1e-5)
	}
}

func TestSporesFollowParticleSetting(t *testing.T) {
	s, err := Build(testConfig(), nil)
	require.NoError(t, err)
	require.Equal(t, 120, s.Spores.Count())

	s.Update(0.1, perf.EffectSettings{AnimationSpeed: 1})
	assert.Equal(t, make([]float32, 120*3), s.Spores.Positions)

	s.Update(0.1, fullSettings())
	assert.NotEqual(t, make([]float32, 120*3), s.Spores.Positions)
}
