package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"biomorph/pkg/perf"
	"biomorph/pkg/terrain"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.PerfOptions()
	require.NoError(t, err)
	assert.Equal(t, perf.DefaultOptions(), opts)
}

func TestValidateRejectsUnknownNames(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"noise backend", func(c *Config) { c.Noise.Backend = "worley" }},
		{"terrain backend", func(c *Config) { c.Terrain.Backend = "simplex" }},
		{"biome", func(c *Config) { c.Terrain.Biome = "tundra" }},
		{"effect", func(c *Config) { c.Performance.Effects = []string{"bloom", "motion_blur"} }},
		{"duplicate effect", func(c *Config) { c.Performance.Effects = []string{"bloom", "bloom"} }},
		{"skin color", func(c *Config) { c.Creature.SkinColor = "pink" }},
		{"biome color", func(c *Config) {
			c.Biomes["swamp"] = BiomeConfig{Displacement: 1, Octaves: 2, BaseColor: "green", RockColor: "#000000"}
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Graphics.Width = 0
	cfg.Creature.CellCount = -1
	cfg.Terrain.Segments = 0
	cfg.Performance.TargetFPS = 0
	cfg.Audio.Volume = 2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 5)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Terrain.Biome = terrain.BiomeAlien
	cfg.Creature.CellCount = 64
	cfg.Performance.Effects = []string{"shadows", "bloom"}
	cfg.Biomes["swamp"] = BiomeConfig{
		Displacement: 0.8,
		Octaves:      2,
		Frequency:    0.2,
		BaseColor:    "#334422",
		RockColor:    "#665544",
	}
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	require.NoError(t, loaded.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graphics: [1, 2"), 0644))

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("terrain:\n  biome: desert\nbiomes:\n  swamp:\n    displacement: 1\n    octaves: 2\n    base_color: \"#112233\"\n    rock_color: \"#445566\"\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, terrain.BiomeDesert, cfg.Terrain.Biome)
	assert.Equal(t, DefaultConfig().Creature, cfg.Creature)
	assert.Equal(t, []string{"alien", "desert", "jungle", "swamp"}, cfg.BiomeNames())
	require.NoError(t, cfg.Validate())
}

func TestBiomeLookup(t *testing.T) {
	cfg := DefaultConfig()

	b, err := cfg.Biome(terrain.BiomeDesert)
	require.NoError(t, err)
	preset := terrain.Presets[terrain.BiomeDesert]
	assert.Equal(t, preset.Name, b.Name)
	assert.Equal(t, preset.Octaves, b.Octaves)
	assert.InDelta(t, preset.Base.R, b.Base.R, 1.0/255)
	assert.InDelta(t, preset.Rock.B, b.Rock.B, 1.0/255)

	_, err = cfg.Biome("tundra")
	assert.Error(t, err)
}

func TestBiomeConfigBounds(t *testing.T) {
	b := BiomeConfig{Displacement: 1, Octaves: 0, BaseColor: "#000000", RockColor: "#ffffff"}
	_, err := b.ToBiome("flat")
	assert.Error(t, err)

	b.Octaves = 1
	b.Displacement = -1
	_, err = b.ToBiome("flat")
	assert.Error(t, err)
}

func TestResolveSeed(t *testing.T) {
	assert.Equal(t, int64(9), ResolveSeed(9))
	assert.NotZero(t, ResolveSeed(0))
}
