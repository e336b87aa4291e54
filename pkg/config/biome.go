package config

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"biomorph/pkg/terrain"
)

// BiomeConfig describes one biome. Colors are hex strings such as "#2d5a27".
type BiomeConfig struct {
	Displacement float64 `yaml:"displacement"`
	Octaves      int     `yaml:"octaves"`
	Frequency    float64 `yaml:"frequency"`
	BaseColor    string  `yaml:"base_color"`
	RockColor    string  `yaml:"rock_color"`
}

// DefaultBiomes returns the built-in terrain presets in config form
func DefaultBiomes() map[string]BiomeConfig {
	biomes := make(map[string]BiomeConfig, len(terrain.Presets))
	for name, b := range terrain.Presets {
		biomes[name] = BiomeConfig{
			Displacement: b.Displacement,
			Octaves:      b.Octaves,
			Frequency:    b.Frequency,
			BaseColor:    b.Base.Hex(),
			RockColor:    b.Rock.Hex(),
		}
	}
	return biomes
}

// ToBiome converts the config entry into synthesizer parameters
func (b BiomeConfig) ToBiome(name string) (terrain.Biome, error) {
	base, err := colorful.Hex(b.BaseColor)
	if err != nil {
		return terrain.Biome{}, errors.Wrapf(err, "base_color %q", b.BaseColor)
	}
	rock, err := colorful.Hex(b.RockColor)
	if err != nil {
		return terrain.Biome{}, errors.Wrapf(err, "rock_color %q", b.RockColor)
	}
	if b.Displacement < 0 {
		return terrain.Biome{}, errors.Errorf("displacement %v must not be negative", b.Displacement)
	}
	if b.Octaves < 1 {
		return terrain.Biome{}, errors.Errorf("octaves %d must be at least 1", b.Octaves)
	}

	return terrain.Biome{
		Name:         name,
		Displacement: b.Displacement,
		Octaves:      b.Octaves,
		Frequency:    b.Frequency,
		Base:         base,
		Rock:         rock,
	}, nil
}

// CreatureColors decodes the creature's skin and fold colors
func (c *Config) CreatureColors() (colorful.Color, colorful.Color, error) {
	skin, err := colorful.Hex(c.Creature.SkinColor)
	if err != nil {
		return colorful.Color{}, colorful.Color{}, errors.Wrapf(err, "skin_color %q", c.Creature.SkinColor)
	}
	fold, err := colorful.Hex(c.Creature.FoldColor)
	if err != nil {
		return colorful.Color{}, colorful.Color{}, errors.Wrapf(err, "fold_color %q", c.Creature.FoldColor)
	}
	return skin, fold, nil
}

// Biome looks up a biome by name
func (c *Config) Biome(name string) (terrain.Biome, error) {
	b, ok := c.Biomes[name]
	if !ok {
		return terrain.Biome{}, errors.Errorf("unknown biome %q", name)
	}
	return b.ToBiome(name)
}

// BiomeNames returns the configured biome names in sorted order
func (c *Config) BiomeNames() []string {
	names := make([]string, 0, len(c.Biomes))
	for name := range c.Biomes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
