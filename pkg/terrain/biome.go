package terrain

import colorful "github.com/lucasb-eyer/go-colorful"

// Biome carries everything the synthesizer needs to know about a landscape
type Biome struct {
	Name         string
	Displacement float64        // Vertical scale applied to the summed octaves
	Octaves      int            // Number of noise layers
	Frequency    float64        // Spatial frequency of the first octave
	Base         colorful.Color // Color of the lowest ground
	Rock         colorful.Color // Color of the highest ground
}

// Names of the built-in biomes
const (
	BiomeJungle = "jungle"
	BiomeDesert = "desert"
	BiomeAlien  = "alien"
)

// Presets are the built-in biomes keyed by name
var Presets = map[string]Biome{
	BiomeJungle: {
		Name:         BiomeJungle,
		Displacement: 3.0,
		Octaves:      5,
		Frequency:    0.08,
		Base:         colorful.Color{R: 0.13, G: 0.36, B: 0.15},
		Rock:         colorful.Color{R: 0.36, G: 0.31, B: 0.22},
	},
	BiomeDesert: {
		Name:         BiomeDesert,
		Displacement: 1.5,
		Octaves:      3,
		Frequency:    0.05,
		Base:         colorful.Color{R: 0.86, G: 0.72, B: 0.48},
		Rock:         colorful.Color{R: 0.62, G: 0.40, B: 0.26},
	},
	BiomeAlien: {
		Name:         BiomeAlien,
		Displacement: 4.5,
		Octaves:      6,
		Frequency:    0.11,
		Base:         colorful.Color{R: 0.25, G: 0.10, B: 0.40},
		Rock:         colorful.Color{R: 0.20, G: 0.85, B: 0.70},
	},
}

// BiomeNames lists the preset names in a stable order
func BiomeNames() []string {
	return []string{BiomeJungle, BiomeDesert, BiomeAlien}
}
