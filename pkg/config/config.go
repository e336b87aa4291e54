package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	noise "biomorph/internal/math"
	"biomorph/pkg/perf"
	"biomorph/pkg/terrain"
)

// Config represents the main configuration
type Config struct {
	Graphics    GraphicsConfig         `yaml:"graphics"`
	Log         LogConfig              `yaml:"log"`
	Noise       NoiseConfig            `yaml:"noise"`
	Creature    CreatureConfig         `yaml:"creature"`
	Terrain     TerrainConfig          `yaml:"terrain"`
	Performance PerformanceConfig      `yaml:"performance"`
	Audio       AudioConfig            `yaml:"audio"`
	Biomes      map[string]BiomeConfig `yaml:"biomes"`
}

// GraphicsConfig contains window configuration
type GraphicsConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FrameRate  int    `yaml:"framerate"` // 0 means uncapped
	Title      string `yaml:"title"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // Optional: also log to this file
}

// NoiseConfig selects the field that animates the creature
type NoiseConfig struct {
	Backend string `yaml:"backend"` // simplex, opensimplex
	Seed    int64  `yaml:"seed"`    // Optional: 0 means random
}

// CreatureConfig contains creature mesh and animation configuration
type CreatureConfig struct {
	Radius         float64 `yaml:"radius"`
	CellCount      int     `yaml:"cell_count"`
	DepthVariation float64 `yaml:"depth_variation"`
	CellSpread     float64 `yaml:"cell_spread"` // Optional: 0 derives it from cell_count
	Seed           int64   `yaml:"seed"`        // Optional: 0 means random
	Frequency      float64 `yaml:"frequency"`
	Amplitude      float64 `yaml:"amplitude"`
	PulseBase      float64 `yaml:"pulse_base"`
	PulseAmount    float64 `yaml:"pulse_amount"`
	PulseSpeed     float64 `yaml:"pulse_speed"`
	SkinColor      string  `yaml:"skin_color"` // Raised cells
	FoldColor      string  `yaml:"fold_color"` // Sunken cells
	Spores         int     `yaml:"spores"`     // Particles drifting around the creature
}

// TerrainConfig contains terrain generation configuration
type TerrainConfig struct {
	Biome     string  `yaml:"biome"`
	Size      float64 `yaml:"size"`
	Segments  int     `yaml:"segments"`
	Backend   string  `yaml:"backend"` // value, perlin
	Seed      int64   `yaml:"seed"`    // Optional: 0 means random
	PropCount int     `yaml:"prop_count"`
}

// PerformanceConfig tunes the adaptive quality controller
type PerformanceConfig struct {
	TargetFPS       float64  `yaml:"target_fps"`
	Hysteresis      float64  `yaml:"hysteresis"`
	WindowFrames    int      `yaml:"window_frames"`
	History         int      `yaml:"history"`
	RecoverySeconds float64  `yaml:"recovery_seconds"`
	Effects         []string `yaml:"effects"` // Shedding order, first shed first
}

// AudioConfig contains ambient audio configuration
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`
	Pitch      float64 `yaml:"pitch"`
	SampleRate float64 `yaml:"sample_rate"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	effects := make([]string, 0, len(perf.DefaultPriority))
	for _, e := range perf.DefaultPriority {
		effects = append(effects, e.String())
	}

	return &Config{
		Graphics: GraphicsConfig{
			Width:     1280,
			Height:    720,
			VSync:     true,
			FrameRate: 60,
			Title:     "biomorph",
		},
		Log: LogConfig{
			Level: "info",
		},
		Noise: NoiseConfig{
			Backend: noise.BackendSimplex,
			Seed:    1337,
		},
		Creature: CreatureConfig{
			Radius:         1.0,
			CellCount:      180,
			DepthVariation: 0.08,
			Seed:           7,
			Frequency:      1.6,
			Amplitude:      0.12,
			PulseBase:      1.0,
			PulseAmount:    0.04,
			PulseSpeed:     2.2,
			SkinColor:      "#c98f7a",
			FoldColor:      "#5c2a3a",
			Spores:         120,
		},
		Terrain: TerrainConfig{
			Biome:     terrain.BiomeJungle,
			Size:      80,
			Segments:  96,
			Backend:   noise.BackendValue,
			Seed:      42,
			PropCount: 40,
		},
		Performance: PerformanceConfig{
			TargetFPS:       30,
			Hysteresis:      5,
			WindowFrames:    60,
			History:         3,
			RecoverySeconds: 5,
			Effects:         effects,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.4,
			Pitch:      55,
			SampleRate: 44100,
		},
		Biomes: DefaultBiomes(),
	}
}

// LoadConfig loads the configuration from a file. On failure the defaults
// are returned together with the error.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, errors.Wrap(err, "config file not found, using defaults")
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), errors.Wrap(err, "error parsing config")
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error serializing config")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return errors.Wrap(err, "error writing config file")
	}

	return nil
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	var err error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, errors.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FrameRate < 0 {
		err = multierr.Append(err, errors.Errorf("graphics: framerate %d must not be negative", c.Graphics.FrameRate))
	}

	if _, e := noise.NewField3(c.Noise.Backend, 0); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "noise"))
	}

	if c.Creature.Radius <= 0 {
		err = multierr.Append(err, errors.Errorf("creature: radius %v must be positive", c.Creature.Radius))
	}
	if c.Creature.CellCount <= 0 {
		err = multierr.Append(err, errors.Errorf("creature: cell_count %d must be positive", c.Creature.CellCount))
	}
	if c.Creature.DepthVariation < 0 || c.Creature.DepthVariation > c.Creature.Radius {
		err = multierr.Append(err, errors.Errorf("creature: depth_variation %v must be within [0, radius]", c.Creature.DepthVariation))
	}
	if c.Creature.Amplitude < 0 {
		err = multierr.Append(err, errors.Errorf("creature: amplitude %v must not be negative", c.Creature.Amplitude))
	}
	if _, _, e := c.CreatureColors(); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "creature"))
	}
	if c.Creature.Spores < 0 {
		err = multierr.Append(err, errors.Errorf("creature: spores %d must not be negative", c.Creature.Spores))
	}

	if _, e := noise.NewField2(c.Terrain.Backend, 0); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "terrain"))
	}
	if _, e := c.Biome(c.Terrain.Biome); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "terrain"))
	}
	if c.Terrain.Size <= 0 {
		err = multierr.Append(err, errors.Errorf("terrain: size %v must be positive", c.Terrain.Size))
	}
	if c.Terrain.Segments < 1 {
		err = multierr.Append(err, errors.Errorf("terrain: segments %d must be at least 1", c.Terrain.Segments))
	}
	if c.Terrain.PropCount < 0 {
		err = multierr.Append(err, errors.Errorf("terrain: prop_count %d must not be negative", c.Terrain.PropCount))
	}

	if _, e := c.PerfOptions(); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "performance"))
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		err = multierr.Append(err, errors.Errorf("audio: volume %v must be within [0, 1]", c.Audio.Volume))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		err = multierr.Append(err, errors.Errorf("audio: sample_rate %v must be positive", c.Audio.SampleRate))
	}

	for name, b := range c.Biomes {
		if _, e := b.ToBiome(name); e != nil {
			err = multierr.Append(err, errors.Wrapf(e, "biomes.%s", name))
		}
	}

	return err
}

// PerfOptions converts the performance section into controller options
func (c *Config) PerfOptions() (perf.Options, error) {
	effects, err := perf.ParseEffects(c.Performance.Effects)
	if err != nil {
		return perf.Options{}, err
	}

	opts := perf.Options{
		TargetFPS:       c.Performance.TargetFPS,
		Hysteresis:      c.Performance.Hysteresis,
		WindowFrames:    c.Performance.WindowFrames,
		History:         c.Performance.History,
		RecoverySeconds: c.Performance.RecoverySeconds,
		Effects:         effects,
	}
	if err := opts.Validate(); err != nil {
		return perf.Options{}, err
	}
	return opts, nil
}

// ResolveSeed returns seed, or a time-based seed when seed is 0
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
