// Package scene assembles the creature, its terrain and the props scattered
// over it from a configuration, and advances the creature animation.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"biomorph/internal/logger"
	noise "biomorph/internal/math"
	"biomorph/internal/util"
	"biomorph/pkg/config"
	"biomorph/pkg/creature"
	"biomorph/pkg/perf"
	"biomorph/pkg/terrain"
)

// Scene is everything the host draws. Update must not run concurrently with
// itself or with SetBiome; Voice may be fed from an audio goroutine.
type Scene struct {
	Creature *creature.Surface
	Terrain  *terrain.Patch
	Props    []Prop
	Voice    *creature.Voice
	Spores   *Particles

	// Positions holds the current deformed creature vertices
	Positions []float32
	// CreatureColors shades each cell between fold and skin by its depth
	CreatureColors []float32

	cfg          *config.Config
	log          *logger.Logger
	deformer     *creature.Deformer
	pulse        creature.Pulse
	terrainField noise.Field2
	synth        *terrain.Synthesizer

	time  float64
	scale float64
}

// Build generates the creature and the terrain for the configured biome
func Build(cfg *config.Config, log *logger.Logger) (*Scene, error) {
	if log == nil {
		log = logger.NewDiscard()
	}
	log = log.With("scene")

	field3, err := noise.NewField3(cfg.Noise.Backend, config.ResolveSeed(cfg.Noise.Seed))
	if err != nil {
		return nil, errors.Wrap(err, "creature noise")
	}
	field2, err := noise.NewField2(cfg.Terrain.Backend, config.ResolveSeed(cfg.Terrain.Seed))
	if err != nil {
		return nil, errors.Wrap(err, "terrain noise")
	}

	cc := cfg.Creature
	tess := creature.Tessellator{Seed: config.ResolveSeed(cc.Seed), CellSpread: cc.CellSpread}
	surface := tess.Generate(cc.Radius, cc.CellCount, cc.DepthVariation)
	if surface.IsEmpty() {
		return nil, errors.Errorf("creature with radius %v and %d cells has no geometry", cc.Radius, cc.CellCount)
	}

	skin, fold, err := cfg.CreatureColors()
	if err != nil {
		return nil, err
	}

	pulse := creature.Pulse{Base: cc.PulseBase, Amount: cc.PulseAmount, Speed: cc.PulseSpeed}
	s := &Scene{
		Creature:       surface,
		Spores:         NewParticles(cc.Spores, cc.Radius, config.ResolveSeed(cc.Seed)),
		Positions:      append([]float32(nil), surface.Positions...),
		CreatureColors: cellColors(surface, skin, fold),
		Voice: &creature.Voice{
			Pulse:      pulse,
			Field:      field3,
			Pitch:      cfg.Audio.Pitch,
			SampleRate: cfg.Audio.SampleRate,
			Gain:       cfg.Audio.Volume,
		},
		cfg:          cfg,
		log:          log,
		deformer:     creature.NewDeformer(surface.Positions, creature.NewSampler(field3)),
		pulse:        pulse,
		terrainField: field2,
		scale:        pulse.Scale(0),
	}
	log.Infof("creature: %d cells, %d vertices, %d triangles",
		len(surface.Cells), surface.VertexCount(), surface.TriangleCount())

	if err := s.SetBiome(cfg.Terrain.Biome); err != nil {
		return nil, err
	}
	return s, nil
}

// SetBiome regenerates the terrain and props for the named biome. On error
// the current terrain is kept.
func (s *Scene) SetBiome(name string) error {
	biome, err := s.cfg.Biome(name)
	if err != nil {
		return errors.Wrap(err, "set biome")
	}

	synth := terrain.NewSynthesizer(s.terrainField, biome)
	size := s.cfg.Terrain.Size
	patch := synth.Generate(size, size, s.cfg.Terrain.Segments)

	s.synth = synth
	s.Terrain = patch
	s.Props = placeProps(synth, patch, s.cfg.Terrain.PropCount, config.ResolveSeed(s.cfg.Terrain.Seed))

	s.log.Infof("terrain %s: %d vertices, height %.2f..%.2f, %d props",
		name, patch.VertexCount(), patch.MinHeight, patch.MaxHeight, len(s.Props))
	return nil
}

// Biome returns the active biome
func (s *Scene) Biome() terrain.Biome {
	return s.synth.Biome()
}

// HeightAt returns the ground height under (x, z)
func (s *Scene) HeightAt(x, z float64) float64 {
	return s.synth.HeightAt(x, z)
}

// Update advances the animation clock by dt scaled with the current
// animation speed and re-deforms the creature.
func (s *Scene) Update(dt float64, settings perf.EffectSettings) {
	if dt > 0 {
		s.time += dt * settings.AnimationSpeed
	}

	cc := s.cfg.Creature
	s.deformer.Apply(s.Positions, s.time, cc.Frequency, cc.Amplitude)
	s.scale = s.pulse.Scale(s.time)

	if settings.Particles {
		s.Spores.Update(dt*settings.AnimationSpeed, s.CreatureOrigin())
	}
}

// Time returns the animation clock in seconds
func (s *Scene) Time() float64 {
	return s.time
}

// CreatureScale returns the current breathing scale
func (s *Scene) CreatureScale() float64 {
	return s.scale
}

// CreatureOrigin places the creature so it rests on the ground at the
// center of the terrain
func (s *Scene) CreatureOrigin() mgl64.Vec3 {
	lift := s.cfg.Creature.Radius + s.cfg.Creature.DepthVariation + s.cfg.Creature.Amplitude
	return mgl64.Vec3{0, s.HeightAt(0, 0) + lift*s.scale, 0}
}

// cellColors gives every vertex of a cell the same color, the deepest cell
// getting fold and the most raised one skin
func cellColors(surface *creature.Surface, skin, fold colorful.Color) []float32 {
	depths := make([]float64, len(surface.Cells))
	for i, c := range surface.Cells {
		depths[i] = c.Depth
	}
	lo, hi := util.MinMax(depths)

	colors := make([]float32, 0, len(surface.Positions))
	for _, c := range surface.Cells {
		t := 1.0
		if hi > lo {
			t = (c.Depth - lo) / (hi - lo)
		}
		col := fold.BlendLab(skin, t).Clamped()
		for v := 0; v <= creature.CellSides; v++ {
			colors = append(colors, float32(col.R), float32(col.G), float32(col.B))
		}
	}
	return colors
}
