package perf

import (
	"strings"

	"github.com/pkg/errors"
)

// Effect identifies one visual or audio feature the controller may shed
type Effect int

// Known effects
const (
	EffectParticles Effect = iota
	EffectBloom
	EffectShadows
	EffectAmbientAudio
	EffectAnimation
)

var effectNames = map[Effect]string{
	EffectParticles:    "particles",
	EffectBloom:        "bloom",
	EffectShadows:      "shadows",
	EffectAmbientAudio: "ambient_audio",
	EffectAnimation:    "animation",
}

// DefaultPriority is the shedding order: particles go first, animation last
var DefaultPriority = []Effect{
	EffectParticles,
	EffectBloom,
	EffectShadows,
	EffectAmbientAudio,
	EffectAnimation,
}

// String returns the effect's config name
func (e Effect) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return "unknown"
}

// ParseEffect resolves a config name to an Effect
func ParseEffect(name string) (Effect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for e, n := range effectNames {
		if n == key {
			return e, nil
		}
	}
	return 0, errors.Errorf("unknown effect %q", name)
}

// ParseEffects resolves a list of names, rejecting unknown and repeated ones
func ParseEffects(names []string) ([]Effect, error) {
	out := make([]Effect, 0, len(names))
	seen := make(map[Effect]bool, len(names))
	for _, name := range names {
		e, err := ParseEffect(name)
		if err != nil {
			return nil, err
		}
		if seen[e] {
			return nil, errors.Errorf("effect %q listed twice", name)
		}
		seen[e] = true
		out = append(out, e)
	}
	return out, nil
}

// EffectSettings is what the renderer reads each frame. It is derived only
// from which effects are enabled.
type EffectSettings struct {
	BloomIntensity float64 // Multiplier for bloom strength
	AnimationSpeed float64 // Multiplier for creature animation time
	Shadows        bool
	Particles      bool
	AmbientAudio   bool
	Quality        int // Number of managed effects still enabled
	MaxQuality     int // Number of managed effects
}

// Reduced values used when an effect is shed
const (
	reducedBloom     = 0.0
	reducedAnimation = 0.5
)
