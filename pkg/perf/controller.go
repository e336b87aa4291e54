// Package perf keeps frame pacing steady by shedding and restoring costly
// effects in a fixed priority order.
package perf

import (
	"math"

	"github.com/pkg/errors"

	"biomorph/internal/logger"
	"biomorph/internal/util"
)

// Options configures a Controller
type Options struct {
	TargetFPS       float64  // Frame rate to hold
	Hysteresis      float64  // FPS above target needed before restoring
	WindowFrames    int      // Frames per measurement window
	History         int      // Windows in the rolling average
	RecoverySeconds float64  // Sustained good time before one effect returns
	Effects         []Effect // Shedding order, first shed first
}

// DefaultOptions returns the stock tuning: hold 30 fps, measure every 60
// frames, restore after about 5 seconds of headroom.
func DefaultOptions() Options {
	return Options{
		TargetFPS:       30,
		Hysteresis:      5,
		WindowFrames:    60,
		History:         3,
		RecoverySeconds: 5,
		Effects:         append([]Effect(nil), DefaultPriority...),
	}
}

// Validate reports the first problem with the options
func (o Options) Validate() error {
	switch {
	case !util.IsFinite(o.TargetFPS) || o.TargetFPS <= 0:
		return errors.Errorf("target fps must be positive, got %v", o.TargetFPS)
	case !util.IsFinite(o.Hysteresis) || o.Hysteresis < 0:
		return errors.Errorf("hysteresis must not be negative, got %v", o.Hysteresis)
	case o.WindowFrames < 1:
		return errors.Errorf("window frames must be at least 1, got %d", o.WindowFrames)
	case o.History < 1:
		return errors.Errorf("history must be at least 1, got %d", o.History)
	case !util.IsFinite(o.RecoverySeconds) || o.RecoverySeconds < 0:
		return errors.Errorf("recovery seconds must not be negative, got %v", o.RecoverySeconds)
	}

	seen := make(map[Effect]bool, len(o.Effects))
	for _, e := range o.Effects {
		if _, ok := effectNames[e]; !ok {
			return errors.Errorf("unknown effect id %d", int(e))
		}
		if seen[e] {
			return errors.Errorf("effect %s listed twice", e)
		}
		seen[e] = true
	}
	return nil
}

// RecoveryWindows converts RecoverySeconds into whole measurement windows
// at the target frame rate. Always at least 1.
func (o Options) RecoveryWindows() int {
	frames := o.RecoverySeconds * o.TargetFPS
	windows := int(math.Ceil(frames / float64(o.WindowFrames)))
	if windows < 1 {
		return 1
	}
	return windows
}

// Controller measures frame pacing and decides which effects stay on.
//
// The effects are kept in shedding order and the controller only remembers
// how many have been shed from the front, so the enabled set is always the
// tail of the list. Update and Reset mutate state and must come from a
// single goroutine.
type Controller struct {
	opts            Options
	recoveryWindows int
	log             *logger.Logger

	frames    int     // Frames in the open window
	elapsed   float64 // Seconds in the open window
	lastFrame float64
	samples   frameTimes

	shed   int // Effects disabled from the front of opts.Effects
	streak int // Consecutive windows above target+hysteresis
}

// NewController creates a controller with every effect enabled. A nil logger
// discards transition messages.
func NewController(opts Options, log *logger.Logger) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid performance options")
	}
	if log == nil {
		log = logger.NewDiscard()
	}

	opts.Effects = append([]Effect(nil), opts.Effects...)
	c := &Controller{
		opts:            opts,
		recoveryWindows: opts.RecoveryWindows(),
		log:             log.With("perf"),
	}
	c.samples.init(opts.History)
	return c, nil
}

// Update records one displayed frame. Invalid durations are ignored.
func (c *Controller) Update(frameDeltaSeconds float64) {
	if !util.IsFinite(frameDeltaSeconds) || frameDeltaSeconds < 0 {
		return
	}

	c.lastFrame = frameDeltaSeconds
	c.frames++
	c.elapsed += frameDeltaSeconds
	if c.frames < c.opts.WindowFrames {
		return
	}

	c.samples.collect(c.elapsed / float64(c.frames))
	c.frames = 0
	c.elapsed = 0
	c.evaluate()
}

// evaluate runs one step of the shed/restore state machine
func (c *Controller) evaluate() {
	avg := c.AverageFPS()
	target := c.opts.TargetFPS

	switch {
	case avg < target:
		c.streak = 0
		if c.shed < len(c.opts.Effects) {
			e := c.opts.Effects[c.shed]
			c.shed++
			c.log.Infof("%.1f fps below target %.0f, disabled %s", avg, target, e)
		}

	case avg > target+c.opts.Hysteresis:
		c.streak++
		if c.streak < c.recoveryWindows {
			return
		}
		c.streak = 0
		if c.shed > 0 {
			c.shed--
			c.log.Infof("%.1f fps sustained, re-enabled %s", avg, c.opts.Effects[c.shed])
		}

	default:
		c.streak = 0
	}
}

// AverageFPS returns the rolling frame rate. Before the first window closes,
// or if every recorded frame took no time, it assumes the target rate.
func (c *Controller) AverageFPS() float64 {
	mean := c.samples.average()
	if c.samples.count() == 0 || mean <= 0 {
		return c.opts.TargetFPS
	}
	return 1 / mean
}

// FrameTime returns the duration of the last recorded frame in seconds
func (c *Controller) FrameTime() float64 {
	return c.lastFrame
}

// Enabled reports whether an effect is on. Effects the controller does not
// manage are always on.
func (c *Controller) Enabled(e Effect) bool {
	for i, managed := range c.opts.Effects {
		if managed == e {
			return i >= c.shed
		}
	}
	return true
}

// Effects returns the managed effects in shedding order
func (c *Controller) Effects() []Effect {
	return append([]Effect(nil), c.opts.Effects...)
}

// Settings returns a snapshot of the effect parameters for this frame
func (c *Controller) Settings() EffectSettings {
	s := EffectSettings{
		BloomIntensity: 1,
		AnimationSpeed: 1,
		Shadows:        c.Enabled(EffectShadows),
		Particles:      c.Enabled(EffectParticles),
		AmbientAudio:   c.Enabled(EffectAmbientAudio),
		Quality:        len(c.opts.Effects) - c.shed,
		MaxQuality:     len(c.opts.Effects),
	}
	if !c.Enabled(EffectBloom) {
		s.BloomIntensity = reducedBloom
	}
	if !c.Enabled(EffectAnimation) {
		s.AnimationSpeed = reducedAnimation
	}
	return s
}

// Reset enables every effect and forgets all measurements
func (c *Controller) Reset() {
	c.frames = 0
	c.elapsed = 0
	c.lastFrame = 0
	c.samples.reset()
	c.shed = 0
	c.streak = 0
	c.log.Debug("reset, all effects enabled")
}
