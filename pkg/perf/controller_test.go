package perf

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biomorph/internal/logger"
)

func newController(t *testing.T, mutate func(*Options)) *Controller {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	c, err := NewController(opts, nil)
	require.NoError(t, err)
	return c
}

// feedWindow plays one full measurement window at the given frame rate
func feedWindow(c *Controller, fps float64) {
	for i := 0; i < c.opts.WindowFrames; i++ {
		c.Update(1 / fps)
	}
}

// enabledSet lists the managed effects that are on
func enabledSet(c *Controller) []Effect {
	on := []Effect{}
	for _, e := range c.Effects() {
		if c.Enabled(e) {
			on = append(on, e)
		}
	}
	return on
}

func TestStartsFullyEnabled(t *testing.T) {
	c := newController(t, nil)

	assert.Equal(t, DefaultPriority, enabledSet(c))
	s := c.Settings()
	assert.Equal(t, EffectSettings{
		BloomIntensity: 1,
		AnimationSpeed: 1,
		Shadows:        true,
		Particles:      true,
		AmbientAudio:   true,
		Quality:        5,
		MaxQuality:     5,
	}, s)
}

func TestNeutralBeforeFirstWindow(t *testing.T) {
	c := newController(t, nil)
	assert.Equal(t, 30.0, c.AverageFPS())

	// A partial window changes nothing
	for i := 0; i < c.opts.WindowFrames-1; i++ {
		c.Update(1.0 / 5)
	}
	assert.Equal(t, 30.0, c.AverageFPS())
	assert.Equal(t, 5, c.Settings().Quality)
}

func TestSheddingOnePerWindowInOrder(t *testing.T) {
	c := newController(t, nil)

	for w := 1; w <= 8; w++ {
		feedWindow(c, 15)
		shed := w
		if shed > len(DefaultPriority) {
			shed = len(DefaultPriority)
		}
		assert.Equal(t, DefaultPriority[shed:], enabledSet(c), "after window %d", w)
		assert.InDelta(t, 15, c.AverageFPS(), 1e-6)
	}

	s := c.Settings()
	assert.Equal(t, 0, s.Quality)
	assert.Equal(t, 0.0, s.BloomIntensity)
	assert.Equal(t, 0.5, s.AnimationSpeed)
	assert.False(t, s.Shadows)
	assert.False(t, s.Particles)
	assert.False(t, s.AmbientAudio)
}

func TestRestoreOnePerStreakSingleWindowHistory(t *testing.T) {
	c := newController(t, func(o *Options) { o.History = 1 })
	require.Equal(t, 3, c.recoveryWindows) // ceil(5s * 30fps / 60 frames)

	for w := 0; w < len(DefaultPriority); w++ {
		feedWindow(c, 15)
	}
	require.Empty(t, enabledSet(c))

	// Two good windows build the streak, the third restores one effect
	feedWindow(c, 90)
	feedWindow(c, 90)
	assert.Empty(t, enabledSet(c))
	feedWindow(c, 90)
	assert.Equal(t, []Effect{EffectAnimation}, enabledSet(c))

	// The streak starts over after each restore
	feedWindow(c, 90)
	feedWindow(c, 90)
	assert.Equal(t, []Effect{EffectAnimation}, enabledSet(c))
	feedWindow(c, 90)
	assert.Equal(t, []Effect{EffectAmbientAudio, EffectAnimation}, enabledSet(c))
}

func TestRestoreWithRollingHistory(t *testing.T) {
	c := newController(t, nil)
	for w := 0; w < 6; w++ {
		feedWindow(c, 15)
	}
	require.Empty(t, enabledSet(c))

	// The ring still remembers the slow windows:
	// window 1 averages ~20.8 fps (below target), window 2 ~33.8 fps (in
	// the stable band), windows 3..5 are 90 fps and complete the streak.
	expected := []int{0, 0, 0, 0, 1, 1, 1, 2}
	for w, want := range expected {
		feedWindow(c, 90)
		assert.Len(t, enabledSet(c), want, "after good window %d", w+1)
	}
	assert.Equal(t, []Effect{EffectAmbientAudio, EffectAnimation}, enabledSet(c))
}

func TestStableBandResetsStreak(t *testing.T) {
	c := newController(t, func(o *Options) { o.History = 1 })
	feedWindow(c, 15)
	feedWindow(c, 15)
	require.Len(t, enabledSet(c), 3)

	feedWindow(c, 60)
	feedWindow(c, 60)
	feedWindow(c, 32) // between target and target+hysteresis
	feedWindow(c, 60)
	feedWindow(c, 60)
	assert.Len(t, enabledSet(c), 3, "streak was interrupted")

	feedWindow(c, 60)
	assert.Len(t, enabledSet(c), 4)
}

func TestDropResetsStreak(t *testing.T) {
	c := newController(t, func(o *Options) { o.History = 1 })
	feedWindow(c, 15)
	feedWindow(c, 60)
	feedWindow(c, 60)
	feedWindow(c, 20) // sheds another and clears the streak
	require.Len(t, enabledSet(c), 3)

	feedWindow(c, 60)
	feedWindow(c, 60)
	assert.Len(t, enabledSet(c), 3)
	feedWindow(c, 60)
	assert.Len(t, enabledSet(c), 4)
}

func TestNoRestoreWhenNothingShed(t *testing.T) {
	c := newController(t, nil)
	for w := 0; w < 10; w++ {
		feedWindow(c, 120)
	}
	assert.Equal(t, DefaultPriority, enabledSet(c))
}

func TestZeroAndInvalidFrameTimes(t *testing.T) {
	c := newController(t, nil)

	for i := 0; i < c.opts.WindowFrames; i++ {
		c.Update(0)
	}
	assert.Equal(t, 30.0, c.AverageFPS(), "zero frame time falls back to the target")
	assert.Equal(t, 5, c.Settings().Quality)

	c.Update(math.NaN())
	c.Update(math.Inf(1))
	c.Update(-0.1)
	assert.Equal(t, 0, c.frames)
	assert.Equal(t, 0.0, c.FrameTime())

	c.Update(0.02)
	assert.Equal(t, 0.02, c.FrameTime())
}

func TestReset(t *testing.T) {
	c := newController(t, nil)
	feedWindow(c, 10)
	feedWindow(c, 10)
	require.Len(t, enabledSet(c), 3)

	c.Reset()
	assert.Equal(t, DefaultPriority, enabledSet(c))
	assert.Equal(t, 30.0, c.AverageFPS())
}

func TestUnmanagedEffectStaysOn(t *testing.T) {
	c := newController(t, func(o *Options) {
		o.Effects = []Effect{EffectShadows, EffectParticles}
	})
	feedWindow(c, 10)
	feedWindow(c, 10)
	feedWindow(c, 10)

	s := c.Settings()
	assert.False(t, s.Shadows)
	assert.False(t, s.Particles)
	assert.Equal(t, 1.0, s.BloomIntensity)
	assert.Equal(t, 1.0, s.AnimationSpeed)
	assert.Equal(t, 0, s.Quality)
	assert.Equal(t, 2, s.MaxQuality)
}

func TestTransitionsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger("info")
	log.SetOutput(&buf)
	log.EnableColors(false)

	c, err := NewController(DefaultOptions(), log)
	require.NoError(t, err)
	feedWindow(c, 15)

	assert.Contains(t, buf.String(), "(perf)")
	assert.Contains(t, buf.String(), "disabled particles")
}

func TestOptionsValidate(t *testing.T) {
	cases := map[string]func(*Options){
		"zero target":       func(o *Options) { o.TargetFPS = 0 },
		"nan target":        func(o *Options) { o.TargetFPS = math.NaN() },
		"negative margin":   func(o *Options) { o.Hysteresis = -1 },
		"empty window":      func(o *Options) { o.WindowFrames = 0 },
		"no history":        func(o *Options) { o.History = 0 },
		"negative recovery": func(o *Options) { o.RecoverySeconds = -2 },
		"duplicate effect":  func(o *Options) { o.Effects = []Effect{EffectBloom, EffectBloom} },
		"unknown effect":    func(o *Options) { o.Effects = []Effect{Effect(42)} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			opts := DefaultOptions()
			mutate(&opts)
			_, err := NewController(opts, nil)
			assert.Error(t, err)
		})
	}
}

func TestRecoveryWindows(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 3, opts.RecoveryWindows())

	opts.RecoverySeconds = 0
	assert.Equal(t, 1, opts.RecoveryWindows())

	opts.RecoverySeconds = 4
	opts.WindowFrames = 30
	assert.Equal(t, 4, opts.RecoveryWindows())
}

func TestParseEffects(t *testing.T) {
	effects, err := ParseEffects([]string{"Bloom", " shadows", "ambient_audio"})
	require.NoError(t, err)
	assert.Equal(t, []Effect{EffectBloom, EffectShadows, EffectAmbientAudio}, effects)

	_, err = ParseEffects([]string{"bloom", "bloom"})
	assert.Error(t, err)
	_, err = ParseEffects([]string{"lens_flare"})
	assert.Error(t, err)

	assert.Equal(t, "animation", EffectAnimation.String())
	assert.Equal(t, "unknown", Effect(99).String())
}

func TestFrameTimesRing(t *testing.T) {
	var ft frameTimes
	ft.init(3)
	assert.Equal(t, 0.0, ft.average())

	ft.collect(1)
	ft.collect(2)
	assert.Equal(t, 1.5, ft.average())

	ft.collect(3)
	ft.collect(6) // overwrites the 1
	assert.Equal(t, 3, ft.count())
	assert.Equal(t, 11.0/3, ft.average())

	ft.reset()
	assert.Equal(t, 0, ft.count())
}
