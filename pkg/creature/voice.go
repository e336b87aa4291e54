package creature

import (
	"math"

	noise "biomorph/internal/math"
	"biomorph/internal/util"
)

// Voice synthesizes the creature's low breathing hum. Its loudness follows
// the Pulse curve evaluated at the times passed to Fill, which the host takes
// from the sample clock rather than the animation clock. Its pitch wanders
// with the noise field. A Voice keeps oscillator phase between calls and must only be fed
// from one goroutine.
type Voice struct {
	Pulse      Pulse
	Field      noise.Field3
	Pitch      float64 // Base frequency in Hz
	SampleRate float64
	Gain       float64

	phase float64
}

// Fill writes mono samples into buf, the first one at time start (seconds).
// Returns the time just past the last sample.
func (v *Voice) Fill(buf []float32, start float64) float64 {
	if v.SampleRate <= 0 || !util.IsFinite(start) {
		for i := range buf {
			buf[i] = 0
		}
		return start
	}

	step := 1 / v.SampleRate
	t := start
	for i := range buf {
		buf[i] = float32(v.sample(t, step))
		t += step
	}
	return t
}

// sample advances the oscillator by one step and returns the sample at t
func (v *Voice) sample(t, step float64) float64 {
	wobble := 0.0
	if v.Field != nil {
		wobble = v.Field.Eval3(t*0.5, 0, 0)
	}
	freq := v.Pitch * (1 + 0.03*wobble)

	v.phase += 2 * math.Pi * freq * step
	if v.phase > 2*math.Pi {
		v.phase = math.Mod(v.phase, 2*math.Pi)
	}

	// Breathing envelope in [0, 1]: the mesh pulse curve, on the audio clock
	breath := 0.5
	if v.Pulse.Amount != 0 {
		breath = 0.5 + 0.5*(v.Pulse.Scale(t)-v.Pulse.Base)/v.Pulse.Amount
	}

	// A touch of the second harmonic keeps it from sounding like a test tone
	tone := 0.8*math.Sin(v.phase) + 0.2*math.Sin(2*v.phase)
	return util.Clamp(tone*breath*v.Gain, -1, 1)
}
