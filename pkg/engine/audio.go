package engine

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"

	"biomorph/internal/logger"
	"biomorph/pkg/creature"
)

const (
	framesPerBuffer = 1024
	numChannels     = 2

	// Gain change per sample when the hum is switched on or off
	fadeStep = 1.0 / 4096
)

// AudioEngine plays the creature's voice on the default output device
type AudioEngine struct {
	voice  *creature.Voice
	stream *portaudio.Stream
	log    *logger.Logger

	mono  []float32
	clock float64
	gain  float64

	mutex   sync.Mutex
	enabled bool
}

// NewAudioEngine opens and starts an output stream fed by voice. Loudness
// comes from the voice's own gain.
func NewAudioEngine(voice *creature.Voice, log *logger.Logger) (*AudioEngine, error) {
	if voice.SampleRate <= 0 {
		return nil, errors.Errorf("invalid sample rate %v", voice.SampleRate)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize PortAudio")
	}

	ae := &AudioEngine{
		voice:   voice,
		log:     log.With("audio"),
		mono:    make([]float32, framesPerBuffer),
		enabled: true,
	}

	stream, err := portaudio.OpenDefaultStream(0, numChannels, voice.SampleRate, framesPerBuffer, ae.audioCallback)
	if err != nil {
		portaudio.Terminate()
		return nil, errors.Wrap(err, "failed to open audio stream")
	}
	ae.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, errors.Wrap(err, "failed to start audio stream")
	}

	ae.log.Infof("audio stream started at %.0f Hz", voice.SampleRate)
	return ae, nil
}

// SetEnabled fades the hum in or out
func (ae *AudioEngine) SetEnabled(enabled bool) {
	ae.mutex.Lock()
	defer ae.mutex.Unlock()

	if ae.enabled != enabled {
		ae.log.Debugf("ambient audio enabled=%v", enabled)
	}
	ae.enabled = enabled
}

// audioCallback is called by PortAudio to fill the interleaved output buffer
func (ae *AudioEngine) audioCallback(out []float32) {
	ae.mutex.Lock()
	target := 0.0
	if ae.enabled {
		target = 1
	}
	ae.mutex.Unlock()

	frames := len(out) / numChannels
	if len(ae.mono) < frames {
		ae.mono = make([]float32, frames)
	}
	mono := ae.mono[:frames]
	ae.clock = ae.voice.Fill(mono, ae.clock)

	for i, s := range mono {
		switch {
		case ae.gain < target:
			ae.gain = math.Min(ae.gain+fadeStep, target)
		case ae.gain > target:
			ae.gain = math.Max(ae.gain-fadeStep, target)
		}

		v := softClip(float64(s) * ae.gain)
		for ch := 0; ch < numChannels; ch++ {
			out[i*numChannels+ch] = float32(v)
		}
	}
}

// softClip keeps samples within [-1, 1] without a hard edge
func softClip(v float64) float64 {
	return math.Tanh(v)
}

// Shutdown stops the stream and releases PortAudio
func (ae *AudioEngine) Shutdown() {
	if ae.stream != nil {
		if err := ae.stream.Stop(); err != nil {
			ae.log.Warnf("failed to stop audio stream: %v", err)
		}
		ae.stream.Close()
	}
	portaudio.Terminate()
}
