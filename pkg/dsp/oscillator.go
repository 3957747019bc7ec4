// Package dsp implements the primitive DSP building blocks spec.md §4.3
// specifies: oscillators, ADSR envelopes, and one-pole filters, operating
// over f32 PCM.
package dsp

import "math"

// Waveform selects an oscillator shape.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSaw      Waveform = "saw"
	WaveSquare   Waveform = "square"
	WaveTriangle Waveform = "triangle"
)

func frac(x float64) float64 {
	return x - math.Floor(x)
}

// Oscillate returns the waveform sample at frequency f (Hz) and time t
// (seconds), per spec.md §4.3's exact formulas.
func Oscillate(wave Waveform, f, t float64) float64 {
	switch wave {
	case WaveSine:
		return math.Sin(2 * math.Pi * f * t)
	case WaveSaw:
		return 2*frac(f*t) - 1
	case WaveSquare:
		s := math.Sin(2 * math.Pi * f * t)
		switch {
		case s > 0:
			return 1
		case s < 0:
			return -1
		default:
			return 0
		}
	case WaveTriangle:
		return 2*math.Abs(2*frac(f*t)-1) - 1
	default:
		return 0
	}
}

// DetuneFactor converts a detune amount in cents to a frequency
// multiplier (spec.md §4.8 step 1).
func DetuneFactor(cents float32) float64 {
	return math.Pow(2, float64(cents)/1200)
}

// MidiToFreq converts a MIDI note number to Hz using A4=69=440Hz 12-TET.
func MidiToFreq(midi uint8) float64 {
	return 440 * math.Pow(2, (float64(midi)-69)/12)
}

// Oscillator generates successive samples of one waveform at a fixed
// frequency, tracking its own time cursor across calls.
type Oscillator struct {
	Wave       Waveform
	Freq       float64
	SampleRate int
	t          float64
}

// NewOscillator creates an oscillator starting at phase/time zero.
func NewOscillator(wave Waveform, freq float64, sampleRate int) *Oscillator {
	return &Oscillator{Wave: wave, Freq: freq, SampleRate: sampleRate}
}

// Next returns the next sample and advances the internal time cursor by
// one sample period.
func (o *Oscillator) Next() float64 {
	s := Oscillate(o.Wave, o.Freq, o.t)
	o.t += 1.0 / float64(o.SampleRate)
	return s
}

// Render fills a caller-provided buffer of mono samples.
func (o *Oscillator) Render(buf []float64) {
	for i := range buf {
		buf[i] = o.Next()
	}
}
