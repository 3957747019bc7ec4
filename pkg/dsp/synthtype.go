package dsp

import "math"

// SynthType perturbs oscillator+ADSR output beyond plain waveform
// selection. Supplemented from original_source's `SynthType` enum
// (rust/core/audio/engine/synth.rs), dropped from spec.md's distillation
// but cheap to carry since SynthDefinition already reserves the field
// (spec.md §3 "optional synth-type").
type SynthType string

const (
	SynthPluck SynthType = "pluck"
	SynthArp   SynthType = "arp"
	SynthPad   SynthType = "pad"
	SynthBass  SynthType = "bass"
	SynthLead  SynthType = "lead"
	SynthKeys  SynthType = "keys"
)

// ShapeSynthType applies a shape to raw mono oscillator samples, keyed by
// synth type; the renderer applies the ADSR envelope afterwards:
//
//   - pluck: an extra fast decay curve on top of the ADSR, mimicking a
//     plucked string's rapid energy loss.
//   - arp: re-triggers the note's 2nd and 3rd harmonic partials at
//     one-third intervals across the note, approximating an arpeggiated
//     chord from a single oscillator.
//   - pad: a linear gain ramp from silence over the first quarter of the
//     note, softening the onset.
//   - bass: adds a sub-harmonic an octave below at reduced amplitude.
//   - lead: slight overtone brightening via a small second-harmonic mix.
//   - keys: a short percussive transient added at note onset.
func ShapeSynthType(synthType SynthType, samples []float64, freq float64, sampleRate int) {
	switch synthType {
	case SynthPluck:
		for i := range samples {
			t := float64(i) / float64(sampleRate)
			samples[i] *= math.Exp(-t * 6)
		}
	case SynthArp:
		third := len(samples) / 3
		for i := range samples {
			t := float64(i) / float64(sampleRate)
			switch {
			case i >= 2*third:
				samples[i] = 0.6 * Oscillate(WaveSine, freq*3, t)
			case i >= third:
				samples[i] = 0.8 * Oscillate(WaveSine, freq*2, t)
			}
		}
	case SynthPad:
		rampLen := len(samples) / 4
		for i := 0; i < rampLen && i < len(samples); i++ {
			g := float64(i) / float64(max1(rampLen))
			samples[i] *= g
		}
	case SynthBass:
		for i := range samples {
			t := float64(i) / float64(sampleRate)
			samples[i] += 0.35 * Oscillate(WaveSine, freq/2, t)
		}
	case SynthLead:
		for i := range samples {
			t := float64(i) / float64(sampleRate)
			samples[i] += 0.15 * Oscillate(WaveSine, freq*2, t)
		}
	case SynthKeys:
		transientLen := int(0.005 * float64(sampleRate))
		for i := 0; i < transientLen && i < len(samples); i++ {
			g := 1 - float64(i)/float64(max1(transientLen))
			samples[i] += 0.4 * g
		}
	}
}
