package render

import (
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/dsp"
	"github.com/devaloop-labs/devalang-core/pkg/effects"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/plugin"
)

// synthesizeNote renders one MIDI note of ev's synth snapshot into an
// interleaved stereo buffer spanning ev.Duration seconds, following
// spec.md §4.8 phase 1's note-synthesis steps 1-6 in order. pan is the
// already-resolved per-note pan (plain for a Note event, spread-adjusted
// for one voice of a Chord).
func (r *renderer) synthesizeNote(ev event.AudioEvent, midi uint8, pan float32) []float32 {
	sampleRate := r.opts.SampleRate
	totalSamples := int(ev.Duration * float32(sampleRate))
	if totalSamples <= 0 {
		return nil
	}

	def := ev.Synth
	freq := dsp.MidiToFreq(midi) * dsp.DetuneFactor(ev.Detune)

	out := make([]float32, totalSamples*2)
	if def.PluginName != "" {
		r.renderPluginNote(def, out, freq, totalSamples)
	} else {
		r.renderOscillatorNote(def, out, freq, totalSamples)
	}

	dsp.ApplyChain(out, def.Filters, sampleRate)

	left, right := dsp.ConstantPowerPan(pan)
	amp := ev.Velocity * ev.Gain
	for i := 0; i < totalSamples; i++ {
		out[2*i] *= float32(left) * amp
		out[2*i+1] *= float32(right) * amp
	}

	r.applyNoteEffects(out, ev.Effects)
	return out
}

// renderOscillatorNote implements §4.8 phase 1 step 2's non-plugin
// branch: oscillator samples shaped by synth-type, scaled by the ADSR
// envelope, duplicated to both channels.
func (r *renderer) renderOscillatorNote(def event.SynthDefinition, out []float32, freq float64, totalSamples int) {
	sampleRate := r.opts.SampleRate
	osc := dsp.NewOscillator(def.Waveform, freq, sampleRate)
	mono := make([]float64, totalSamples)
	osc.Render(mono)
	if def.SynthType != "" {
		dsp.ShapeSynthType(def.SynthType, mono, freq, sampleRate)
	}

	env := dsp.ADSR{AttackSec: def.Attack, DecaySec: def.Decay, Sustain: def.Sustain, ReleaseSec: def.Release}
	gains := env.Envelope(totalSamples, sampleRate)

	for i := 0; i < totalSamples; i++ {
		s := float32(mono[i]) * gains[i]
		out[2*i] = s
		out[2*i+1] = s
	}
}

// renderPluginNote implements §4.8 phase 1 step 2's plugin branch
// (spec.md §6.3): the guest owns its own envelope, so the host just
// calls the contract and substitutes silence on failure.
func (r *renderer) renderPluginNote(def event.SynthDefinition, out []float32, freq float64, totalSamples int) {
	var inst plugin.Instance
	if r.opts.Plugins != nil {
		inst, _ = r.opts.Plugins(def.PluginAuthor, def.PluginName)
	}
	ref := plugin.Ref{Author: def.PluginAuthor, Name: def.PluginName, Export: def.PluginExport}
	durationMs := float32(totalSamples) / float32(r.opts.SampleRate) * 1000
	if err := plugin.RenderOrSilence(inst, ref, out, float32(freq), 1.0, durationMs, r.opts.SampleRate, 2); err != nil {
		r.recordDiag(diag.KindPlugin, err.Error())
	}
}

// applyNoteEffects runs the per-note effect processors an arrow-call
// builder attached, in spec.md §4.8 step 6's fixed order: drive, then
// reverb, then delay.
func (r *renderer) applyNoteEffects(buf []float32, eo event.EffectOverrides) {
	sampleRate := r.opts.SampleRate
	if eo.HasDrive {
		effects.NewDrive(effects.Params{"amount": eo.DriveAmount, "color": eo.DriveColor}).Process(buf, sampleRate)
	}
	if eo.HasReverb {
		effects.NewReverb(effects.Params{"size": eo.ReverbAmount}).Process(buf, sampleRate)
	}
	if eo.HasDelay {
		effects.NewDelay(effects.Params{
			"time_ms":  eo.DelayTimeMs,
			"feedback": eo.DelayFeedback,
			"mix":      eo.DelayMix,
		}).Process(buf, sampleRate)
	}
	if eo.HasChorus {
		effects.NewChorus(effects.Params{"depth": eo.ChorusDepth, "rate_hz": eo.ChorusRate}).Process(buf, sampleRate)
	}
	if eo.HasFlanger {
		effects.NewFlanger(effects.Params{
			"depth":    eo.FlangerDepth,
			"rate_hz":  eo.FlangerRate,
			"feedback": eo.FlangerFeedback,
		}).Process(buf, sampleRate)
	}
	if eo.HasPhaser {
		effects.NewPhaser(effects.Params{
			"stages":   eo.PhaserStages,
			"rate_hz":  eo.PhaserRate,
			"depth":    eo.PhaserDepth,
			"feedback": eo.PhaserFeedback,
		}).Process(buf, sampleRate)
	}
	if eo.HasCompressor {
		effects.NewCompressor(effects.Params{
			"threshold_db": eo.CompressorThresholdDB,
			"ratio":        eo.CompressorRatio,
		}).Process(buf, sampleRate)
	}
}
