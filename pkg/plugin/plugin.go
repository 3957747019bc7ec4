// Package plugin defines the Go-side calling convention for sandboxed
// DSP plugins (spec.md §6.3). It deliberately stops at the interface
// boundary: no WASM or FFI loader lives here, since the real guest
// runtime is out of scope for the audio engine core.
package plugin

import "github.com/pkg/errors"

// Instance is a loaded plugin's callable surface. A real loader (WASM
// or native FFI) implements this by resolving guest exports; the
// engine core only ever depends on the interface.
type Instance interface {
	// RenderNote fills buf (interleaved stereo f32) with durationMs of
	// audio at freqHz/amplitude, preferring an export named after name
	// (render_note_{name} or synth_{name}) and falling back to the
	// generic render_note/synth export.
	RenderNote(name string, buf []float32, freqHz, amplitude float32, durationMs float32, sampleRate, channels int) error

	// SetParam calls a numeric setter (set_{param}, set_synth_{param},
	// or set_note_{param}) before the next RenderNote call.
	SetParam(param string, value float32) error

	// SetParamString calls a string setter (set_{param}_str).
	SetParamString(param string, value string) error
}

// Ref identifies which plugin export triple a SynthDefinition resolved
// to (spec.md §4.6: "plugin triple if resolvable").
type Ref struct {
	Author string
	Name   string
	Export string
}

// ErrPluginFailed wraps any error RenderNote/SetParam* returns so the
// renderer can recognize a plugin-specific failure and substitute
// silence per spec.md §6.3 ("Plugin failure surfaces as a diagnostic;
// the host substitutes silence").
var ErrPluginFailed = errors.New("plugin call failed")

// RenderOrSilence calls inst.RenderNote and, on any error, zeroes buf
// and returns the wrapped failure instead of propagating a partially
// written buffer.
func RenderOrSilence(inst Instance, ref Ref, buf []float32, freqHz, amplitude, durationMs float32, sampleRate, channels int) error {
	if inst == nil {
		for i := range buf {
			buf[i] = 0
		}
		return errors.Wrap(ErrPluginFailed, "no plugin instance loaded")
	}

	name := ref.Export
	if name == "" {
		name = ref.Name
	}
	if err := inst.RenderNote(name, buf, freqHz, amplitude, durationMs, sampleRate, channels); err != nil {
		for i := range buf {
			buf[i] = 0
		}
		return errors.Wrapf(ErrPluginFailed, "plugin %s/%s: %v", ref.Author, ref.Name, err)
	}
	return nil
}
