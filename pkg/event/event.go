// Package event defines the scheduled AudioEvent union and the
// SynthDefinition snapshot it carries (spec.md §3).
package event

import "github.com/devaloop-labs/devalang-core/pkg/dsp"

// Kind tags an AudioEvent's payload.
type Kind uint8

const (
	KindNote Kind = iota
	KindChord
	KindSample
)

// SynthDefinition is a snapshot of a synth's parameters taken at
// event-creation time (spec.md §3 invariant 2): later mutation of the
// bound synth via `target.property = v` never retroactively changes a
// note already scheduled against this snapshot.
type SynthDefinition struct {
	Waveform   dsp.Waveform // "plugin" is represented by PluginName != ""
	Attack     float32      // seconds
	Decay      float32      // seconds
	Sustain    float32      // 0..1
	Release    float32      // seconds
	SynthType  dsp.SynthType
	Filters    []dsp.FilterDef
	Options    map[string]float32

	PluginAuthor string
	PluginName   string
	PluginExport string
}

// Clone returns an independent copy so later mutation of the source synth
// table never reaches back into an already-scheduled event.
func (d SynthDefinition) Clone() SynthDefinition {
	cp := d
	if d.Filters != nil {
		cp.Filters = append([]dsp.FilterDef(nil), d.Filters...)
	}
	if d.Options != nil {
		cp.Options = make(map[string]float32, len(d.Options))
		for k, v := range d.Options {
			cp.Options[k] = v
		}
	}
	return cp
}

// EffectOverrides carries arrow-call builder effect settings attached to
// a single note/chord (spec.md §4.6.1, applied in render order
// drive -> reverb -> delay per spec.md §4.8 step 6).
type EffectOverrides struct {
	DriveAmount, DriveColor           float32
	HasDrive                         bool
	ReverbAmount                     float32
	HasReverb                        bool
	DelayTimeMs, DelayFeedback, DelayMix float32
	HasDelay                         bool
	ChorusDepth, ChorusRate          float32
	HasChorus                       bool
	FlangerDepth, FlangerRate, FlangerFeedback float32
	HasFlanger                      bool
	PhaserStages, PhaserRate, PhaserDepth, PhaserFeedback float32
	HasPhaser                       bool
	CompressorThresholdDB, CompressorRatio float32
	HasCompressor                   bool
}

// AudioEvent is the tagged union scheduled by the collector and consumed
// by the renderer (spec.md §3).
type AudioEvent struct {
	Kind Kind

	// Note
	Midi     uint8
	StartTime float32 // seconds
	Duration  float32 // seconds
	Velocity  float32 // 0..1
	SynthID   string
	Synth     SynthDefinition
	Pan       float32 // -1..1
	Detune    float32 // cents
	Gain      float32
	EnvelopeOverride *dsp.ADSR
	Effects          EffectOverrides

	// Chord
	ChordMidi []uint8
	Spread    float32 // 0..1

	// Sample
	URI string
}

// End returns the event's scheduled end time in seconds.
func (e AudioEvent) End() float32 {
	return e.StartTime + e.Duration
}
