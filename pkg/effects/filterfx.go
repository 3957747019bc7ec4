package effects

import "github.com/devaloop-labs/devalang-core/pkg/dsp"

// FilterFx wraps a one-pole dsp filter as a Processor so it can live in
// an effect chain alongside reverb/delay/etc (spec.md §4.4 table).
type FilterFx struct {
	Kind      dsp.FilterKind
	CutoffHz  float32
	Resonance float32
}

// NewFilterFx builds a filter effect from a parameter map.
func NewFilterFx(kind dsp.FilterKind, p Params) *FilterFx {
	return &FilterFx{
		Kind:      kind,
		CutoffHz:  p.Get("cutoff_hz", 1000),
		Resonance: clamp(p.Get("resonance", 0), 0, 1),
	}
}

func (f *FilterFx) Process(samples []float32, sampleRate int) {
	dsp.Apply(samples, dsp.FilterDef{Kind: f.Kind, CutoffHz: f.CutoffHz, Resonance: f.Resonance}, sampleRate)
}

func (f *FilterFx) Reset() {}

func (f *FilterFx) Name() string { return string(f.Kind) }
