package effects

import "github.com/devaloop-labs/devalang-core/pkg/dsp"

// Registry maps an effect name to a prototype constructor plus its
// context availability (spec.md §4.4: "Registry maps effect name ->
// prototype with context availability in {SynthOnly, TriggerOnly,
// Both}").
type Registry struct {
	processors map[string]processorEntry
	triggers   map[string]func() TriggerEffect
}

type processorEntry struct {
	avail Availability
	build func(Params) Processor
}

// NewRegistry builds the default registry covering every effect named
// in spec.md §4.4's table.
func NewRegistry() *Registry {
	r := &Registry{
		processors: make(map[string]processorEntry),
		triggers:   make(map[string]func() TriggerEffect),
	}

	r.registerProcessor("reverb", Both, func(p Params) Processor { return NewReverb(p) })
	r.registerProcessor("delay", Both, func(p Params) Processor { return NewDelay(p) })
	r.registerProcessor("drive", Both, func(p Params) Processor { return NewDrive(p) })
	r.registerProcessor("distortion", Both, func(p Params) Processor { return NewDistortion(p) })
	r.registerProcessor("chorus", Both, func(p Params) Processor { return NewChorus(p) })
	r.registerProcessor("flanger", Both, func(p Params) Processor { return NewFlanger(p) })
	r.registerProcessor("phaser", Both, func(p Params) Processor { return NewPhaser(p) })
	r.registerProcessor("compressor", Both, func(p Params) Processor { return NewCompressor(p) })
	r.registerProcessor("lfo", Both, func(p Params) Processor { return NewLFO(p) })
	r.registerProcessor("lowpass", Both, func(p Params) Processor { return NewFilterFx(dsp.FilterLowpass, p) })
	r.registerProcessor("highpass", Both, func(p Params) Processor { return NewFilterFx(dsp.FilterHighpass, p) })
	r.registerProcessor("bandpass", Both, func(p Params) Processor { return NewFilterFx(dsp.FilterBandpass, p) })

	r.registerTrigger("reverse", func() TriggerEffect { return Reverse{} })
	r.registerTrigger("speed", func() TriggerEffect { return Speed{} })
	r.registerTrigger("slice", func() TriggerEffect { return Slice{} })
	r.registerTrigger("stretch", func() TriggerEffect { return Stretch{} })
	r.registerTrigger("roll", func() TriggerEffect { return Roll{} })
	r.registerTrigger("freeze", func() TriggerEffect { return Freeze{} })

	return r
}

func (r *Registry) registerProcessor(name string, avail Availability, build func(Params) Processor) {
	r.processors[name] = processorEntry{avail: avail, build: build}
}

func (r *Registry) registerTrigger(name string, build func() TriggerEffect) {
	r.triggers[name] = build
}

// Build constructs a named processor from a parameter map. The second
// return value is false for an unknown effect name.
func (r *Registry) Build(name string, params Params) (Processor, bool) {
	entry, ok := r.processors[name]
	if !ok {
		return nil, false
	}
	return entry.build(params), true
}

// AvailabilityOf reports the context a named processor effect may run in.
func (r *Registry) AvailabilityOf(name string) (Availability, bool) {
	entry, ok := r.processors[name]
	if !ok {
		return 0, false
	}
	return entry.avail, true
}

// BuildTrigger constructs a named trigger-only effect. The second
// return value is false for an unknown effect name.
func (r *Registry) BuildTrigger(name string) (TriggerEffect, bool) {
	build, ok := r.triggers[name]
	if !ok {
		return nil, false
	}
	return build(), true
}
