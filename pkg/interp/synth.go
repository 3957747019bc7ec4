package interp

import (
	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/dsp"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// synthFromMap builds a SynthDefinition out of a let/var/const map value
// carrying a `waveform` key or a `_plugin_ref` entry (spec.md §4.6
// Let/Var/Const semantics). ok is false for a map that is neither.
func synthFromMap(m map[string]value.Value) (event.SynthDefinition, bool) {
	def := event.SynthDefinition{Sustain: 1}

	if ref, ok := m["_plugin_ref"]; ok && ref.Kind == value.KindMap {
		def.PluginAuthor = ref.Map["author"].String()
		def.PluginName = ref.Map["name"].String()
		def.PluginExport = ref.Map["export"].String()
	}

	waveform, hasWaveform := m["waveform"]
	if !hasWaveform && def.PluginName == "" {
		return event.SynthDefinition{}, false
	}
	if hasWaveform {
		def.Waveform = dsp.Waveform(waveform.String())
	}

	if v, ok := m["attack"]; ok && v.Kind == value.KindNumber {
		def.Attack = v.Number / 1000
	}
	if v, ok := m["decay"]; ok && v.Kind == value.KindNumber {
		def.Decay = v.Number / 1000
	}
	if v, ok := m["sustain"]; ok && v.Kind == value.KindNumber {
		def.Sustain = v.Number
	}
	if v, ok := m["release"]; ok && v.Kind == value.KindNumber {
		def.Release = v.Number / 1000
	}
	if v, ok := m["synth_type"]; ok && v.Kind == value.KindString {
		def.SynthType = dsp.SynthType(v.Str)
	}

	if v, ok := m["filters"]; ok && v.Kind == value.KindArray {
		for _, item := range v.Array {
			if item.Kind != value.KindMap {
				continue
			}
			fd := dsp.FilterDef{Kind: dsp.FilterKind(item.Map["kind"].String())}
			if c, ok := item.Map["cutoff"]; ok {
				fd.CutoffHz = c.Number
			}
			if r, ok := item.Map["resonance"]; ok {
				fd.Resonance = r.Number
			}
			def.Filters = append(def.Filters, fd)
		}
	}

	if v, ok := m["options"]; ok && v.Kind == value.KindMap {
		def.Options = make(map[string]float32, len(v.Map))
		for k, ov := range v.Map {
			if ov.Kind == value.KindNumber {
				def.Options[k] = ov.Number
			}
		}
	}

	return def, true
}

// execDeclare handles Let/Var/Const: resolve the expression, bind it in
// scope, and register a SynthDefinition when the value qualifies
// (spec.md §4.6).
func (ip *Interpreter) execDeclare(name string, expr value.Value, binding value.Binding) {
	resolved := ip.scope.ResolveValue(expr)
	if !ip.scope.SetWithType(name, resolved, binding) {
		ip.recordDiagSilent("reassignment of const: " + name)
	}
	if resolved.Kind == value.KindMap {
		if def, ok := synthFromMap(resolved.Map); ok {
			ip.synths[name] = def
		}
	}
}

func (ip *Interpreter) recordDiagSilent(message string) {
	// const-reassign failures are logged without aborting the walk,
	// matching spec.md §4.1's "fails silently on re-assign".
	ip.recordDiag(diag.KindControlFlow, ast.Location{}, message, "")
}
