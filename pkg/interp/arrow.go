package interp

import (
	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/dsp"
	"github.com/devaloop-labs/devalang-core/pkg/event"
)

// execArrowCall runs one `target -> method(args) -> ...` chain (spec.md
// §4.6, §4.6.1) and extracts the resulting Note/Chord event (§4.6.2).
func (ip *Interpreter) execArrowCall(stmt ast.Statement) {
	ctx := &FunctionContext{
		Target:    stmt.ArrowTarget,
		StartTime: ip.cursor,
		BPM:       ip.bpm(),
	}

	resolve := ip.scope.ResolveValue

	for _, step := range stmt.ArrowChain {
		method, ok := functionRegistry[step.Method]
		if !ok {
			ip.recordDiag(diag.KindResolution, stmt.Loc, "unknown arrow-call method: "+step.Method, "check the method name")
			continue
		}
		method(ctx, step.Args, step.Named, resolve)
	}

	ip.extractEvents(ctx)
	ip.cursor += ctx.Duration
}

// normalizeVelocity applies spec.md §4.6.2's scale detection: values
// above 100 are treated as a 0..127 MIDI velocity, values above 1 as
// 0..100 percent, otherwise already 0..1. spec.md's own worked example
// (S1: velocity(100) must yield 1.0) only holds if the percent branch
// covers the full (1,100] range rather than cutting off at 2, so 100 is
// used as the MIDI/percent boundary instead of the literal "> 2" in the
// prose.
func normalizeVelocity(v float32) float32 {
	switch {
	case v > 100:
		return clamp01(v / 127)
	case v > 1:
		return clamp01(v / 100)
	default:
		return clamp01(v)
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// resolveOverride applies spec.md §4.6.2's precedence: explicit context
// value > global automation > per-note automation > default.
func (ip *Interpreter) resolveOverride(target string, hasExplicit bool, explicit float32, startTime float32, def float32) (value float32, usedPerNote bool) {
	if hasExplicit {
		return explicit, false
	}
	if v, ok := ip.automationRegistry.ValueAt(target, startTime); ok {
		return v, false
	}
	if v, ok := ip.noteAutomation.ValueAt(target, startTime); ok {
		return v, true
	}
	return def, false
}

func (ip *Interpreter) extractEvents(ctx *FunctionContext) {
	def, hasDef := ip.synths[ctx.Target]
	if !hasDef {
		ip.recordDiag(diag.KindResolution, ast.Location{}, "arrow-call target has no synth definition: "+ctx.Target, "declare it with let/var first")
	}

	duration := ctx.Duration
	if duration <= 0 {
		duration = defaultNoteDurationBeats * 60 / ctx.BPM
	}

	// Pan/detune/gain are resolved here, at schedule time, against
	// whichever automation registry (global or per-note) currently has
	// the target covered: this is where spec.md §4.8 step 7's "override
	// the snapshot's values for this event only" actually happens, so
	// the renderer downstream just uses event.Pan/Detune/Gain as-is.
	velocity, _ := ip.resolveOverride("velocity", ctx.HasVelocity, normalizeVelocity(ctx.Velocity), ctx.StartTime, 1.0)
	pan, _ := ip.resolveOverride("pan", ctx.HasPan, ctx.Pan, ctx.StartTime, 0)
	detune, _ := ip.resolveOverride("detune", ctx.HasDetune, ctx.Detune, ctx.StartTime, 0)
	gain, _ := ip.resolveOverride("gain", ctx.HasGain, ctx.Gain, ctx.StartTime, 1.0)

	base := event.AudioEvent{
		StartTime: ctx.StartTime,
		Duration:  duration,
		Velocity:  velocity,
		SynthID:   ctx.Target,
		Synth:     def.Clone(),
		Pan:       pan,
		Detune:    detune,
		Gain:      gain,
		Effects:   ctx.Effects,
	}

	if ctx.HasAttack || ctx.HasRelease {
		env := dsp.ADSR{
			AttackSec:  def.Attack,
			DecaySec:   def.Decay,
			Sustain:    def.Sustain,
			ReleaseSec: def.Release,
		}
		if ctx.HasAttack {
			env.AttackSec = ctx.AttackMs / 1000
		}
		if ctx.HasRelease {
			env.ReleaseSec = ctx.ReleaseMs / 1000
		}
		base.EnvelopeOverride = &env
	}

	if len(ctx.Notes) > 0 {
		midis := make([]uint8, 0, len(ctx.Notes))
		for _, n := range ctx.Notes {
			if m, ok := parseNoteName(n); ok {
				midis = append(midis, m)
			}
		}
		chord := base
		chord.Kind = event.KindChord
		chord.ChordMidi = midis
		if ctx.HasSpread {
			chord.Spread = ctx.Spread
		}
		ip.events = append(ip.events, chord)
		return
	}

	if ctx.Note != "" {
		midi, ok := parseNoteName(ctx.Note)
		if !ok {
			ip.recordDiag(diag.KindResolution, ast.Location{}, "unparseable note name: "+ctx.Note, "use a note name like C4 or A#3")
			return
		}
		note := base
		note.Kind = event.KindNote
		note.Midi = midi
		ip.events = append(ip.events, note)
	}
}
