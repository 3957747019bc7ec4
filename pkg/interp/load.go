package interp

import (
	"os"
	"strings"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/midiio"
	"github.com/devaloop-labs/devalang-core/pkg/registry"
	"github.com/devaloop-labs/devalang-core/pkg/value"
	"github.com/devaloop-labs/devalang-core/pkg/wavio"
)

// midiFile looks up a decoded MIDI load in midiFilesMap by the alias it
// was loaded under, so a later Bind statement can replay its notes
// (spec.md §4.6 Bind).
func (ip *Interpreter) midiFile(alias string) (midiio.File, bool) {
	if ip.midiFilesMap == nil {
		return midiio.File{}, false
	}
	f, ok := ip.midiFilesMap[alias]
	return f, ok
}

func (ip *Interpreter) execBank(stmt ast.Statement) {
	alias := stmt.BankAlias
	if alias == "" {
		alias = lastDottedComponent(stmt.Name)
	}
	ip.banks.Alias(stmt.Name, alias)
	ip.scope.SetWithType(stmt.Name, value.Map(map[string]value.Value{
		"_name":  value.String(stmt.Name),
		"_alias": value.String(alias),
	}), value.BindLet)
}

func lastDottedComponent(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return name
	}
	return name[dot+1:]
}

func (ip *Interpreter) execLoad(stmt ast.Statement) {
	lower := strings.ToLower(stmt.LoadSource)
	f, err := os.Open(stmt.LoadSource)
	if err != nil {
		ip.recordDiag(diag.KindAudioLoad, stmt.Loc, "failed to load "+stmt.LoadSource+": "+err.Error(), "check the file path")
		return
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi"):
		midiFile, decErr := midiio.Decode(f)
		if decErr != nil {
			ip.recordDiag(diag.KindAudioLoad, stmt.Loc, "failed to decode MIDI "+stmt.LoadSource+": "+decErr.Error(), "")
			return
		}
		if ip.midiFilesMap == nil {
			ip.midiFilesMap = make(map[string]midiio.File)
		}
		ip.midiFilesMap[stmt.LoadAlias] = midiFile

		notes := make([]value.Value, 0, len(midiFile.Notes))
		for _, n := range midiFile.Notes {
			notes = append(notes, value.Map(map[string]value.Value{
				"time_ms":     value.Number(float32(n.TimeMs)),
				"note":        value.Number(float32(n.Note)),
				"velocity":    value.Number(float32(n.Velocity)),
				"duration_ms": value.Number(float32(n.DurationMs)),
			}))
		}
		ip.scope.SetWithType(stmt.LoadAlias, value.Map(map[string]value.Value{
			"notes": value.Array(notes),
			"bpm":   value.Number(float32(midiFile.BPM)),
		}), value.BindLet)

	default:
		samples, sampleRate, decErr := wavio.Decode(f)
		if decErr != nil {
			ip.recordDiag(diag.KindAudioLoad, stmt.Loc, "failed to decode sample "+stmt.LoadSource+": "+decErr.Error(), "")
			return
		}
		uri := "file://" + stmt.LoadSource
		ip.samples.RegisterSample(uri, registry.PCM{Stereo: true, Stereo32: samples, SampleRate: sampleRate})
		ip.scope.SetWithType(stmt.LoadAlias, value.String(uri), value.BindLet)
	}
}

// execBind implements spec.md §4.6's Bind statement: replay a loaded
// MIDI file's notes as Note events against a target synth, rescaled by
// interpreter_bpm / source_bpm.
func (ip *Interpreter) execBind(stmt ast.Statement) {
	file, ok := ip.midiFile(stmt.BindSource)
	if !ok {
		ip.recordDiag(diag.KindResolution, stmt.Loc, "bind source is not a loaded MIDI file: "+stmt.BindSource, "load it first")
		return
	}
	def, hasDef := ip.synths[stmt.BindTarget]
	if !hasDef {
		ip.recordDiag(diag.KindResolution, stmt.Loc, "bind target has no synth definition: "+stmt.BindTarget, "")
	}

	velocityOverride, hasVelocityOverride := float32(0), false
	if v, ok := stmt.BindOptions["velocity"]; ok {
		resolved := ip.scope.ResolveValue(v)
		if resolved.Kind == value.KindNumber {
			velocityOverride, hasVelocityOverride = resolved.Number, true
		}
	}

	sourceBPM := file.BPM
	if sourceBPM <= 0 {
		sourceBPM = float64(ip.bpm())
	}
	scale := float32(float64(ip.bpm()) / sourceBPM)

	for _, n := range file.Notes {
		ip.appendBoundNote(stmt.BindTarget, def, n, scale, velocityOverride, hasVelocityOverride)
	}
}

func (ip *Interpreter) appendBoundNote(target string, def event.SynthDefinition, n midiio.NoteEvent, scale float32, velocityOverride float32, hasVelocityOverride bool) {
	// A decoded MIDI file's velocity byte is unambiguously 0..127, unlike
	// an arrow-call velocity(v) literal (spec.md §4.6.2's scale-detect
	// heuristic doesn't apply here): divide by 127 directly rather than
	// guessing the caller's intended scale.
	velocity := clamp01(float32(n.Velocity) / 127)
	if hasVelocityOverride {
		velocity = normalizeVelocity(velocityOverride)
	}
	ip.events = append(ip.events, event.AudioEvent{
		Kind:      event.KindNote,
		Midi:      n.Note,
		StartTime: ip.cursor + float32(n.TimeMs)/1000*scale,
		Duration:  float32(n.DurationMs) / 1000 * scale,
		Velocity:  velocity,
		SynthID:   target,
		Synth:     def.Clone(),
	})
}
