package interp

import (
	"strings"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/event"
)

// resolveSampleURI resolves a trigger entity like "kit.kick" to a sample
// URI via the bank registry, splitting on the last dot (spec.md §4.6
// Trigger: "resolve entity through scope, e.g. kit.kick -> URI").
func (ip *Interpreter) resolveSampleURI(entity string) (string, bool) {
	dot := strings.LastIndex(entity, ".")
	if dot < 0 {
		return "", false
	}
	alias, trig := entity[:dot], entity[dot+1:]
	return ip.banks.ResolveTrigger(alias, trig)
}

// execTrigger implements spec.md §4.6's Trigger statement: resolve
// entity, enqueue a Sample event at cursor_time, advance cursor by one
// beat.
func (ip *Interpreter) execTrigger(stmt ast.Statement) {
	beat := 60 / ip.bpm()

	uri, ok := ip.resolveSampleURI(stmt.TriggerEntity)
	if !ok {
		ip.recordDiag(diag.KindAudioLoad, stmt.Loc, "unresolved trigger entity: "+stmt.TriggerEntity, "check the bank alias and trigger name")
		ip.cursor += beat
		return
	}

	duration := beat
	if resolved, isFixed := durationInSeconds(ip.scope.ResolveValue(stmt.TriggerDur), ip.bpm()); isFixed {
		duration = resolved
	} else if pcm, found := ip.samples.GetSample(uri); found && pcm.SampleRate > 0 {
		duration = float32(pcm.Len()) / float32(pcm.SampleRate)
	}

	ev := event.AudioEvent{
		Kind:      event.KindSample,
		StartTime: ip.cursor,
		Duration:  duration,
		Velocity:  1.0,
		URI:       uri,
		Effects:   effectOverridesFromParams(stmt.TriggerEffects, ip.scope),
	}
	ip.events = append(ip.events, ev)
	ip.cursor += beat
}
