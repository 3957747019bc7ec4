package interp

import (
	"strings"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// executePattern implements spec.md §4.6.4: a step string of 'x'/'X'
// hits and rest characters, one bar (4 beats) long regardless of hit
// density, with swing/humanize/velocity/tempo options.
func (ip *Interpreter) executePattern(stmt ast.Statement) {
	bpm := ip.bpm()
	if tempo, ok := ip.patternOptNum(stmt.PatternOpts, "tempo"); ok {
		bpm = tempo
	}

	steps := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, stmt.PatternSource)
	stepCount := len(steps)
	if stepCount == 0 {
		return
	}

	barSeconds := (60 / bpm) * 4
	stepDuration := barSeconds / float32(stepCount)

	swing, _ := ip.patternOptNum(stmt.PatternOpts, "swing")
	humanize, _ := ip.patternOptNum(stmt.PatternOpts, "humanize")
	velocityOpt, hasVelocity := ip.patternOptNum(stmt.PatternOpts, "velocity")

	uri, hasURI := ip.resolveSampleURI(stmt.PatternTarget)
	if !hasURI {
		ip.recordDiagSilentSample(stmt.PatternTarget)
	}

	for i, ch := range steps {
		if ch != 'x' && ch != 'X' {
			continue
		}
		swingOffset := float32(0)
		if i%2 == 1 {
			swingOffset = swing * stepDuration
		}
		humanizeOffset := float32(0)
		if humanize > 0 {
			humanizeOffset = (ip.rng.Float32()*2 - 1) * humanize
		}

		velocity := float32(1.0)
		if hasVelocity {
			velocity = normalizeVelocity(velocityOpt * 100)
		}

		if !hasURI {
			continue
		}
		startTime := ip.cursor + float32(i)*stepDuration + swingOffset + humanizeOffset
		if startTime < 0 {
			// Humanize can jitter a hit negative when it lands near
			// cursor 0; render-floor-clamp it (SPEC_FULL.md §9 Open
			// Question resolution 1, spec.md §3 invariant 1).
			startTime = 0
		}
		ip.events = append(ip.events, event.AudioEvent{
			Kind:      event.KindSample,
			StartTime: startTime,
			Duration:  stepDuration,
			Velocity:  velocity,
			URI:       uri,
		})
	}

	ip.cursor += barSeconds
}

func (ip *Interpreter) patternOptNum(opts map[string]value.Value, key string) (float32, bool) {
	v, ok := opts[key]
	if !ok {
		return 0, false
	}
	resolved := ip.scope.ResolveValue(v)
	if resolved.Kind != value.KindNumber {
		return 0, false
	}
	return resolved.Number, true
}

func (ip *Interpreter) recordDiagSilentSample(target string) {
	ip.recordDiag(diag.KindAudioLoad, ast.Location{}, "pattern target does not resolve to a sample: "+target, "")
}
