package interp

import (
	"strconv"
	"strings"

	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// durationInSeconds implements spec.md §4.6.x's duration_in_seconds(d,
// bpm): milliseconds convert directly, beats scale by 60/bpm, a bare
// number is treated as milliseconds, a "num/den" beat-fraction string
// scales similarly, and an identifier/auto duration has no fixed value
// (ok=false; the caller falls back to sample length or 0.25 beats).
func durationInSeconds(d value.Value, bpm float32) (seconds float32, ok bool) {
	beatSeconds := 60 / bpm

	switch d.Kind {
	case value.KindDuration:
		switch d.Duration.Kind {
		case value.DurationMillis:
			return d.Duration.Millis / 1000, true
		case value.DurationBeats:
			return d.Duration.Beats * beatSeconds, true
		case value.DurationNumberMs:
			return d.Duration.Number / 1000, true
		case value.DurationBeatFraction:
			num, den, fracOK := parseFraction(d.Duration.Fraction)
			if !fracOK {
				return 0, false
			}
			return (num / den) * beatSeconds, true
		default:
			return 0, false
		}
	case value.KindNumber:
		return d.Number / 1000, true
	default:
		return 0, false
	}
}

func parseFraction(s string) (num, den float32, ok bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	n, errN := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	dv, errD := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if errN != nil || errD != nil || dv == 0 {
		return 0, 0, false
	}
	return float32(n), float32(dv), true
}

// defaultNoteDurationBeats is the fallback used when a note's duration
// can't be resolved to a fixed value (spec.md §4.6.x).
const defaultNoteDurationBeats = 0.25
