package interp

import "strconv"

// noteNames indexes a pitch class to its canonical sharp spelling, same
// table shape as the teacher's tracker.NoteToString/StringToNote but
// keyed to MIDI (C-1=0) rather than the tracker's C-0-based pitch byte.
var noteNames = map[string]uint8{
	"c": 0, "c#": 1, "db": 1,
	"d": 2, "d#": 3, "eb": 3,
	"e": 4,
	"f": 5, "f#": 6, "gb": 6,
	"g": 7, "g#": 8, "ab": 8,
	"a": 9, "a#": 10, "bb": 10,
	"b": 11,
}

// parseNoteName converts a note name like "C4", "A#3", "Eb5" to a MIDI
// number (A4=69, C4=60), or ok=false if it doesn't parse as a note name.
// Tries the two-character pitch-class prefix (letter+accidental) before
// falling back to a bare letter, so "Bb3" resolves as B-flat rather than
// B followed by a stray "b3" octave.
func parseNoteName(s string) (midi uint8, ok bool) {
	if len(s) < 2 {
		return 0, false
	}
	prefixLen := 1
	class, found := noteNames[toLower(s[:1])]
	if len(s) >= 3 {
		if c, ok2 := noteNames[toLower(s[:2])]; ok2 {
			class, found, prefixLen = c, true, 2
		}
	}
	if !found {
		return 0, false
	}
	octave, err := strconv.Atoi(s[prefixLen:])
	if err != nil {
		return 0, false
	}
	m := (octave+1)*12 + int(class)
	if m < 0 || m > 127 {
		return 0, false
	}
	return uint8(m), true
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
