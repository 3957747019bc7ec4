// Package midiio decodes and encodes Standard MIDI Files on behalf of
// `load ... as midi` bindings and render-time MIDI export (spec.md
// §6.4: "MIDI (host-provided): decoded to {notes: [...], bpm} map;
// encoded from Note events on export").
package midiio

import (
	"io"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultBPM = 120

// NoteEvent is one decoded note-on/note-off pair.
type NoteEvent struct {
	TimeMs     float64
	Note       uint8
	Velocity   uint8
	DurationMs float64
}

// File is the decoded shape spec.md §6.4 names directly.
type File struct {
	Notes []NoteEvent
	BPM   float64
}

// Decode reads an SMF from r and pairs note-on/note-off events into
// NoteEvent list with absolute start times and durations in
// milliseconds, plus the tempo found in a meta-tempo event (falling
// back to 120 BPM when none is present).
func Decode(r io.Reader) (File, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return File{}, errors.Wrap(err, "midiio: read SMF")
	}

	ticksPerQuarter := float64(960)
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		ticksPerQuarter = float64(mt.Ticks())
	}

	bpm := float64(defaultBPM)
	type pending struct {
		startMs  float64
		velocity uint8
	}

	var notes []NoteEvent
	for _, tr := range s.Tracks {
		var absTicks uint32
		active := make(map[uint8]pending)
		msPerTick := 60000.0 / (float64(bpm) * ticksPerQuarter)

		for _, ev := range tr {
			absTicks += ev.Delta
			nowMs := float64(absTicks) * msPerTick

			var tempoBPM float64
			if ev.Message.GetMetaTempo(&tempoBPM) {
				bpm = tempoBPM
				msPerTick = 60000.0 / (float64(bpm) * ticksPerQuarter)
				continue
			}

			var ch, key, vel uint8
			if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
				active[key] = pending{startMs: nowMs, velocity: vel}
				continue
			}
			if ev.Message.GetNoteOff(&ch, &key, &vel) || (ev.Message.GetNoteOn(&ch, &key, &vel) && vel == 0) {
				if p, ok := active[key]; ok {
					notes = append(notes, NoteEvent{
						TimeMs:     p.startMs,
						Note:       key,
						Velocity:   p.velocity,
						DurationMs: nowMs - p.startMs,
					})
					delete(active, key)
				}
			}
		}
	}

	return File{Notes: notes, BPM: bpm}, nil
}

type noteEdge struct {
	tick uint32
	on   bool
	note uint8
	vel  uint8
}

func sortEdges(edges []noteEdge) {
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && edges[j].tick < edges[j-1].tick; j-- {
			edges[j], edges[j-1] = edges[j-1], edges[j]
		}
	}
}

// Encode writes notes to w as a single-track SMF at the given BPM.
func Encode(w io.Writer, notes []NoteEvent, bpm float64) error {
	const ticksPerQuarter = 960
	msPerTick := 60000.0 / (bpm * ticksPerQuarter)

	edges := make([]noteEdge, 0, len(notes)*2)
	for _, n := range notes {
		startTick := uint32(n.TimeMs / msPerTick)
		endTick := uint32((n.TimeMs + n.DurationMs) / msPerTick)
		edges = append(edges,
			noteEdge{tick: startTick, on: true, note: n.Note, vel: n.Velocity},
			noteEdge{tick: endTick, on: false, note: n.Note},
		)
	}
	sortEdges(edges)

	tr := smf.Track{}
	tr.Add(0, smf.MetaTempo(bpm))

	var lastTick uint32
	for _, e := range edges {
		delta := e.tick - lastTick
		lastTick = e.tick
		if e.on {
			tr.Add(delta, midi.NoteOn(0, e.note, e.vel))
		} else {
			tr.Add(delta, midi.NoteOff(0, e.note))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	if err := s.Add(tr); err != nil {
		return errors.Wrap(err, "midiio: add track")
	}
	_, err := s.WriteTo(w)
	return errors.Wrap(err, "midiio: write SMF")
}
