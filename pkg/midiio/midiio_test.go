package midiio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestEncodeDecodeRoundTripPreservesNoteCount(t *testing.T) {
	notes := []NoteEvent{
		{TimeMs: 0, Note: 60, Velocity: 100, DurationMs: 500},
		{TimeMs: 500, Note: 64, Velocity: 90, DurationMs: 500},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, notes, 120))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, float64(120), decoded.BPM)
	require.Len(t, decoded.Notes, 2)
	assert.Equal(t, uint8(60), decoded.Notes[0].Note)
	assert.Equal(t, uint8(64), decoded.Notes[1].Note)
}

func TestDecodeDefaultsBPMWithoutTempoMeta(t *testing.T) {
	// Encode always writes a tempo meta event, so build a track without one.
	tr := smf.Track{}
	tr.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	require.NoError(t, s.Add(tr))
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, float64(defaultBPM), decoded.BPM)
}
