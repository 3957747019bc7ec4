package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampToInt16SaturatesAtRange(t *testing.T) {
	assert.Equal(t, int16(32767), clampToInt16(2))
	assert.Equal(t, int16(-32767), clampToInt16(-2))
	assert.Equal(t, int16(0), clampToInt16(0))
}

func TestBufferStreamReadAdvancesPositionAndConverts(t *testing.T) {
	out := &Output{samples: []float32{1, -1, 0.5, -0.5}, running: true}
	stream := &bufferStream{out: out}

	buf := make([]byte, 8) // 2 stereo frames
	n, err := stream.Read(buf)

	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.True(t, out.Done())
}

func TestBufferStreamReadPastEndYieldsSilence(t *testing.T) {
	out := &Output{samples: []float32{1, 1}, running: true}
	stream := &bufferStream{out: out}

	buf := make([]byte, 8)
	_, _ = stream.Read(buf)

	buf2 := make([]byte, 8)
	n, err := stream.Read(buf2)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	for _, b := range buf2 {
		assert.Equal(t, byte(0), b)
	}
}

func TestBufferStreamReadAfterCloseEmitsSilence(t *testing.T) {
	out := &Output{samples: []float32{1, 1, 1, 1}, running: false}
	stream := &bufferStream{out: out}

	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = 0xFF
	}
	n, err := stream.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}
}
