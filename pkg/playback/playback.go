// Package playback streams a rendered stereo buffer to the sound card
// (adapted from the teacher's mono RealtimeOutput to stereo float32
// source material, spec.md §6.2's render output shape).
package playback

import (
	"encoding/binary"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
)

// Output drives an oto player from an in-memory interleaved stereo
// float32 buffer, converting to 16-bit PCM on the fly.
type Output struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	samples []float32
	pos     int
	running bool
}

// New opens an oto context at sampleRate and begins streaming buf
// (interleaved stereo float32, clamped to [-1,1]).
func New(sampleRate int, buf []float32) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, errors.Wrap(err, "playback: open oto context")
	}
	<-ready

	out := &Output{ctx: ctx, samples: buf, running: true}
	out.player = ctx.NewPlayer(&bufferStream{out: out})
	out.player.SetBufferSize(sampleRate / 10)
	out.player.Play()
	return out, nil
}

// Done reports whether every sample has been streamed out.
func (o *Output) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pos >= len(o.samples)
}

// Close stops playback.
func (o *Output) Close() error {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
	if o.player != nil {
		return o.player.Close()
	}
	return nil
}

type bufferStream struct {
	out *Output
}

func (s *bufferStream) Read(buf []byte) (int, error) {
	s.out.mu.Lock()
	defer s.out.mu.Unlock()

	if !s.out.running {
		for i := range buf {
			buf[i] = 0
		}
		return len(buf), nil
	}

	frames := len(buf) / 4 // stereo 16-bit = 4 bytes per frame
	n := 0
	for i := 0; i < frames; i++ {
		srcIdx := s.out.pos
		var l, r float32
		if srcIdx+1 < len(s.out.samples) {
			l, r = s.out.samples[srcIdx], s.out.samples[srcIdx+1]
			s.out.pos += 2
		}
		binary.LittleEndian.PutUint16(buf[n:], uint16(clampToInt16(l)))
		binary.LittleEndian.PutUint16(buf[n+2:], uint16(clampToInt16(r)))
		n += 4
	}
	return n, nil
}

func clampToInt16(s float32) int16 {
	if s > 1 {
		s = 1
	}
	if s < -1 {
		s = -1
	}
	return int16(s * 32767)
}
