// Package wavio decodes and encodes PCM WAV files on behalf of the
// sample registry and the render output path (spec.md §6.4: "WAV
// (host-provided): PCM16/24/float32; any sample rate; mono or stereo").
package wavio

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const pcmFormat = 1

// Decode reads a WAV file fully into an interleaved stereo float32
// buffer in [-1,1], upmixing mono sources by duplicating the single
// channel, and reports the file's native sample rate.
func Decode(r io.Reader) (samples []float32, sampleRate int, err error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("wavio: not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, errors.Wrap(err, "wavio: decode PCM buffer")
	}

	sampleRate = int(dec.SampleRate)
	channels := int(dec.NumChans)
	maxAmp := float64(int(1) << (buf.SourceBitDepth - 1))
	if buf.SourceBitDepth == 0 {
		maxAmp = 32768
	}

	frames := len(buf.Data) / channels
	samples = make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		var l, r float32
		if channels >= 2 {
			l = float32(float64(buf.Data[i*channels]) / maxAmp)
			r = float32(float64(buf.Data[i*channels+1]) / maxAmp)
		} else {
			v := float32(float64(buf.Data[i]) / maxAmp)
			l, r = v, v
		}
		samples[i*2] = l
		samples[i*2+1] = r
	}
	return samples, sampleRate, nil
}

// Encode writes an interleaved stereo float32 buffer (clamped to
// [-1,1]) to w as 16-bit PCM WAV at sampleRate.
func Encode(w io.WriteSeeker, samples []float32, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 2, pcmFormat)

	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		}
		if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "wavio: write PCM buffer")
	}
	return errors.Wrap(enc.Close(), "wavio: close encoder")
}
