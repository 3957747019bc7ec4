package routing

import "math"

const envelopeRateHz = 100

// rmsEnvelope computes a 100 Hz RMS envelope of an interleaved stereo
// buffer (spec.md §4.8 phase 3), returning one value per envelope
// frame and the number of samples each frame spans.
func rmsEnvelope(buf []float32, sampleRate int) (levels []float64, frameSamples int) {
	frameSamples = sampleRate / envelopeRateHz
	if frameSamples < 1 {
		frameSamples = 1
	}
	frames := len(buf) / 2 / frameSamples
	if frames == 0 {
		frames = 1
	}
	levels = make([]float64, frames)
	for f := 0; f < frames; f++ {
		start := f * frameSamples * 2
		end := start + frameSamples*2
		if end > len(buf) {
			end = len(buf)
		}
		var sum float64
		n := 0
		for i := start; i < end; i++ {
			sum += float64(buf[i]) * float64(buf[i])
			n++
		}
		if n > 0 {
			levels[f] = math.Sqrt(sum / float64(n))
		}
	}
	return levels, frameSamples
}

// ApplyDuck multiplies src's buffer down by dst's 100Hz RMS envelope
// (spec.md §4.8 phase 3: reduction = clamp((level-0.005)/(0.2-0.005),0,1),
// src *= 1 - reduction*0.95).
func ApplyDuck(src, dst []float32, sampleRate int) {
	levels, frameSamples := rmsEnvelope(dst, sampleRate)
	for f, level := range levels {
		reduction := (level - 0.005) / (0.2 - 0.005)
		if reduction < 0 {
			reduction = 0
		}
		if reduction > 1 {
			reduction = 1
		}
		mult := float32(1 - reduction*0.95)
		start := f * frameSamples * 2
		end := start + frameSamples*2
		if end > len(src) {
			end = len(src)
		}
		for i := start; i < end; i++ {
			src[i] *= mult
		}
	}
}

// ApplySidechain gates src down based on dst's envelope (spec.md §4.8
// phase 3: gate = 1 - min(level*10,1)*0.5).
func ApplySidechain(src, dst []float32, sampleRate int) {
	levels, frameSamples := rmsEnvelope(dst, sampleRate)
	for f, level := range levels {
		g := level * 10
		if g > 1 {
			g = 1
		}
		mult := float32(1 - g*0.5)
		start := f * frameSamples * 2
		end := start + frameSamples*2
		if end > len(src) {
			end = len(src)
		}
		for i := start; i < end; i++ {
			src[i] *= mult
		}
	}
}

// MixRoute mixes src into dst at gain, sample-wise (spec.md §4.8 phase
// 3: "mix src buffer into dst buffer at given gain").
func MixRoute(src, dst []float32, gain float32) {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i] * gain
	}
}
