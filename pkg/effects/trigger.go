package effects

// TriggerEffect is the contract for the trigger-only time-domain effects
// (spec.md §4.4: reverse, speed, slice, stretch, roll, freeze). Unlike
// Processor, these may change buffer length (speed/stretch resample;
// roll/freeze can extend), so they are a distinct, buffer-returning
// contract applied once at sample-playback time rather than per-render
// stereo bus processing.
type TriggerEffect interface {
	Apply(samples []float32, sampleRate int, params Params) []float32
	Name() string
}

// Reverse plays the sample buffer backward (stereo frame order preserved
// within each reversed frame position).
type Reverse struct{}

func (Reverse) Apply(samples []float32, sampleRate int, params Params) []float32 {
	n := len(samples)
	out := make([]float32, n)
	frames := n / 2
	for i := 0; i < frames; i++ {
		src := (frames - 1 - i) * 2
		out[i*2], out[i*2+1] = samples[src], samples[src+1]
	}
	return out
}

func (Reverse) Name() string { return "reverse" }

// Speed re-samples the buffer by a playback-rate ratio (params["ratio"],
// default 1; >1 plays faster/higher, <1 slower/lower) using linear
// interpolation.
type Speed struct{}

func (Speed) Apply(samples []float32, sampleRate int, params Params) []float32 {
	ratio := params.Get("ratio", 1)
	if ratio <= 0 {
		ratio = 1
	}
	frames := len(samples) / 2
	outFrames := int(float32(frames) / ratio)
	out := make([]float32, outFrames*2)
	for i := 0; i < outFrames; i++ {
		srcPos := float32(i) * ratio
		i0 := int(srcPos)
		i1 := i0 + 1
		frac := srcPos - float32(i0)
		if i1 >= frames {
			i1 = frames - 1
		}
		if i0 >= frames {
			i0 = frames - 1
		}
		out[i*2] = samples[i0*2]*(1-frac) + samples[i1*2]*frac
		out[i*2+1] = samples[i0*2+1]*(1-frac) + samples[i1*2+1]*frac
	}
	return out
}

func (Speed) Name() string { return "speed" }

// Slice cuts the buffer into params["slices"] (default 8) fixed-length
// chunks and joins them back in their original order; frames after the
// last whole chunk are dropped. The chunks are not re-ordered, and no
// order parameter is read.
type Slice struct{}

func (Slice) Apply(samples []float32, sampleRate int, params Params) []float32 {
	sliceCount := int(params.Get("slices", 8))
	if sliceCount < 1 {
		sliceCount = 1
	}
	frames := len(samples) / 2
	chunkFrames := frames / sliceCount
	if chunkFrames < 1 {
		return samples
	}
	out := make([]float32, 0, len(samples))
	for s := 0; s < sliceCount; s++ {
		start := s * chunkFrames * 2
		end := start + chunkFrames*2
		if end > len(samples) {
			end = len(samples)
		}
		out = append(out, samples[start:end]...)
	}
	return out
}

func (Slice) Name() string { return "slice" }

// Stretch time-stretches the buffer to a target duration ratio
// (params["factor"]) via linear resampling, so pitch changes together
// with duration. params["preserve_pitch"] is not read, and neither pitch
// nor formants are preserved.
type Stretch struct{}

func (Stretch) Apply(samples []float32, sampleRate int, params Params) []float32 {
	factor := params.Get("factor", 1)
	if factor <= 0 {
		factor = 1
	}
	frames := len(samples) / 2
	outFrames := int(float32(frames) * factor)
	out := make([]float32, outFrames*2)
	for i := 0; i < outFrames; i++ {
		srcPos := float32(i) / factor
		i0 := int(srcPos)
		i1 := i0 + 1
		frac := srcPos - float32(i0)
		if i0 >= frames {
			i0 = frames - 1
		}
		if i1 >= frames {
			i1 = frames - 1
		}
		out[i*2] = samples[i0*2]*(1-frac) + samples[i1*2]*frac
		out[i*2+1] = samples[i0*2+1]*(1-frac) + samples[i1*2+1]*frac
	}
	return out
}

func (Stretch) Name() string { return "stretch" }

// Roll repeats a short segment (params["segment_ms"], default 50ms) N
// times (params["count"], default 4), replacing the remainder of the
// sample with the looped segment.
type Roll struct{}

func (Roll) Apply(samples []float32, sampleRate int, params Params) []float32 {
	segmentMs := params.Get("segment_ms", 50)
	count := int(params.Get("count", 4))
	if count < 1 {
		count = 1
	}
	segFrames := int(segmentMs / 1000 * float32(sampleRate))
	frames := len(samples) / 2
	if segFrames < 1 || segFrames > frames {
		segFrames = frames
	}
	out := make([]float32, 0, segFrames*2*count)
	for r := 0; r < count; r++ {
		out = append(out, samples[:segFrames*2]...)
	}
	return out
}

func (Roll) Name() string { return "roll" }

// Freeze holds a single spectral frame (approximated in the time domain
// as a short window looped for the requested duration, params["duration_ms"]
// default 1000ms) — a cheap amplitude-preserving freeze rather than a
// full FFT-resynthesis freeze.
type Freeze struct{}

func (Freeze) Apply(samples []float32, sampleRate int, params Params) []float32 {
	durationMs := params.Get("duration_ms", 1000)
	frames := len(samples) / 2
	windowFrames := int(0.02 * float32(sampleRate)) // 20ms frame
	if windowFrames < 1 || windowFrames > frames {
		windowFrames = frames
	}
	outFrames := int(durationMs / 1000 * float32(sampleRate))
	out := make([]float32, outFrames*2)
	for i := 0; i < outFrames; i++ {
		src := (i % windowFrames) * 2
		out[i*2] = samples[src]
		out[i*2+1] = samples[src+1]
	}
	return out
}

func (Freeze) Name() string { return "freeze" }
