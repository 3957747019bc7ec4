package render

import (
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/registry"
	"github.com/devaloop-labs/devalang-core/pkg/routing"
)

// renderSampleEvent implements spec.md §4.8 phase 1's sample-playback
// path: look up the event's URI, resample to the render's sample rate,
// scale by velocity, and mix into the resolved target node.
func (r *renderer) renderSampleEvent(ev event.AudioEvent, graph *routing.Graph) {
	if r.opts.Samples == nil {
		r.recordDiag(diag.KindAudioLoad, "no sample registry configured, substituting silence for "+ev.URI)
		return
	}
	pcm, ok := r.opts.Samples.GetSample(ev.URI)
	if !ok {
		r.recordDiag(diag.KindAudioLoad, "unresolved sample URI, substituting silence: "+ev.URI)
		return
	}

	buf := resamplePCM(pcm, r.opts.SampleRate)
	for i := range buf {
		buf[i] *= ev.Velocity
	}

	node, _ := graph.Resolve(graph.TargetNodeForSample(ev.URI))
	r.mixInto(node, buf, ev.StartTime)
}

// resamplePCM converts p (decoded at its own native sample rate, mono
// or stereo) to an interleaved stereo f32 buffer at targetRate, using
// linear interpolation (spec.md §4.8 phase 1: "resample ... by
// nearest-neighbor or linear interpolation").
func resamplePCM(p registry.PCM, targetRate int) []float32 {
	frames := p.Len()
	if frames == 0 {
		return nil
	}

	left := make([]float32, frames)
	right := make([]float32, frames)
	if p.Stereo {
		for i := 0; i < frames; i++ {
			left[i] = p.Stereo32[2*i]
			right[i] = p.Stereo32[2*i+1]
		}
	} else {
		for i := 0; i < frames; i++ {
			s := float32(p.Mono16[i]) / 32768
			left[i] = s
			right[i] = s
		}
	}

	srcRate := p.SampleRate
	if srcRate <= 0 || srcRate == targetRate {
		out := make([]float32, frames*2)
		for i := 0; i < frames; i++ {
			out[2*i] = left[i]
			out[2*i+1] = right[i]
		}
		return out
	}

	ratio := float64(srcRate) / float64(targetRate)
	outFrames := int(float64(frames) / ratio)
	if outFrames < 1 {
		outFrames = 1
	}
	out := make([]float32, outFrames*2)
	for i := 0; i < outFrames; i++ {
		srcPos := float64(i) * ratio
		i0 := int(srcPos)
		if i0 >= frames {
			i0 = frames - 1
		}
		i1 := i0 + 1
		if i1 >= frames {
			i1 = frames - 1
		}
		frac := float32(srcPos - float64(i0))
		out[2*i] = left[i0] + (left[i1]-left[i0])*frac
		out[2*i+1] = right[i0] + (right[i1]-right[i0])*frac
	}
	return out
}
