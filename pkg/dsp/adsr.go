package dsp

// ADSR describes an attack/decay/sustain/release envelope in seconds
// (attack/decay/release) and a sustain level in [0,1] (spec.md §3, §4.3).
type ADSR struct {
	AttackSec  float32
	DecaySec   float32
	Sustain    float32
	ReleaseSec float32
}

const fadeSeconds = 0.010 // 10ms fade-in/out to eliminate clicks (spec.md §4.3)

// Envelope renders totalSamples of gain multiplier (0..1, except sustain
// may exceed 1 is never the case here since sustain in [0,1]) following
// spec.md §4.3's sample-accurate ADSR:
//
//   - attack: linear 0->1 over A samples
//   - decay: linear 1->S over D samples
//   - sustain: constant S for remaining samples up to R from the end
//   - release: linear S->0 over the final R samples
//
// If totalSamples < A+D+R, sustain length collapses to 0 and attack/
// decay/release are scaled down proportionally so the envelope still
// spans exactly totalSamples, keeping note length consistent with the
// requested duration (spec.md §4.3).
func (e ADSR) Envelope(totalSamples int, sampleRate int) []float32 {
	out := make([]float32, totalSamples)
	if totalSamples <= 0 {
		return out
	}

	a := int(e.AttackSec * float32(sampleRate))
	d := int(e.DecaySec * float32(sampleRate))
	r := int(e.ReleaseSec * float32(sampleRate))
	if a < 0 {
		a = 0
	}
	if d < 0 {
		d = 0
	}
	if r < 0 {
		r = 0
	}

	sustainLen := totalSamples - a - d - r
	if sustainLen < 0 {
		sustainLen = 0
		adr := a + d + r
		if adr > 0 {
			scale := float64(totalSamples) / float64(adr)
			a = int(float64(a) * scale)
			d = int(float64(d) * scale)
			r = totalSamples - a - d
			if r < 0 {
				r = 0
			}
		} else {
			a, d, r = 0, 0, 0
		}
	}

	sustain := e.Sustain
	pos := 0
	for i := 0; i < a && pos < totalSamples; i++ {
		out[pos] = float32(i+1) / float32(max1(a))
		pos++
	}
	for i := 0; i < d && pos < totalSamples; i++ {
		frac := float32(i+1) / float32(max1(d))
		out[pos] = 1 - (1-sustain)*frac
		pos++
	}
	for i := 0; i < sustainLen && pos < totalSamples; i++ {
		out[pos] = sustain
		pos++
	}
	for i := 0; i < r && pos < totalSamples; i++ {
		frac := float32(i+1) / float32(max1(r))
		out[pos] = sustain * (1 - frac)
		pos++
	}
	for pos < totalSamples {
		out[pos] = 0
		pos++
	}

	applyClickFade(out, sampleRate)
	return out
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// applyClickFade ramps the first/last 10ms of the envelope in/out
// linearly on top of whatever the ADSR shape already produced, so an
// abrupt attack=0 or release=0 never produces a sample-boundary click.
func applyClickFade(out []float32, sampleRate int) {
	fadeLen := int(fadeSeconds * float32(sampleRate))
	if fadeLen > len(out)/2 {
		fadeLen = len(out) / 2
	}
	for i := 0; i < fadeLen; i++ {
		g := float32(i) / float32(max1(fadeLen))
		out[i] *= g
		out[len(out)-1-i] *= g
	}
}
