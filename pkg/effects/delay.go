package effects

// Delay is a stereo feedback delay line (spec.md §4.4 table).
type Delay struct {
	TimeMs, Feedback, Mix float32

	bufL, bufR []float32
	pos        int
	sampleRate int
}

// NewDelay builds a delay from a parameter map, clamped to spec.md's
// documented ranges.
func NewDelay(p Params) *Delay {
	return &Delay{
		TimeMs:   clamp(p.Get("time_ms", 250), 1, 2000),
		Feedback: clamp(p.Get("feedback", 0.4), 0, 0.95),
		Mix:      clamp(p.Get("mix", 0.3), 0, 1),
	}
}

func (d *Delay) ensure(sampleRate int) {
	n := int(d.TimeMs / 1000 * float32(sampleRate))
	if n < 1 {
		n = 1
	}
	if d.bufL == nil || d.sampleRate != sampleRate || len(d.bufL) != n {
		d.bufL = make([]float32, n)
		d.bufR = make([]float32, n)
		d.pos = 0
		d.sampleRate = sampleRate
	}
}

func (d *Delay) Process(samples []float32, sampleRate int) {
	d.ensure(sampleRate)
	for i := 0; i+1 < len(samples); i += 2 {
		l, r := samples[i], samples[i+1]
		delayedL := d.bufL[d.pos]
		delayedR := d.bufR[d.pos]
		d.bufL[d.pos] = l + delayedL*d.Feedback
		d.bufR[d.pos] = r + delayedR*d.Feedback
		d.pos++
		if d.pos >= len(d.bufL) {
			d.pos = 0
		}
		samples[i] = l*(1-d.Mix) + delayedL*d.Mix
		samples[i+1] = r*(1-d.Mix) + delayedR*d.Mix
	}
}

func (d *Delay) Reset() {
	for i := range d.bufL {
		d.bufL[i] = 0
		d.bufR[i] = 0
	}
	d.pos = 0
}

func (d *Delay) Name() string { return "delay" }
