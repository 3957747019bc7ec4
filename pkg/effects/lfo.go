package effects

import "math"

// sineLFO is the single shared modulation source chorus/flanger/phaser
// drive their depth from, advancing phase by rate/sr per sample
// (spec.md §4.4: "drive their modulation from a single sine LFO").
type sineLFO struct {
	phase float64
	rate  float32
}

func (l *sineLFO) next(sampleRate int) float64 {
	v := math.Sin(2 * math.Pi * l.phase)
	l.phase += float64(l.rate) / float64(sampleRate)
	if l.phase >= 1 {
		l.phase -= 1
	}
	return v
}

func (l *sineLFO) reset() {
	l.phase = 0
}

// LFOTarget selects what a standalone LFO effect modulates.
type LFOTarget string

const (
	LFOVolume LFOTarget = "volume"
	LFOPitch  LFOTarget = "pitch"
	LFOCutoff LFOTarget = "cutoff"
	LFOPan    LFOTarget = "pan"
)

// LFO is the standalone modulation effect of spec.md §4.4's table (as
// opposed to the internal sineLFO chorus/flanger/phaser share).
type LFO struct {
	RateHz float32
	Depth  float32
	Wave   string
	Target LFOTarget
	Phase  float32

	osc sineLFO
}

// NewLFO builds an LFO from a parameter map.
func NewLFO(p Params) *LFO {
	l := &LFO{
		RateHz: clamp(p.Get("rate_hz", 1), 0.01, 50),
		Depth:  clamp(p.Get("depth", 0.5), 0, 1),
		Target: LFOVolume,
	}
	l.osc = sineLFO{rate: l.RateHz, phase: float64(p.Get("phase", 0))}
	return l
}

// Process applies amplitude modulation for LFOVolume, the target NewLFO
// always sets. For any other target it leaves the buffer unchanged, and
// no render path samples Value to modulate cutoff, pitch or pan.
func (l *LFO) Process(samples []float32, sampleRate int) {
	if l.Target != LFOVolume && l.Target != "" {
		return
	}
	for i := 0; i+1 < len(samples); i += 2 {
		g := float32(1 + float64(l.Depth)*l.osc.next(sampleRate))
		samples[i] *= g
		samples[i+1] *= g
	}
}

// Value returns the current modulation value in [-depth, depth] without
// advancing state, for non-volume targets the renderer samples directly.
func (l *LFO) Value(atSample int, sampleRate int) float64 {
	phase := (float64(l.Phase) + float64(l.RateHz)*float64(atSample)/float64(sampleRate))
	phase -= math.Floor(phase)
	return float64(l.Depth) * math.Sin(2*math.Pi*phase)
}

func (l *LFO) Reset() { l.osc.reset() }

func (l *LFO) Name() string { return "lfo" }
