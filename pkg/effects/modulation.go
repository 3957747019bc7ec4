package effects

// Chorus mixes a modulated-delay copy of the signal with the dry signal,
// driven by a single sine LFO (spec.md §4.4 table).
type Chorus struct {
	Depth, RateHz, Mix float32

	bufL, bufR []float32
	pos        int
	lfo        sineLFO
	sampleRate int
}

// NewChorus builds a chorus from a parameter map.
func NewChorus(p Params) *Chorus {
	c := &Chorus{
		Depth:  clamp(p.Get("depth", 0.7), 0, 1),
		RateHz: clamp(p.Get("rate_hz", 0.5), 0.1, 10),
		Mix:    clamp(p.Get("mix", 0.5), 0, 1),
	}
	c.lfo = sineLFO{rate: c.RateHz}
	return c
}

const maxModDelayMs = 30

func (c *Chorus) ensure(sampleRate int) {
	n := int(maxModDelayMs / 1000 * float32(sampleRate))
	if c.bufL == nil || c.sampleRate != sampleRate {
		c.bufL = make([]float32, n)
		c.bufR = make([]float32, n)
		c.sampleRate = sampleRate
	}
}

func (c *Chorus) processModulated(buf []float32, in float32, sampleRate int, modGain float32) float32 {
	n := len(buf)
	buf[c.pos%n] = in
	mod := c.lfo.next(sampleRate)
	delaySamples := 1 + (1+mod)*0.5*float64(modGain)*float64(sampleRate)/1000
	readPos := float64(c.pos) - delaySamples
	for readPos < 0 {
		readPos += float64(n)
	}
	i0 := int(readPos) % n
	i1 := (i0 + 1) % n
	frac := readPos - float64(int(readPos))
	return buf[i0]*float32(1-frac) + buf[i1]*float32(frac)
}

func (c *Chorus) Process(samples []float32, sampleRate int) {
	c.ensure(sampleRate)
	modMs := c.Depth * maxModDelayMs
	for i := 0; i+1 < len(samples); i += 2 {
		wetL := c.processModulated(c.bufL, samples[i], sampleRate, modMs)
		wetR := c.processModulated(c.bufR, samples[i+1], sampleRate, modMs)
		samples[i] = samples[i]*(1-c.Mix) + wetL*c.Mix
		samples[i+1] = samples[i+1]*(1-c.Mix) + wetR*c.Mix
		c.pos++
	}
}

func (c *Chorus) Reset() {
	for i := range c.bufL {
		c.bufL[i], c.bufR[i] = 0, 0
	}
	c.pos = 0
	c.lfo.reset()
}

func (c *Chorus) Name() string { return "chorus" }

// Flanger is a short-delay, high-feedback variant of Chorus
// (spec.md §4.4 table).
type Flanger struct {
	Depth, RateHz, Feedback, Mix float32

	bufL, bufR []float32
	pos        int
	lfo        sineLFO
	sampleRate int
}

// NewFlanger builds a flanger from a parameter map.
func NewFlanger(p Params) *Flanger {
	f := &Flanger{
		Depth:    clamp(p.Get("depth", 0.7), 0, 1),
		RateHz:   clamp(p.Get("rate_hz", 0.5), 0.1, 10),
		Feedback: clamp(p.Get("feedback", 0.3), 0, 0.95),
		Mix:      clamp(p.Get("mix", 0.5), 0, 1),
	}
	f.lfo = sineLFO{rate: f.RateHz}
	return f
}

const maxFlangeDelayMs = 10

func (fl *Flanger) ensure(sampleRate int) {
	n := int(maxFlangeDelayMs / 1000 * float32(sampleRate))
	if fl.bufL == nil || fl.sampleRate != sampleRate {
		fl.bufL = make([]float32, n)
		fl.bufR = make([]float32, n)
		fl.sampleRate = sampleRate
	}
}

func (fl *Flanger) processModulated(buf []float32, in float32, sampleRate int) float32 {
	n := len(buf)
	mod := fl.lfo.next(sampleRate)
	delaySamples := (1 + mod) * 0.5 * float64(fl.Depth) * maxFlangeDelayMs / 1000 * float64(sampleRate)
	readPos := float64(fl.pos) - delaySamples
	for readPos < 0 {
		readPos += float64(n)
	}
	i0 := int(readPos) % n
	wet := buf[i0]
	buf[fl.pos%n] = in + wet*fl.Feedback
	return wet
}

func (fl *Flanger) Process(samples []float32, sampleRate int) {
	fl.ensure(sampleRate)
	for i := 0; i+1 < len(samples); i += 2 {
		wetL := fl.processModulated(fl.bufL, samples[i], sampleRate)
		wetR := fl.processModulated(fl.bufR, samples[i+1], sampleRate)
		samples[i] = samples[i]*(1-fl.Mix) + wetL*fl.Mix
		samples[i+1] = samples[i+1]*(1-fl.Mix) + wetR*fl.Mix
		fl.pos++
	}
}

func (fl *Flanger) Reset() {
	for i := range fl.bufL {
		fl.bufL[i], fl.bufR[i] = 0, 0
	}
	fl.pos = 0
	fl.lfo.reset()
}

func (fl *Flanger) Name() string { return "flanger" }

// Phaser cascades N allpass stages whose coefficient sweeps with the
// shared sine LFO (spec.md §4.4 table).
type Phaser struct {
	Stages              int
	RateHz, Depth, Feedback, Mix float32

	stagesL, stagesR []float32
	lfo              sineLFO
	lastOutL, lastOutR float32
}

// NewPhaser builds a phaser from a parameter map.
func NewPhaser(p Params) *Phaser {
	stages := int(clamp(p.Get("stages", 4), 2, 12))
	ph := &Phaser{
		Stages:   stages,
		RateHz:   clamp(p.Get("rate_hz", 0.5), 0.1, 10),
		Depth:    clamp(p.Get("depth", 0.7), 0, 1),
		Feedback: clamp(p.Get("feedback", 0.3), 0, 0.95),
		Mix:      clamp(p.Get("mix", 0.5), 0, 1),
	}
	ph.lfo = sineLFO{rate: ph.RateHz}
	ph.stagesL = make([]float32, stages)
	ph.stagesR = make([]float32, stages)
	return ph
}

func (ph *Phaser) runChannel(stages []float32, in float32, coeff float32) float32 {
	x := in
	for i := range stages {
		y := -coeff*x + stages[i]
		stages[i] = x + coeff*y
		x = y
	}
	return x
}

func (ph *Phaser) Process(samples []float32, sampleRate int) {
	for i := 0; i+1 < len(samples); i += 2 {
		mod := ph.lfo.next(sampleRate)
		coeff := float32(0.1 + (1+mod)*0.5*float64(ph.Depth)*0.8)

		inL := samples[i] + ph.lastOutL*ph.Feedback
		inR := samples[i+1] + ph.lastOutR*ph.Feedback
		wetL := ph.runChannel(ph.stagesL, inL, coeff)
		wetR := ph.runChannel(ph.stagesR, inR, coeff)
		ph.lastOutL, ph.lastOutR = wetL, wetR

		samples[i] = samples[i]*(1-ph.Mix) + wetL*ph.Mix
		samples[i+1] = samples[i+1]*(1-ph.Mix) + wetR*ph.Mix
	}
}

func (ph *Phaser) Reset() {
	for i := range ph.stagesL {
		ph.stagesL[i], ph.stagesR[i] = 0, 0
	}
	ph.lastOutL, ph.lastOutR = 0, 0
	ph.lfo.reset()
}

func (ph *Phaser) Name() string { return "phaser" }
