package effects

import "math"

// Compressor implements spec.md §4.4's RMS->dB->target(dB) compressor
// with a one-pole attack/release envelope.
type Compressor struct {
	ThresholdDB, Ratio, AttackSec, ReleaseSec float32

	envDB float32
	haveEnv bool
}

// NewCompressor builds a compressor from a parameter map.
func NewCompressor(p Params) *Compressor {
	return &Compressor{
		ThresholdDB: p.Get("threshold_db", -20),
		Ratio:       maxFloat(p.Get("ratio", 4), 1),
		AttackSec:   p.Get("attack_s", 0.005),
		ReleaseSec:  p.Get("release_s", 0.1),
	}
}

func maxFloat(v, min float32) float32 {
	if v < min {
		return min
	}
	return v
}

// Process reduces gain based on the stereo pair's RMS level relative to
// ThresholdDB. Per spec.md §9 Open Question 4, when both target and
// source are silent the envelope initial value is 0dB (unity gain, no
// reduction) — modeled here by seeding envDB with the level of the first
// frame Process sees after construction or Reset, so that frame starts at
// unity gain.
func (c *Compressor) Process(samples []float32, sampleRate int) {
	attackCoeff := float32(math.Exp(-1 / (float64(c.AttackSec) * float64(sampleRate))))
	releaseCoeff := float32(math.Exp(-1 / (float64(c.ReleaseSec) * float64(sampleRate))))

	for i := 0; i+1 < len(samples); i += 2 {
		l, r := samples[i], samples[i+1]
		rms := float32(math.Sqrt(float64(l*l+r*r) / 2))
		db := float32(-120)
		if rms > 0 {
			db = float32(20 * math.Log10(float64(rms)))
		}

		if !c.haveEnv {
			c.envDB = db
			c.haveEnv = true
		}

		targetDB := db
		if db > c.ThresholdDB {
			targetDB = c.ThresholdDB + (db-c.ThresholdDB)/c.Ratio
		}

		coeff := releaseCoeff
		if targetDB < c.envDB {
			coeff = attackCoeff
		}
		c.envDB = targetDB + (c.envDB-targetDB)*coeff

		gainDB := c.envDB - db
		gain := float32(math.Pow(10, float64(gainDB)/20))

		samples[i] = l * gain
		samples[i+1] = r * gain
	}
}

func (c *Compressor) Reset() {
	c.envDB = 0
	c.haveEnv = false
}

func (c *Compressor) Name() string { return "compressor" }
