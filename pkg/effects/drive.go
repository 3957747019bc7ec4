package effects

import (
	"math"

	"github.com/devaloop-labs/devalang-core/pkg/dsp"
)

// Drive (aliased as "distortion") soft-clips via tanh, shaped by tone
// and color (spec.md §4.4 table).
type Drive struct {
	Amount, Tone, Color, Mix float32

	name string // registry name; empty means "drive"
}

// NewDrive builds a drive/distortion processor from a parameter map.
func NewDrive(p Params) *Drive {
	return &Drive{
		Amount: clamp(p.Get("amount", 0.5), 0, 1),
		Tone:   clamp(p.Get("tone", 0.5), 0, 1),
		Color:  clamp(p.Get("color", 0.5), 0, 1),
		Mix:    clamp(p.Get("mix", 0.7), 0, 1),
	}
}

func (d *Drive) Process(samples []float32, sampleRate int) {
	drive := 1 + float64(d.Amount)*20
	for i := range samples {
		dry := samples[i]
		shaped := float32(math.Tanh(float64(dry) * drive))
		colored := shaped*(0.5+d.Color*0.5) + shaped*shaped*shaped*(d.Color*0.2)
		samples[i] = dry*(1-d.Mix) + colored*d.Mix
	}
	if d.Tone < 0.5 {
		cutoff := 2000 + d.Tone*18000
		dsp.Lowpass(samples, cutoff, sampleRate)
	}
}

func (d *Drive) Reset() {}

func (d *Drive) Name() string {
	if d.name != "" {
		return d.name
	}
	return "drive"
}

// Distortion is an alias processor identical to Drive (spec.md §4.4:
// "distortion/drive ... soft-clip via tanh").
type Distortion = Drive

// NewDistortion builds the distortion alias of Drive, which reports its
// name as "distortion".
func NewDistortion(p Params) *Distortion {
	d := NewDrive(p)
	d.name = "distortion"
	return d
}
