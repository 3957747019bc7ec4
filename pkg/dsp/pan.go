package dsp

import "math"

// ConstantPowerPan returns (left, right) gains for pan in [-1,1] such
// that left^2+right^2 == 1 for all pan (spec.md §4.8 step 4, §8 invariant
// 7).
func ConstantPowerPan(pan float32) (left, right float64) {
	p := float64(pan)
	if p < -1 {
		p = -1
	}
	if p > 1 {
		p = 1
	}
	left = math.Cos((p + 1) * math.Pi / 4)
	right = math.Sin((p + 1) * math.Pi / 4)
	return
}
