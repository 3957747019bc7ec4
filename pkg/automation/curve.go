package automation

import "math"

// Curve selects the easing function applied within a template segment
// (spec.md §4.5). Unknown curve names default to linear.
type Curve string

const (
	CurveLinear      Curve = "linear"
	CurveExponential Curve = "exponential"
	CurveLogarithmic Curve = "logarithmic"
	CurveSmooth      Curve = "smooth"
)

// ParseCurve normalizes a curve name, defaulting to linear.
func ParseCurve(name string) Curve {
	switch Curve(name) {
	case CurveExponential, CurveLogarithmic, CurveSmooth:
		return Curve(name)
	default:
		return CurveLinear
	}
}

// Ease applies the curve's easing to a local progress value already
// clamped to [0,1].
func Ease(c Curve, local float32) float32 {
	switch c {
	case CurveExponential:
		return float32(math.Pow(float64(local), 2))
	case CurveLogarithmic:
		return float32(math.Sqrt(float64(local)))
	case CurveSmooth:
		return local * local * (3 - 2*local)
	default:
		return local
	}
}
