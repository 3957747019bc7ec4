package automation

import (
	"sort"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
)

// Point is one progress/value pair of a parsed template, with progress
// already converted from a percentage to a fraction in [0,1].
type Point struct {
	Progress float32
	Value    float32
}

// Template is a parameter automation template (spec.md §4.5): a curve
// plus ascending progress points, evaluated at any progress in [0,1].
type Template struct {
	Name   string
	Curve  Curve
	Points []Point
}

// FromAST converts a parsed AutomateParam into a Template, normalizing
// percentages to [0,1] fractions and sorting points ascending.
func FromAST(p ast.AutomateParam) Template {
	t := Template{Name: p.Name, Curve: ParseCurve(p.Curve)}
	t.Points = make([]Point, len(p.Points))
	for i, pt := range p.Points {
		t.Points[i] = Point{Progress: pt.ProgressPercent / 100, Value: pt.Value.Number}
	}
	sort.Slice(t.Points, func(i, j int) bool { return t.Points[i].Progress < t.Points[j].Progress })
	return t
}

// Evaluate returns the template's value at progress p, clamped to
// [0,1] and interpolated within the bracketing segment per spec.md
// §4.5.
func (t Template) Evaluate(p float32) float32 {
	if len(t.Points) == 0 {
		return 0
	}
	if p <= 0 {
		p = 0
	}
	if p >= 1 {
		p = 1
	}

	if p <= t.Points[0].Progress {
		return t.Points[0].Value
	}
	last := t.Points[len(t.Points)-1]
	if p >= last.Progress {
		return last.Value
	}

	for i := 0; i < len(t.Points)-1; i++ {
		p0, p1 := t.Points[i], t.Points[i+1]
		if p >= p0.Progress && p <= p1.Progress {
			span := p1.Progress - p0.Progress
			local := float32(0)
			if span > 0 {
				local = (p - p0.Progress) / span
			}
			eased := Ease(t.Curve, local)
			return p0.Value + (p1.Value-p0.Value)*eased
		}
	}
	return last.Value
}

// Segments returns each adjacent point pair converted into absolute
// envelope windows given a cursor start and total simulated duration
// (spec.md §4.5 global-mode conversion).
func (t Template) Segments(cursor, totalDuration float32) []Envelope {
	envs := make([]Envelope, 0, len(t.Points)-1)
	for i := 0; i < len(t.Points)-1; i++ {
		p0, p1 := t.Points[i], t.Points[i+1]
		envs = append(envs, Envelope{
			Target:   t.Name,
			Start:    cursor + p0.Progress*totalDuration,
			Duration: (p1.Progress - p0.Progress) * totalDuration,
			From:     p0.Value,
			To:       p1.Value,
			Curve:    t.Curve,
		})
	}
	return envs
}
