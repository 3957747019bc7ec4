package automation

import (
	"testing"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/value"
	"github.com/stretchr/testify/assert"
)

func point(pct float32, v float32) ast.AutomatePoint {
	return ast.AutomatePoint{ProgressPercent: pct, Value: value.Number(v)}
}

func TestTemplateEvaluateClampsToEndpoints(t *testing.T) {
	tpl := FromAST(ast.AutomateParam{
		Name:   "volume",
		Curve:  "linear",
		Points: []ast.AutomatePoint{point(0, 0), point(50, 0.5), point(100, 1)},
	})

	assert.Equal(t, float32(0), tpl.Evaluate(0))
	assert.Equal(t, float32(1), tpl.Evaluate(1))
	assert.Equal(t, float32(0), tpl.Evaluate(-1))
	assert.Equal(t, float32(1), tpl.Evaluate(2))
	assert.InDelta(t, 0.5, tpl.Evaluate(0.5), 1e-4)
	assert.InDelta(t, 0.25, tpl.Evaluate(0.25), 1e-4)
}

func TestTemplateUnknownCurveDefaultsLinear(t *testing.T) {
	tpl := FromAST(ast.AutomateParam{
		Name:   "cutoff",
		Curve:  "bogus",
		Points: []ast.AutomatePoint{point(0, 0), point(100, 100)},
	})
	assert.Equal(t, CurveLinear, tpl.Curve)
	assert.InDelta(t, 50, tpl.Evaluate(0.5), 1e-4)
}

func TestCurveEasingShapesBetweenEndpoints(t *testing.T) {
	for _, c := range []Curve{CurveLinear, CurveExponential, CurveLogarithmic, CurveSmooth} {
		assert.Equal(t, float32(0), Ease(c, 0), c)
		assert.InDelta(t, 1, Ease(c, 1), 1e-4, c)
	}
}

func TestRegistryActiveSegmentInterpolates(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Envelope{Target: "gain", Start: 0, Duration: 2, From: 0, To: 1, Curve: CurveLinear})

	v, ok := reg.ValueAt("gain", 1)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-4)
}

func TestRegistryStickyAfterSegmentEnds(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Envelope{Target: "gain", Start: 0, Duration: 1, From: 0, To: 1, Curve: CurveLinear})

	v, ok := reg.ValueAt("gain", 5)
	assert.True(t, ok)
	assert.Equal(t, float32(1), v)
}

func TestRegistryFromValueBeforeAnySegment(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Envelope{Target: "gain", Start: 5, Duration: 1, From: 0.2, To: 1, Curve: CurveLinear})

	v, ok := reg.ValueAt("gain", 0)
	assert.True(t, ok)
	assert.Equal(t, float32(0.2), v)
}

func TestRegistryNameAliasesResolveToSameEnvelope(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Envelope{Target: "volume", Start: 0, Duration: 1, From: 0, To: 1, Curve: CurveLinear})

	v, ok := reg.ValueAt("gain", 0.5)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-4)
}

func TestRegistryUnknownTargetNotFound(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.ValueAt("nonexistent", 0)
	assert.False(t, ok)
}

func TestNoteContextProgressZeroAtStartOneAtEnd(t *testing.T) {
	tpl := FromAST(ast.AutomateParam{
		Name:   "gain",
		Points: []ast.AutomatePoint{point(0, 0), point(100, 1)},
	})
	ctx := NewNoteContext([]Template{tpl}, 10, 12)

	v, ok := ctx.ValueAt("gain", 10)
	assert.True(t, ok)
	assert.Equal(t, float32(0), v)

	v, ok = ctx.ValueAt("gain", 12)
	assert.True(t, ok)
	assert.Equal(t, float32(1), v)

	v, ok = ctx.ValueAt("gain", 11)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-4)
}

func TestNoteRegistryIndependentPerNoteWindow(t *testing.T) {
	tpl := FromAST(ast.AutomateParam{
		Name:   "gain",
		Points: []ast.AutomatePoint{point(0, 0), point(100, 1)},
	})
	reg := NewNoteRegistry()
	reg.Register(NewNoteContext([]Template{tpl}, 0, 1))

	v, _ := reg.ValueAt("gain", 0)
	assert.Equal(t, float32(0), v)

	reg2 := NewNoteRegistry()
	reg2.Register(NewNoteContext([]Template{tpl}, 1, 2))
	v2, _ := reg2.ValueAt("gain", 2)
	assert.Equal(t, float32(1), v2)
}

func TestSegmentsConvertPercentPointsToAbsoluteEnvelopes(t *testing.T) {
	tpl := FromAST(ast.AutomateParam{
		Name:   "gain",
		Points: []ast.AutomatePoint{point(0, 0), point(50, 0.5), point(100, 1)},
	})
	envs := tpl.Segments(10, 2)
	assert.Len(t, envs, 2)
	assert.Equal(t, float32(10), envs[0].Start)
	assert.InDelta(t, 1, envs[0].Duration, 1e-4)
	assert.InDelta(t, 11, envs[1].Start, 1e-4)
}
