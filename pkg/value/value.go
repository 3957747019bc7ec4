// Package value implements the Devalang sum-type value model and the
// lexically nested scope tables that bind names to values.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags a Value's underlying representation.
type Kind uint8

const (
	KindNumber Kind = iota
	KindString
	KindIdentifier
	KindBoolean
	KindNull
	KindArray
	KindMap
	KindDuration
	KindRange
	KindStatementRef
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindIdentifier:
		return "identifier"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindDuration:
		return "duration"
	case KindRange:
		return "range"
	case KindStatementRef:
		return "statement-ref"
	default:
		return "unknown"
	}
}

// DurationKind tags the sub-variant of a KindDuration value.
type DurationKind uint8

const (
	DurationMillis DurationKind = iota
	DurationBeats
	DurationBeatFraction
	DurationNumberMs
	DurationAuto
	DurationIdentifier
)

// Duration is the sub-tagged duration payload (spec.md §3).
type Duration struct {
	Kind       DurationKind
	Millis     float32
	Beats      float32
	Fraction   string // "num/den"
	Number     float32
	Identifier string
}

// Range is a boxed [start,end) pair of values.
type Range struct {
	Start *Value
	End   *Value
}

// Value is the Devalang tagged-union value.
//
// Only the field(s) matching Kind are meaningful; the zero value of all
// others is ignored. A Value is treated as immutable once constructed —
// callers that need independent state must Clone it.
type Value struct {
	Kind Kind

	Number     float32
	Str        string // String, Identifier
	Boolean    bool
	Array      []Value
	Map        map[string]Value
	Duration   Duration
	RangeVal   Range
	Statement  interface{} // *ast.Statement, boxed to avoid an import cycle
}

func Number(n float32) Value   { return Value{Kind: KindNumber, Number: n} }
func String(s string) Value    { return Value{Kind: KindString, Str: s} }
func Identifier(s string) Value { return Value{Kind: KindIdentifier, Str: s} }
func Bool(b bool) Value        { return Value{Kind: KindBoolean, Boolean: b} }
func Null() Value              { return Value{Kind: KindNull} }
func Array(items []Value) Value {
	return Value{Kind: KindArray, Array: items}
}
func Map(m map[string]Value) Value {
	return Value{Kind: KindMap, Map: m}
}
func DurationValue(d Duration) Value { return Value{Kind: KindDuration, Duration: d} }
func RangeValue(start, end Value) Value {
	s, e := start, end
	return Value{Kind: KindRange, RangeVal: Range{Start: &s, End: &e}}
}
func StatementRef(stmt interface{}) Value {
	return Value{Kind: KindStatementRef, Statement: stmt}
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Clone deep-copies a Value so mutation of the copy never affects the
// original — required at SynthDefinition snapshot time (invariant 2).
func (v Value) Clone() Value {
	switch v.Kind {
	case KindArray:
		cp := make([]Value, len(v.Array))
		for i, item := range v.Array {
			cp[i] = item.Clone()
		}
		v.Array = cp
	case KindMap:
		cp := make(map[string]Value, len(v.Map))
		for k, item := range v.Map {
			cp[k] = item.Clone()
		}
		v.Map = cp
	case KindRange:
		s := v.RangeVal.Start.Clone()
		e := v.RangeVal.End.Clone()
		v.RangeVal = Range{Start: &s, End: &e}
	}
	return v
}

const numberTolerance = 1e-4

// Equal implements spec.md §4.1 equality: numbers within tolerance,
// strings/booleans structural, null equals null, everything else
// structurally compared by kind then payload.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNumber:
		return math.Abs(float64(a.Number-b.Number)) < numberTolerance
	case KindString, KindIdentifier:
		return a.Str == b.Str
	case KindBoolean:
		return a.Boolean == b.Boolean
	case KindNull:
		return true
	case KindArray:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !Equal(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for k, av := range a.Map {
			bv, ok := b.Map[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindDuration:
		return a.Duration == b.Duration
	default:
		return false
	}
}

// Compare orders two values. Numbers compare naturally, strings
// lexicographically; any other pairing fails (ok=false), matching
// spec.md §4.1 ("other pairs fail comparison").
func Compare(a, b Value) (result int, ok bool) {
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case KindNumber:
		switch {
		case a.Number < b.Number:
			return -1, true
		case a.Number > b.Number:
			return 1, true
		default:
			return 0, true
		}
	case KindString, KindIdentifier:
		return strings.Compare(a.Str, b.Str), true
	default:
		return 0, false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(float64(v.Number), 'g', -1, 32)
	case KindString, KindIdentifier:
		return v.Str
	case KindBoolean:
		return strconv.FormatBool(v.Boolean)
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("<%s>", v.Kind)
	}
}
