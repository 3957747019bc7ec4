package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualNumberTolerance(t *testing.T) {
	tests := []struct {
		name string
		a, b float32
		want bool
	}{
		{"identical", 1.0, 1.0, true},
		{"within tolerance", 1.0, 1.00005, true},
		{"outside tolerance", 1.0, 1.001, false},
		{"negative", -2.5, -2.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(Number(tt.a), Number(tt.b)))
		})
	}
}

func TestEqualStructural(t *testing.T) {
	assert.True(t, Equal(String("kick"), String("kick")))
	assert.False(t, Equal(String("kick"), String("snare")))
	assert.True(t, Equal(Bool(true), Bool(true)))
	assert.True(t, Equal(Null(), Null()))
	assert.False(t, Equal(Number(1), String("1")))
}

func TestEqualArrayAndMap(t *testing.T) {
	a := Array([]Value{Number(1), String("x")})
	b := Array([]Value{Number(1), String("x")})
	c := Array([]Value{Number(1), String("y")})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))

	m1 := Map(map[string]Value{"a": Number(1)})
	m2 := Map(map[string]Value{"a": Number(1)})
	m3 := Map(map[string]Value{"a": Number(2)})
	assert.True(t, Equal(m1, m2))
	assert.False(t, Equal(m1, m3))
}

func TestCompareNumbersAndStrings(t *testing.T) {
	r, ok := Compare(Number(1), Number(2))
	assert.True(t, ok)
	assert.Equal(t, -1, r)

	r, ok = Compare(String("a"), String("b"))
	assert.True(t, ok)
	assert.Equal(t, -1, r)
}

func TestCompareIncompatibleFails(t *testing.T) {
	_, ok := Compare(Number(1), String("1"))
	assert.False(t, ok)
	_, ok = Compare(Bool(true), Bool(false))
	assert.False(t, ok)
}

func TestCloneDeepCopiesArraysAndMaps(t *testing.T) {
	original := Array([]Value{Map(map[string]Value{"k": Number(1)})})
	clone := original.Clone()

	clone.Array[0].Map["k"] = Number(99)

	assert.Equal(t, float32(1), original.Array[0].Map["k"].Number)
	assert.Equal(t, float32(99), clone.Array[0].Map["k"].Number)
}
