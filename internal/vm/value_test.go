package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFalsey(t *testing.T) {
	assert.True(t, NilValue().IsFalsey())
	assert.True(t, BoolValue(false).IsFalsey())
	assert.False(t, BoolValue(true).IsFalsey())
	assert.False(t, NumberValue(0).IsFalsey())
	assert.False(t, NumberValue(1).IsFalsey())
}

func TestEqualsByType(t *testing.T) {
	assert.True(t, NilValue().Equals(NilValue()))
	assert.True(t, BoolValue(true).Equals(BoolValue(true)))
	assert.False(t, BoolValue(true).Equals(BoolValue(false)))
	assert.True(t, NumberValue(1).Equals(NumberValue(1)))
	assert.False(t, NumberValue(1).Equals(BoolValue(true)), "values of different types are never equal")
}

func TestEqualsNaN(t *testing.T) {
	nan := NumberValue(math.NaN())
	assert.False(t, nan.Equals(nan), "NaN does not equal itself, per IEEE 754")
}

func TestEqualsInternedStrings(t *testing.T) {
	heap := NewHeap()
	a := heap.CopyString("hi")
	b := heap.CopyString("hi")
	assert.Same(t, a, b)
	assert.True(t, ObjValue(a).Equals(ObjValue(b)))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "nil", NilValue().String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "false", BoolValue(false).String())
	assert.Equal(t, "3", NumberValue(3).String())
	assert.Equal(t, "3.5", NumberValue(3.5).String())
}
