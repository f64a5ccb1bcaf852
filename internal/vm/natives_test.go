package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNativeNumParsesLeadingNumericPrefix(t *testing.T) {
	assert.Equal(t, NumberValue(42), nativeNum(1, []Value{ObjValue(NewHeap().CopyString("42abc"))}))
	assert.Equal(t, NumberValue(-3.5), nativeNum(1, []Value{ObjValue(NewHeap().CopyString("-3.5kg"))}))
	assert.Equal(t, NumberValue(0), nativeNum(1, []Value{ObjValue(NewHeap().CopyString("abc"))}))
}

func TestNativeNumRejectsNonStringArgument(t *testing.T) {
	assert.Equal(t, NumberValue(0), nativeNum(1, []Value{NumberValue(5)}))
}

func TestNativeClockReturnsNonNegativeNumber(t *testing.T) {
	v := nativeClock(0, nil)
	assert.True(t, v.IsNumber())
	assert.GreaterOrEqual(t, v.Number, 0.0)
}

func TestRegisterNativesDefinesGlobals(t *testing.T) {
	vm := New()
	names := []string{"clock", "input", "num"}
	for _, name := range names {
		key := vm.heap.CopyString(name)
		v, ok := vm.globals.Get(key)
		assert.True(t, ok, "native %q must be registered as a global", name)
		assert.True(t, v.IsObj())
	}
}
