package vm

import "fmt"

// ValueType is the tag of the Value sum type described in the data model:
// Nil, Bool, Number, or a handle to a heap Obj.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValObj
)

// Value is a tagged union. Numbers and booleans live inline; everything else
// is a handle to a heap object reached through Obj.
type Value struct {
	Type   ValueType
	Number float64
	Bool   bool
	Obj    Obj
}

// NilValue is the unit value.
func NilValue() Value { return Value{Type: ValNil} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Type: ValBool, Bool: b} }

// NumberValue wraps a double.
func NumberValue(n float64) Value { return Value{Type: ValNumber, Number: n} }

// ObjValue wraps a heap object handle.
func ObjValue(o Obj) Value { return Value{Type: ValObj, Obj: o} }

func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsObj() bool    { return v.Type == ValObj }

// IsString reports whether v holds an interned string handle.
func (v Value) IsString() bool {
	_, ok := v.Obj.(*ObjString)
	return v.Type == ValObj && ok
}

// AsString returns the underlying string handle. Callers must check
// IsString first.
func (v Value) AsString() *ObjString {
	return v.Obj.(*ObjString)
}

// IsFalsey implements the language's truthiness rule: only nil and false are
// falsey, everything else (including 0.0 and "") is truthy.
func (v Value) IsFalsey() bool {
	return v.IsNil() || (v.IsBool() && !v.Bool)
}

// Equals implements value equality: Nil=Nil, booleans by value, numbers by
// IEEE equality (NaN != NaN), objects by handle identity except strings,
// which compare equal iff they are the same interned handle.
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return v.Bool == other.Bool
	case ValNumber:
		return v.Number == other.Number
	case ValObj:
		if a, ok := v.Obj.(*ObjString); ok {
			if b, ok := other.Obj.(*ObjString); ok {
				return a == b // interning invariant: identical contents share one handle
			}
			return false
		}
		return v.Obj == other.Obj
	default:
		return false
	}
}

// String renders v for `print` and for disassembly/debug output.
func (v Value) String() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValNumber:
		return formatNumber(v.Number)
	case ValObj:
		return v.Obj.String()
	default:
		return "<unknown value>"
	}
}

func formatNumber(n float64) string {
	return fmt.Sprintf("%g", n)
}
