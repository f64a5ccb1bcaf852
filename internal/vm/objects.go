package vm

import "fmt"

// ObjType tags the variant of a heap object.
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
	ObjTypeClosure
	ObjTypeUpvalue
)

// Obj is the common interface every heap object satisfies. next/setNext
// thread every live heap object into a single intrusive list off the VM, so
// that (in the absence of a garbage collector) everything can be released
// together at session end.
type Obj interface {
	ObjType() ObjType
	String() string
	next() Obj
	setNext(Obj)
}

// objHeader is embedded in every heap object to provide the intrusive
// next-object link without repeating it in each variant.
type objHeader struct {
	nextObj Obj
}

func (h *objHeader) next() Obj     { return h.nextObj }
func (h *objHeader) setNext(o Obj) { h.nextObj = o }

// ObjString is an immutable, interned string. For any byte sequence at most
// one ObjString exists for the lifetime of a VM session.
type ObjString struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) ObjType() ObjType { return ObjTypeString }
func (s *ObjString) String() string   { return s.Chars }

// fnv1a32 computes the 32-bit FNV-1a hash of s, as required by the
// interning pool's hash table.
func fnv1a32(s string) uint32 {
	const offsetBasis uint32 = 2166136261
	const prime uint32 = 16777619
	h := offsetBasis
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// ObjFunction is a compiled function: its arity, its own Chunk of bytecode,
// and an optional name (nil for the implicit top-level script function).
type ObjFunction struct {
	objHeader
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         *ObjString
}

func (f *ObjFunction) ObjType() ObjType { return ObjTypeFunction }
func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NativeFn is the native-function ABI: given the argument count and a slice
// of exactly that many arguments, it returns a Value. Native functions have
// no error-signaling channel and must always return something valid.
type NativeFn func(argCount int, args []Value) Value

// ObjNative wraps a Go function registered as a built-in.
type ObjNative struct {
	objHeader
	Name string
	Fn   NativeFn
}

func (n *ObjNative) ObjType() ObjType { return ObjTypeNative }
func (n *ObjNative) String() string   { return fmt.Sprintf("<native fn %s>", n.Name) }

// ObjClosure pairs a Function with the concrete Upvalues captured when the
// closure was created. Every callable value in the VM is a Closure, even a
// function that captures nothing.
type ObjClosure struct {
	objHeader
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) ObjType() ObjType { return ObjTypeClosure }
func (c *ObjClosure) String() string   { return c.Function.String() }

// ObjUpvalue is a heap cell referring to a stack slot while the defining
// function is live ("open"), and holding the copied value once that scope
// has exited ("closed"). Location indexes into the VM's value stack while
// open; Closed holds the value once closed and Location becomes -1.
type ObjUpvalue struct {
	objHeader
	Location int
	Closed   Value
	Next     *ObjUpvalue // link in the VM's open-upvalue list
}

func (u *ObjUpvalue) ObjType() ObjType { return ObjTypeUpvalue }
func (u *ObjUpvalue) String() string   { return "<upvalue>" }

func (u *ObjUpvalue) isOpen() bool { return u.Location >= 0 }
