package vm

// Heap is the session-wide object allocator shared by the compiler and the
// VM: every String, Function, Closure, and Upvalue is created through it,
// threaded onto a single intrusive list, and released together when the
// session ends. There is no collector: objects simply accumulate for the
// lifetime of one compile+run session and are reclaimed in bulk by Go's
// own garbage collector once the Heap itself becomes unreachable.
type Heap struct {
	Strings *Table // the interning pool: keys matter, values are unused
	objects Obj    // head of the intrusive "all live objects" list
}

// NewHeap returns a Heap with an empty interning pool.
func NewHeap() *Heap {
	return &Heap{Strings: NewTable()}
}

func (h *Heap) track(o Obj) {
	o.setNext(h.objects)
	h.objects = o
}

// CopyString returns the unique interned ObjString for chars, allocating a
// new one only if no equal string has been interned yet.
func (h *Heap) CopyString(chars string) *ObjString {
	hash := fnv1a32(chars)
	if interned := h.Strings.FindString(chars, hash); interned != nil {
		return interned
	}
	s := &ObjString{Chars: chars, Hash: hash}
	h.track(s)
	h.Strings.Set(s, NilValue())
	return s
}

// NewFunction allocates a fresh, empty ObjFunction with its own Chunk.
func (h *Heap) NewFunction() *ObjFunction {
	f := &ObjFunction{Chunk: NewChunk()}
	h.track(f)
	return f
}

// NewNative allocates a native-function object.
func (h *Heap) NewNative(name string, fn NativeFn) *ObjNative {
	n := &ObjNative{Name: name, Fn: fn}
	h.track(n)
	return n
}

// NewClosure allocates a closure over function with upvalueCount empty
// upvalue slots, ready to be filled in by OP_CLOSURE.
func (h *Heap) NewClosure(function *ObjFunction) *ObjClosure {
	c := &ObjClosure{
		Function: function,
		Upvalues: make([]*ObjUpvalue, function.UpvalueCount),
	}
	h.track(c)
	return c
}

// NewUpvalue allocates an open upvalue pointing at the given stack slot.
func (h *Heap) NewUpvalue(stackSlot int) *ObjUpvalue {
	u := &ObjUpvalue{Location: stackSlot}
	h.track(u)
	return u
}

// ObjectCount walks the intrusive list and counts live heap objects; it
// exists for tests and debug output, not for any language semantic.
func (h *Heap) ObjectCount() int {
	n := 0
	for o := h.objects; o != nil; o = o.next() {
		n++
	}
	return n
}
