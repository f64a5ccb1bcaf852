// Package vm implements the stack-based virtual machine and the single-pass
// Pratt compiler that feeds it directly from the token stream, with no
// intermediate AST. The REPL driver, the file reader, and the disassembler
// are external collaborators layered on top (see cmd/loxvm).
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/loxvm/internal/config"
	"github.com/google/uuid"
)

// CallFrame is one active function call: the closure being executed, the
// instruction pointer into its Chunk, and the base slot (into the VM's
// value stack) where this frame's locals start. Frame N+1's base is the
// slot the caller pushed the callee closure into.
type CallFrame struct {
	closure *ObjClosure
	ip      int
	base    int
}

// VM executes compiled Chunks. It owns the value stack, the call-frame
// stack, the linked list of currently-open upvalues, the globals table, and
// (via Heap) the interning pool and the object list.
type VM struct {
	heap *Heap

	stack    []Value // fixed capacity config.StackMax, never reallocated
	stackTop int

	frames     []CallFrame // fixed capacity config.FramesMax
	frameCount int

	globals *Table

	openUpvalues *ObjUpvalue

	out io.Writer

	// Debug enables a per-instruction disassembly trace to Trace (or
	// os.Stderr if Trace is nil). It is an optional aid, never required for
	// correct execution.
	Debug bool
	Trace io.Writer

	// sessionID tags one Interpret call for debug/log correlation; it has
	// no effect on language semantics.
	sessionID uuid.UUID
}

// New returns a ready-to-use VM with the built-in natives registered.
func New() *VM {
	vm := &VM{
		stack:   make([]Value, config.StackMax),
		frames:  make([]CallFrame, config.FramesMax),
		globals: NewTable(),
		heap:    NewHeap(),
		out:     os.Stdout,
	}
	vm.registerNatives()
	return vm
}

// SetOutput redirects `print` and the native functions' stdout-facing
// behavior; used by tests to capture program output.
func (vm *VM) SetOutput(w io.Writer) {
	vm.out = w
}

// Heap exposes the session's allocator: its interning pool and object list.
func (vm *VM) Heap() *Heap { return vm.heap }

// Globals exposes the globals table.
func (vm *VM) Globals() *Table { return vm.globals }

func (vm *VM) push(v Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

func (vm *VM) currentFrame() *CallFrame {
	return &vm.frames[vm.frameCount-1]
}

// Interpret compiles source and runs it to completion. The returned error,
// if any, wraps ErrCompile or ErrRuntime so callers can pick an exit code
// with errors.Is.
func (vm *VM) Interpret(source string) error {
	vm.sessionID = uuid.New()

	fn, err := Compile(source, vm.heap)
	if err != nil {
		return err
	}

	closure := vm.heap.NewClosure(fn)
	vm.push(ObjValue(closure))
	if err := vm.call(closure, 0); err != nil {
		vm.resetStack()
		return err
	}

	return vm.run()
}

// runtimeError formats the message, appends one "[line L] in <name>()"
// frame per active call (deepest call first), and resets the stacks so the
// next REPL iteration (or process exit) starts clean.
func (vm *VM) runtimeError(format string, args ...interface{}) error {
	e := newRuntimeErr(format, args...)
	e.session = vm.sessionID

	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := 0
		if frame.ip-1 >= 0 && frame.ip-1 < len(fn.Chunk.Lines) {
			line = fn.Chunk.Lines[frame.ip-1]
		}
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		e.trace = append(e.trace, fmt.Sprintf("[line %d] in %s", line, name))
	}

	vm.resetStack()
	return e
}
