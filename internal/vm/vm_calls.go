package vm

import "github.com/funvibe/loxvm/internal/config"

// callValue dispatches a call expression based on the callee's kind.
func (vm *VM) callValue(callee Value, argCount int) error {
	if callee.IsObj() {
		switch fn := callee.Obj.(type) {
		case *ObjClosure:
			return vm.call(fn, argCount)
		case *ObjNative:
			return vm.callNative(fn, argCount)
		}
	}
	return vm.runtimeError("Can only call functions and classes.")
}

func (vm *VM) callNative(native *ObjNative, argCount int) error {
	args := vm.stack[vm.stackTop-argCount : vm.stackTop]
	result := native.Fn(argCount, args)
	vm.stackTop -= argCount + 1
	vm.push(result)
	return nil
}

// call installs a new CallFrame for closure, after checking arity and the
// call-frame depth limit.
func (vm *VM) call(closure *ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount == config.FramesMax {
		return vm.runtimeError("Stack overflow.")
	}

	frame := &vm.frames[vm.frameCount]
	frame.closure = closure
	frame.ip = 0
	frame.base = vm.stackTop - argCount - 1
	vm.frameCount++
	return nil
}

// captureUpvalue returns the (possibly shared) open Upvalue for the given
// stack slot, inserting a new one into the VM's open-upvalue list (kept
// sorted by descending stack location) if none exists yet.
func (vm *VM) captureUpvalue(slot int) *ObjUpvalue {
	var prev *ObjUpvalue
	cur := vm.openUpvalues

	for cur != nil && cur.Location > slot {
		prev = cur
		cur = cur.Next
	}

	if cur != nil && cur.Location == slot {
		return cur
	}

	created := vm.heap.NewUpvalue(slot)
	created.Next = cur

	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}

	return created
}

// closeUpvalues closes every open upvalue at or above stack slot `from`,
// copying the live value onto the heap and unlinking it from the open list.
func (vm *VM) closeUpvalues(from int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Location >= from {
		u := vm.openUpvalues
		u.Closed = vm.stack[u.Location]
		u.Location = -1
		vm.openUpvalues = u.Next
		u.Next = nil
	}
}
