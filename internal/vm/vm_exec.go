package vm

import "fmt"

func (vm *VM) readByte(frame *CallFrame) byte {
	b := frame.closure.Function.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readShort(frame *CallFrame) uint16 {
	hi := vm.readByte(frame)
	lo := vm.readByte(frame)
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readConstant(frame *CallFrame) Value {
	idx := vm.readByte(frame)
	return frame.closure.Function.Chunk.Constants[idx]
}

func (vm *VM) readString(frame *CallFrame) *ObjString {
	return vm.readConstant(frame).AsString()
}

// run is the VM's tight dispatch loop: read one opcode, execute it, repeat
// until a top-level OP_RETURN unwinds the last frame or a runtime error
// unwinds the whole call.
func (vm *VM) run() error {
	frame := vm.currentFrame()

	for {
		if vm.Debug {
			vm.traceInstruction(frame)
		}

		op := Opcode(vm.readByte(frame))

		switch op {
		case OP_CONSTANT:
			vm.push(vm.readConstant(frame))

		case OP_NIL:
			vm.push(NilValue())
		case OP_TRUE:
			vm.push(BoolValue(true))
		case OP_FALSE:
			vm.push(BoolValue(false))

		case OP_POP:
			vm.pop()

		case OP_GET_LOCAL:
			slot := vm.readByte(frame)
			vm.push(vm.stack[frame.base+int(slot)])

		case OP_SET_LOCAL:
			slot := vm.readByte(frame)
			vm.stack[frame.base+int(slot)] = vm.peek(0)

		case OP_GET_GLOBAL:
			name := vm.readString(frame)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)

		case OP_DEFINE_GLOBAL:
			name := vm.readString(frame)
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case OP_SET_GLOBAL:
			name := vm.readString(frame)
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case OP_GET_UPVALUE:
			slot := vm.readByte(frame)
			up := frame.closure.Upvalues[slot]
			if up.isOpen() {
				vm.push(vm.stack[up.Location])
			} else {
				vm.push(up.Closed)
			}

		case OP_SET_UPVALUE:
			slot := vm.readByte(frame)
			up := frame.closure.Upvalues[slot]
			if up.isOpen() {
				vm.stack[up.Location] = vm.peek(0)
			} else {
				up.Closed = vm.peek(0)
			}

		case OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolValue(a.Equals(b)))

		case OP_GREATER, OP_LESS:
			if err := vm.comparisonOp(op); err != nil {
				return err
			}

		case OP_ADD:
			if err := vm.addOp(); err != nil {
				return err
			}
		case OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE, OP_INT_DIVIDE, OP_MODULUS:
			if err := vm.arithmeticOp(op); err != nil {
				return err
			}

		case OP_NOT:
			vm.push(BoolValue(vm.pop().IsFalsey()))

		case OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(NumberValue(-vm.pop().Number))

		case OP_PRINT:
			fmt.Fprintln(vm.out, vm.pop().String())

		case OP_JUMP:
			offset := vm.readShort(frame)
			frame.ip += int(offset)

		case OP_JUMP_IF_FALSE:
			offset := vm.readShort(frame)
			if vm.peek(0).IsFalsey() {
				frame.ip += int(offset)
			}

		case OP_LOOP:
			offset := vm.readShort(frame)
			frame.ip -= int(offset)

		case OP_CALL:
			argCount := int(vm.readByte(frame))
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
			frame = vm.currentFrame()

		case OP_CLOSURE:
			fn := vm.readConstant(frame).Obj.(*ObjFunction)
			closure := vm.heap.NewClosure(fn)
			vm.push(ObjValue(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(frame)
				index := vm.readByte(frame)
				if isLocal == 1 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.base + int(index))
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}

		case OP_CLOSE_UPVALUE:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case OP_RETURN:
			result := vm.pop()
			vm.closeUpvalues(frame.base)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the top-level script closure
				return nil
			}
			vm.stackTop = frame.base
			vm.push(result)
			frame = vm.currentFrame()

		default:
			return vm.runtimeError("Unknown opcode %d.", op)
		}
	}
}

func (vm *VM) comparisonOp(op Opcode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().Number
	a := vm.pop().Number
	switch op {
	case OP_GREATER:
		vm.push(BoolValue(a > b))
	case OP_LESS:
		vm.push(BoolValue(a < b))
	}
	return nil
}

// addOp implements OP_ADD's two valid operand shapes: number+number and
// string+string (concatenation, allocating a new interned string).
func (vm *VM) addOp() error {
	b := vm.peek(0)
	a := vm.peek(1)

	switch {
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		concatenated := a.AsString().Chars + b.AsString().Chars
		vm.push(ObjValue(vm.heap.CopyString(concatenated)))
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(NumberValue(a.Number + b.Number))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
	return nil
}

func (vm *VM) arithmeticOp(op Opcode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().Number
	a := vm.pop().Number

	switch op {
	case OP_SUBTRACT:
		vm.push(NumberValue(a - b))
	case OP_MULTIPLY:
		vm.push(NumberValue(a * b))
	case OP_DIVIDE:
		vm.push(NumberValue(a / b))
	case OP_INT_DIVIDE:
		vm.push(NumberValue(float64(int64(a) / int64(b))))
	case OP_MODULUS:
		vm.push(NumberValue(a - float64(int64(a/b))*b))
	}
	return nil
}
