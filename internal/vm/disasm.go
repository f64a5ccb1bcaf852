package vm

import (
	"fmt"
	"io"
	"os"
)

// DisassembleChunk writes a human-readable listing of every instruction in
// chunk to w, labeled name. This is an optional debug aid, never consulted
// by the VM itself.
func DisassembleChunk(w io.Writer, chunk *Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < chunk.Count(); {
		offset = disassembleInstruction(w, chunk, offset)
	}
}

func disassembleInstruction(w io.Writer, chunk *Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", chunk.Lines[offset])
	}

	op := Opcode(chunk.Code[offset])
	switch op {
	case OP_CONSTANT:
		return constantInstruction(w, op, chunk, offset)
	case OP_NIL, OP_TRUE, OP_FALSE, OP_POP, OP_EQUAL, OP_GREATER, OP_LESS,
		OP_ADD, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE, OP_INT_DIVIDE, OP_MODULUS,
		OP_NOT, OP_NEGATE, OP_PRINT, OP_CLOSE_UPVALUE, OP_RETURN:
		return simpleInstruction(w, op, offset)
	case OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_UPVALUE, OP_SET_UPVALUE, OP_CALL:
		return byteInstruction(w, op, chunk, offset)
	case OP_GET_GLOBAL, OP_DEFINE_GLOBAL, OP_SET_GLOBAL:
		return constantInstruction(w, op, chunk, offset)
	case OP_JUMP, OP_JUMP_IF_FALSE:
		return jumpInstruction(w, op, 1, chunk, offset)
	case OP_LOOP:
		return jumpInstruction(w, op, -1, chunk, offset)
	case OP_CLOSURE:
		return closureInstruction(w, chunk, offset)
	default:
		fmt.Fprintf(w, "Unknown opcode %d\n", op)
		return offset + 1
	}
}

func simpleInstruction(w io.Writer, op Opcode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func byteInstruction(w io.Writer, op Opcode, chunk *Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func constantInstruction(w io.Writer, op Opcode, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, chunk.Constants[idx].String())
	return offset + 2
}

func jumpInstruction(w io.Writer, op Opcode, sign int, chunk *Chunk, offset int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

func closureInstruction(w io.Writer, chunk *Chunk, offset int) int {
	offset++
	idx := chunk.Code[offset]
	offset++
	fmt.Fprintf(w, "%-16s %4d '%s'\n", OP_CLOSURE, idx, chunk.Constants[idx].String())

	fn := chunk.Constants[idx].Obj.(*ObjFunction)
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[offset]
		index := chunk.Code[offset+1]
		offset += 2
		kind := "upvalue"
		if isLocal == 1 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset-2, kind, index)
	}
	return offset
}

// traceInstruction prints the current stack and the next instruction about
// to execute; enabled only when vm.Debug is set.
func (vm *VM) traceInstruction(frame *CallFrame) {
	w := vm.Trace
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "[%s]     ", vm.sessionID)
	for i := 0; i < vm.stackTop; i++ {
		fmt.Fprintf(w, "[ %s ]", vm.stack[i].String())
	}
	fmt.Fprintln(w)
	disassembleInstruction(w, frame.closure.Function.Chunk, frame.ip)
}
