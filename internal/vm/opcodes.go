package vm

// Opcode is a single bytecode instruction tag.
type Opcode byte

const (
	OP_CONSTANT Opcode = iota // 1 idx -> push constants[idx]
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_POP

	OP_GET_LOCAL  // 1 slot
	OP_SET_LOCAL  // 1 slot
	OP_GET_GLOBAL // 1 nameIdx
	OP_DEFINE_GLOBAL
	OP_SET_GLOBAL
	OP_GET_UPVALUE // 1 slot
	OP_SET_UPVALUE

	OP_EQUAL
	OP_GREATER
	OP_LESS

	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_INT_DIVIDE
	OP_MODULUS
	OP_NOT
	OP_NEGATE

	OP_PRINT

	OP_JUMP          // 2 off
	OP_JUMP_IF_FALSE // 2 off
	OP_LOOP          // 2 off

	OP_CALL // 1 argCount

	OP_CLOSURE // 1 fnIdx, then 2 bytes per upvalue: (isLocal, index)
	OP_CLOSE_UPVALUE

	OP_RETURN
)

var opcodeNames = [...]string{
	OP_CONSTANT:       "OP_CONSTANT",
	OP_NIL:            "OP_NIL",
	OP_TRUE:           "OP_TRUE",
	OP_FALSE:          "OP_FALSE",
	OP_POP:            "OP_POP",
	OP_GET_LOCAL:      "OP_GET_LOCAL",
	OP_SET_LOCAL:      "OP_SET_LOCAL",
	OP_GET_GLOBAL:     "OP_GET_GLOBAL",
	OP_DEFINE_GLOBAL:  "OP_DEFINE_GLOBAL",
	OP_SET_GLOBAL:     "OP_SET_GLOBAL",
	OP_GET_UPVALUE:    "OP_GET_UPVALUE",
	OP_SET_UPVALUE:    "OP_SET_UPVALUE",
	OP_EQUAL:          "OP_EQUAL",
	OP_GREATER:        "OP_GREATER",
	OP_LESS:           "OP_LESS",
	OP_ADD:            "OP_ADD",
	OP_SUBTRACT:       "OP_SUBTRACT",
	OP_MULTIPLY:       "OP_MULTIPLY",
	OP_DIVIDE:         "OP_DIVIDE",
	OP_INT_DIVIDE:     "OP_INT_DIVIDE",
	OP_MODULUS:        "OP_MODULUS",
	OP_NOT:            "OP_NOT",
	OP_NEGATE:         "OP_NEGATE",
	OP_PRINT:          "OP_PRINT",
	OP_JUMP:           "OP_JUMP",
	OP_JUMP_IF_FALSE:  "OP_JUMP_IF_FALSE",
	OP_LOOP:           "OP_LOOP",
	OP_CALL:           "OP_CALL",
	OP_CLOSURE:        "OP_CLOSURE",
	OP_CLOSE_UPVALUE:  "OP_CLOSE_UPVALUE",
	OP_RETURN:         "OP_RETURN",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "OP_UNKNOWN"
}
