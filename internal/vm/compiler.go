package vm

import (
	"fmt"

	"github.com/funvibe/loxvm/internal/config"
	"github.com/funvibe/loxvm/internal/lexer"
	"github.com/funvibe/loxvm/internal/token"
)

// Precedence is the Pratt-parser precedence ladder, lowest to highest.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LEFT_PAREN:    {grouping, callExpr, PrecCall},
		token.RIGHT_PAREN:   {nil, nil, PrecNone},
		token.LEFT_BRACE:    {nil, nil, PrecNone},
		token.RIGHT_BRACE:   {nil, nil, PrecNone},
		token.COMMA:         {nil, nil, PrecNone},
		token.DOT:           {nil, nil, PrecNone},
		token.MINUS:         {unary, binary, PrecTerm},
		token.PLUS:          {nil, binary, PrecTerm},
		token.SEMICOLON:     {nil, nil, PrecNone},
		token.SLASH:         {nil, binary, PrecFactor},
		token.STAR:          {nil, binary, PrecFactor},
		token.BANG:          {unary, nil, PrecNone},
		token.BANG_EQUAL:    {nil, binary, PrecEquality},
		token.EQUAL:         {nil, nil, PrecNone},
		token.EQUAL_EQUAL:   {nil, binary, PrecEquality},
		token.GREATER:       {nil, binary, PrecComparison},
		token.GREATER_EQUAL: {nil, binary, PrecComparison},
		token.LESS:          {nil, binary, PrecComparison},
		token.LESS_EQUAL:    {nil, binary, PrecComparison},
		token.IDENTIFIER:    {variable, nil, PrecNone},
		token.STRING:        {stringLiteral, nil, PrecNone},
		token.NUMBER:        {number, nil, PrecNone},
		token.AND:           {nil, and_, PrecAnd},
		token.ELSE:          {nil, nil, PrecNone},
		token.FALSE:         {literal, nil, PrecNone},
		token.FOR:           {nil, nil, PrecNone},
		token.FUN:           {nil, nil, PrecNone},
		token.IF:            {nil, nil, PrecNone},
		token.NIL:           {literal, nil, PrecNone},
		token.OR:            {nil, or_, PrecOr},
		token.PRINT:         {nil, nil, PrecNone},
		token.RETURN:        {nil, nil, PrecNone},
		token.TRUE:          {literal, nil, PrecNone},
		token.VAR:           {nil, nil, PrecNone},
		token.WHILE:         {nil, nil, PrecNone},
		token.ERROR:         {nil, nil, PrecNone},
		token.EOF:           {nil, nil, PrecNone},
	}
}

func getRule(t token.Type) parseRule {
	if r, ok := rules[t]; ok {
		return r
	}
	return parseRule{nil, nil, PrecNone}
}

// parser holds the module-wide scanning/error state for one compile call.
type parser struct {
	lex       *lexer.Lexer
	current   token.Token
	previous  token.Token
	hadError  bool
	panicMode bool
	errors    []string
}

// FunctionType distinguishes the implicit top-level script from a nested
// function body, which changes what `return` may do.
type FunctionType int

const (
	TypeScript FunctionType = iota
	TypeFunction
)

// local is a compile-time record of a local variable's name, declaration
// depth, and whether a nested function captures it as an upvalue.
type local struct {
	name       string
	depth      int // -1 while the initializer is still being compiled
	isCaptured bool
}

// upvalueDesc is a compile-time record of one captured variable.
type upvalueDesc struct {
	index   uint8
	isLocal bool
}

// Compiler holds per-function compile state, linked to its enclosing
// compiler so nested function bodies can resolve upvalues outward.
type Compiler struct {
	parser    *parser
	heap      *Heap
	enclosing *Compiler

	function *ObjFunction
	funcType FunctionType

	locals     []local
	scopeDepth int

	upvalues []upvalueDesc
}

// Compile compiles source into a top-level ObjFunction, using heap as the
// shared allocator (and, critically, the shared interning pool) for every
// string and function object it creates. It returns a non-nil error
// wrapping ErrCompile if compilation failed; the partially built Chunk is
// discarded in that case.
func Compile(source string, heap *Heap) (*ObjFunction, error) {
	p := &parser{lex: lexer.New(source)}
	c := newCompiler(p, heap, nil, TypeScript)

	p.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}

	fn := c.endCompiler()
	if p.hadError {
		return nil, &compileError{messages: p.errors}
	}
	return fn, nil
}

func newCompiler(p *parser, heap *Heap, enclosing *Compiler, funcType FunctionType) *Compiler {
	c := &Compiler{
		parser:    p,
		heap:      heap,
		enclosing: enclosing,
		function:  heap.NewFunction(),
		funcType:  funcType,
	}
	// Slot 0 is reserved for the closure being executed itself.
	c.locals = append(c.locals, local{name: "", depth: 0})
	return c
}

func (c *Compiler) chunk() *Chunk { return c.function.Chunk }

// --- token stream helpers -------------------------------------------------

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.NextToken()
		if p.current.Type != token.ERROR {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (c *Compiler) check(t token.Type) bool {
	return c.parser.current.Type == t
}

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.parser.advance()
	return true
}

func (c *Compiler) consume(t token.Type, message string) {
	if c.parser.current.Type == t {
		c.parser.advance()
		return
	}
	c.parser.errorAtCurrent(message)
}

// --- error reporting -------------------------------------------------------

func (p *parser) errorAtCurrent(message string) {
	p.errorAt(p.current, message)
}

func (p *parser) error(message string) {
	p.errorAt(p.previous, message)
}

func (p *parser) errorAt(t token.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true

	var where string
	switch t.Type {
	case token.EOF:
		where = " at end"
	case token.ERROR:
		where = ""
	default:
		where = fmt.Sprintf(" at '%s'", t.Lexeme)
	}

	p.errors = append(p.errors, fmt.Sprintf("[line %d] Error%s: %s", t.Line, where, message))
	p.hadError = true
}

// synchronize discards tokens until it reaches a likely statement boundary,
// so one compile pass can report more than the first error.
func (c *Compiler) synchronize() {
	c.parser.panicMode = false

	for c.parser.current.Type != token.EOF {
		if c.parser.previous.Type == token.SEMICOLON {
			return
		}
		switch c.parser.current.Type {
		case token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.parser.advance()
	}
}

// --- emission --------------------------------------------------------------

func (c *Compiler) emitByte(b byte) {
	c.chunk().Write(b, c.parser.previous.Line)
}

func (c *Compiler) emit(op Opcode) {
	c.chunk().WriteOp(op, c.parser.previous.Line)
}

func (c *Compiler) emit2(op Opcode, operand byte) {
	c.emit(op)
	c.emitByte(operand)
}

func (c *Compiler) emitConstant(v Value) {
	idx := c.makeConstant(v)
	c.emit2(OP_CONSTANT, idx)
}

func (c *Compiler) makeConstant(v Value) byte {
	idx := c.chunk().AddConstant(v)
	if idx > config.MaxConstants {
		c.parser.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

// emitJump writes op followed by a two-byte placeholder and returns the
// placeholder's offset for patchJump.
func (c *Compiler) emitJump(op Opcode) int {
	c.emit(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.chunk().Count() - 2
}

// patchJump backfills the jump at offset with the distance from just past
// the jump's operand to the current end of the chunk.
func (c *Compiler) patchJump(offset int) {
	jump := c.chunk().Count() - offset - 2
	if jump > 65535 {
		c.parser.error("Too much code to jump over.")
	}
	c.chunk().Code[offset] = byte((jump >> 8) & 0xff)
	c.chunk().Code[offset+1] = byte(jump & 0xff)
}

// emitLoop writes OP_LOOP with a big-endian 16-bit back-offset to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emit(OP_LOOP)
	offset := c.chunk().Count() - loopStart + 2
	if offset > 65535 {
		c.parser.error("Loop body too large.")
	}
	c.emitByte(byte((offset >> 8) & 0xff))
	c.emitByte(byte(offset & 0xff))
}

func (c *Compiler) endCompiler() *ObjFunction {
	c.emit(OP_NIL)
	c.emit(OP_RETURN)
	return c.function
}
