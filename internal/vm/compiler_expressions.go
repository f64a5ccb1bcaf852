package vm

import (
	"strconv"

	"github.com/funvibe/loxvm/internal/config"
	"github.com/funvibe/loxvm/internal/token"
)

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence implements the core Pratt-parsing loop: run the prefix
// rule for the token just consumed, then keep folding in infix operators
// whose precedence is at least prec.
func (c *Compiler) parsePrecedence(prec Precedence) {
	c.parser.advance()
	prefixRule := getRule(c.parser.previous.Type).prefix
	if prefixRule == nil {
		c.parser.error("Expect expression.")
		return
	}

	canAssign := prec <= PrecAssignment
	prefixRule(c, canAssign)

	for prec <= getRule(c.parser.current.Type).precedence {
		c.parser.advance()
		infixRule := getRule(c.parser.previous.Type).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.parser.error("Invalid assignment target.")
	}
}

func number(c *Compiler, _ bool) {
	v, _ := strconv.ParseFloat(c.parser.previous.Lexeme, 64)
	c.emitConstant(NumberValue(v))
}

func stringLiteral(c *Compiler, _ bool) {
	lexeme := c.parser.previous.Lexeme
	s := c.heap.CopyString(lexeme[1 : len(lexeme)-1]) // strip the surrounding quotes
	c.emitConstant(ObjValue(s))
}

func grouping(c *Compiler, _ bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func unary(c *Compiler, _ bool) {
	opType := c.parser.previous.Type
	c.parsePrecedence(PrecUnary)

	switch opType {
	case token.MINUS:
		c.emit(OP_NEGATE)
	case token.BANG:
		c.emit(OP_NOT)
	}
}

func binary(c *Compiler, _ bool) {
	opType := c.parser.previous.Type
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence + 1) // left-associative: parse RHS tighter

	switch opType {
	case token.PLUS:
		c.emit(OP_ADD)
	case token.MINUS:
		c.emit(OP_SUBTRACT)
	case token.STAR:
		c.emit(OP_MULTIPLY)
	case token.SLASH:
		c.emit(OP_DIVIDE)
	case token.EQUAL_EQUAL:
		c.emit(OP_EQUAL)
	case token.BANG_EQUAL:
		c.emit(OP_EQUAL)
		c.emit(OP_NOT)
	case token.LESS:
		c.emit(OP_LESS)
	case token.LESS_EQUAL:
		c.emit(OP_GREATER)
		c.emit(OP_NOT)
	case token.GREATER:
		c.emit(OP_GREATER)
	case token.GREATER_EQUAL:
		c.emit(OP_LESS)
		c.emit(OP_NOT)
	}
}

func literal(c *Compiler, _ bool) {
	switch c.parser.previous.Type {
	case token.FALSE:
		c.emit(OP_FALSE)
	case token.TRUE:
		c.emit(OP_TRUE)
	case token.NIL:
		c.emit(OP_NIL)
	}
}

// and_ short-circuits: if the left operand is falsey, skip the right
// operand entirely and leave the falsey value as the result.
func and_(c *Compiler, _ bool) {
	endJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emit(OP_POP)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

// or_ short-circuits the other way: if the left operand is truthy, skip the
// right operand.
func or_(c *Compiler, _ bool) {
	elseJump := c.emitJump(OP_JUMP_IF_FALSE)
	endJump := c.emitJump(OP_JUMP)

	c.patchJump(elseJump)
	c.emit(OP_POP)

	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func variable(c *Compiler, canAssign bool) {
	c.namedVariable(c.parser.previous, canAssign)
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp Opcode
	var arg int

	if slot := c.resolveLocal(name.Lexeme); slot != -1 {
		getOp, setOp, arg = OP_GET_LOCAL, OP_SET_LOCAL, slot
	} else if up := c.resolveUpvalue(name.Lexeme); up != -1 {
		getOp, setOp, arg = OP_GET_UPVALUE, OP_SET_UPVALUE, up
	} else {
		arg = int(c.identifierConstant(name.Lexeme))
		getOp, setOp = OP_GET_GLOBAL, OP_SET_GLOBAL
	}

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emit2(setOp, byte(arg))
	} else {
		c.emit2(getOp, byte(arg))
	}
}

// identifierConstant interns name and adds it to the constant pool, for use
// as a global variable's name operand.
func (c *Compiler) identifierConstant(name string) byte {
	s := c.heap.CopyString(name)
	return c.makeConstant(ObjValue(s))
}

func callExpr(c *Compiler, _ bool) {
	argCount := c.argumentList()
	c.emit2(OP_CALL, argCount)
}

func (c *Compiler) argumentList() byte {
	count := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			if count == config.MaxArgs {
				c.parser.error("Can't have more than 255 arguments.")
			}
			count++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return byte(count)
}
