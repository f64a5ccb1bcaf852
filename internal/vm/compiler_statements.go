package vm

import (
	"github.com/funvibe/loxvm/internal/config"
	"github.com/funvibe/loxvm/internal/token"
)

func (c *Compiler) declaration() {
	switch {
	case c.match(token.FUN):
		c.funDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.parser.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emit(OP_PRINT)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emit(OP_POP)
}

func (c *Compiler) ifStatement() {
	c.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emit(OP_POP)
	c.statement()

	elseJump := c.emitJump(OP_JUMP)
	c.patchJump(thenJump)
	c.emit(OP_POP)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.chunk().Count()
	c.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(OP_JUMP_IF_FALSE)
	c.emit(OP_POP)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emit(OP_POP)
}

// forStatement desugars the classic three-clause for loop into a while loop
// whose increment runs after the body but before the next condition check.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case c.match(token.SEMICOLON):
		// no initializer
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.chunk().Count()
	exitJump := -1
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = c.emitJump(OP_JUMP_IF_FALSE)
		c.emit(OP_POP)
	}

	if !c.match(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(OP_JUMP)

		incrementStart := c.chunk().Count()
		c.expression()
		c.emit(OP_POP)
		c.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emit(OP_POP)
	}

	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.funcType == TypeScript {
		c.parser.error("Can't return from top-level code.")
	}

	if c.match(token.SEMICOLON) {
		c.emit(OP_NIL)
		c.emit(OP_RETURN)
		return
	}

	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after return value.")
	c.emit(OP_RETURN)
}

// --- variable declarations --------------------------------------------------

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emit(OP_NIL)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")

	c.defineVariable(global)
}

// parseVariable consumes an identifier and, for a global, interns its name
// as a constant; for a local it just declares the slot and returns 0 (the
// return value is meaningless for locals, defineVariable ignores it).
func (c *Compiler) parseVariable(errorMessage string) byte {
	c.consume(token.IDENTIFIER, errorMessage)

	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.parser.previous.Lexeme)
}

func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.parser.previous.Lexeme
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].depth != -1 && c.locals[i].depth < c.scopeDepth {
			break
		}
		if c.locals[i].name == name {
			c.parser.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emit2(OP_DEFINE_GLOBAL, global)
}

// --- function declarations --------------------------------------------------

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function_(TypeFunction)
	c.defineVariable(global)
}

func (c *Compiler) function_(funcType FunctionType) {
	fc := newCompiler(c.parser, c.heap, c, funcType)
	fc.function.Name = c.heap.CopyString(c.parser.previous.Lexeme)
	fc.beginScope()

	fc.consume(token.LEFT_PAREN, "Expect '(' after function name.")
	if !fc.check(token.RIGHT_PAREN) {
		for {
			fc.function.Arity++
			if fc.function.Arity > config.MaxArgs {
				fc.parser.error("Can't have more than 255 parameters.")
			}
			paramConst := fc.parseVariable("Expect parameter name.")
			fc.defineVariable(paramConst)
			if !fc.match(token.COMMA) {
				break
			}
		}
	}
	fc.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	fc.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	fc.block()

	fn := fc.endCompiler()

	idx := c.makeConstant(ObjValue(fn))
	c.emit2(OP_CLOSURE, idx)
	for _, up := range fc.upvalues {
		if up.isLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(up.index)
	}
}
