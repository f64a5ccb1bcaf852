package vm

import "github.com/funvibe/loxvm/internal/config"

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

// endScope pops every local declared in the scope being left: captured
// locals get OP_CLOSE_UPVALUE (so any live closure keeps seeing the final
// value), uncaptured ones get a plain OP_POP.
func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		last := c.locals[len(c.locals)-1]
		if last.isCaptured {
			c.emit(OP_CLOSE_UPVALUE)
		} else {
			c.emit(OP_POP)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// addLocal declares a new local in the current scope. Its depth is left at
// -1 ("uninitialized") until the initializer expression has been compiled,
// so `var a = a;` cannot read the not-yet-initialized slot.
func (c *Compiler) addLocal(name string) {
	if len(c.locals) >= config.MaxLocals {
		c.parser.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// resolveLocal returns the slot index of name in this function's locals, or
// -1 if not found. Reading a local at depth -1 (its own initializer) is a
// compile error.
func (c *Compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				c.parser.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue walks outward through enclosing compilers looking for name
// as a local or an already-captured upvalue, adding the capture chain as it
// unwinds back to this compiler.
func (c *Compiler) resolveUpvalue(name string) int {
	if c.enclosing == nil {
		return -1
	}

	if slot := c.enclosing.resolveLocal(name); slot != -1 {
		c.enclosing.locals[slot].isCaptured = true
		return c.addUpvalue(uint8(slot), true)
	}

	if up := c.enclosing.resolveUpvalue(name); up != -1 {
		return c.addUpvalue(uint8(up), false)
	}

	return -1
}

// addUpvalue deduplicates by (index, isLocal) and appends otherwise.
func (c *Compiler) addUpvalue(index uint8, isLocal bool) int {
	for i, u := range c.upvalues {
		if u.index == index && u.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= config.UInt8Count {
		c.parser.error("Too many closure variables in function.")
		return 0
	}
	c.upvalues = append(c.upvalues, upvalueDesc{index: index, isLocal: isLocal})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}
