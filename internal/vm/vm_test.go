package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	machine := New()
	machine.SetOutput(&out)
	err := machine.Interpret(source)
	return out.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `var a = "foo"; var b = "bar"; print a + b;`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestClosureSharesUpvalue(t *testing.T) {
	out, err := run(t, `
		fun mk() {
			var i = 0;
			fun inc() {
				i = i + 1;
				return i;
			}
			return inc;
		}
		var c = mk();
		print c();
		print c();
		print c();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestLexicalScopeShadowing(t *testing.T) {
	out, err := run(t, `
		var x = 1;
		{ var x = 2; print x; }
		print x;
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", out)
}

func TestForLoop(t *testing.T) {
	out, err := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print undefined;`)
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "Undefined variable 'undefined'.")
}

func TestAddingStringAndNumberIsRuntimeError(t *testing.T) {
	_, err := run(t, `print "a" + 1;`)
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings.")
}

func TestUninitializedVarIsNil(t *testing.T) {
	out, err := run(t, `var a; print a;`)
	require.NoError(t, err)
	assert.Equal(t, "nil\n", out)
}

func TestAndShortCircuits(t *testing.T) {
	out, err := run(t, `
		fun sideEffect() { print "evaluated"; return true; }
		print false and sideEffect();
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out, "the right operand of `and` must not run when the left is falsey")
}

func TestOrShortCircuits(t *testing.T) {
	out, err := run(t, `
		fun sideEffect() { print "evaluated"; return true; }
		print true or sideEffect();
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out, "the right operand of `or` must not run when the left is truthy")
}

func TestTruthiness(t *testing.T) {
	out, err := run(t, `
		print !nil;
		print !false;
		print !true;
		print !0;
		print !"";
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\ntrue\nfalse\nfalse\nfalse\n", out)
}

func TestEqualityNeverRaises(t *testing.T) {
	out, err := run(t, `
		print 1 == "1";
		print nil == false;
		print "a" == "a";
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\nfalse\ntrue\n", out)
}

func TestLeftAssociativeSubtraction(t *testing.T) {
	out, err := run(t, `print 10 - 3 - 2;`)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		fun add(a, b) { return a + b; }
		add(1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestStackOverflowOnUnboundedRecursion(t *testing.T) {
	_, err := run(t, `
		fun recurse() { return recurse(); }
		recurse();
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stack overflow.")
}

func TestInterningSharesHandleForEqualLiterals(t *testing.T) {
	machine := New()
	machine.SetOutput(&bytes.Buffer{})
	fn, err := Compile(`var a = "shared"; var b = "shared";`, machine.heap)
	require.NoError(t, err)

	var firstA, firstB *ObjString
	for _, c := range fn.Chunk.Constants {
		if c.IsString() && c.AsString().Chars == "shared" {
			if firstA == nil {
				firstA = c.AsString()
			} else {
				firstB = c.AsString()
			}
		}
	}
	require.NotNil(t, firstA)
	require.NotNil(t, firstB)
	assert.Same(t, firstA, firstB, "two equal string literals must intern to the identical handle")
}

func TestStackIsNeutralAfterEachStatement(t *testing.T) {
	machine := New()
	var out bytes.Buffer
	machine.SetOutput(&out)
	err := machine.Interpret(`
		var a = 1;
		var b = 2;
		{ var c = a + b; print c; }
		if (a < b) { print "lt"; } else { print "ge"; }
		for (var i = 0; i < 2; i = i + 1) { print i; }
	`)
	require.NoError(t, err)
	assert.Equal(t, 0, machine.stackTop, "the value stack must return to empty once the script returns")
}

func TestCompileErrorReportsAndRecoversAcrossStatements(t *testing.T) {
	machine := New()
	machine.SetOutput(&bytes.Buffer{})
	err := machine.Interpret(`
		print ;
		var 1bad = 2;
	`)
	require.Error(t, err)
	assert.True(t, IsCompileError(err))
	lines := strings.Split(err.Error(), "\n")
	assert.GreaterOrEqual(t, len(lines), 2, "a single compile pass should surface more than one diagnostic")
}

func TestNumNative(t *testing.T) {
	out, err := run(t, `print num("42abc"); print num("abc");`)
	require.NoError(t, err)
	assert.Equal(t, "42\n0\n", out)
}

func TestClockNativeReturnsNumber(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}
