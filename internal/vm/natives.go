package vm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/funvibe/loxvm/internal/config"
)

var vmStartTime = time.Now()

// stdinReader is a shared buffered reader for stdin, to avoid buffering
// issues when input() is called multiple times: a fresh bufio.Reader per
// call would silently discard whatever it had already read ahead from the
// OS but not yet handed back, stranding the rest of a piped line's input.
var (
	stdinReader     *bufio.Reader
	stdinReaderOnce sync.Once
)

func getStdinReader() *bufio.Reader {
	stdinReaderOnce.Do(func() {
		stdinReader = bufio.NewReaderSize(os.Stdin, config.InputBufferSize)
	})
	return stdinReader
}

// defineNative wires a Go function into the globals table under name,
// before the script runs, so that script code can call it like any other
// global function.
func (vm *VM) defineNative(name string, fn NativeFn) {
	native := vm.heap.NewNative(name, fn)
	nameObj := vm.heap.CopyString(name)
	vm.globals.Set(nameObj, ObjValue(native))
}

func (vm *VM) registerNatives() {
	vm.defineNative("clock", nativeClock)
	vm.defineNative("input", vm.nativeInput)
	vm.defineNative("num", nativeNum)
}

// nativeClock returns the wall-clock seconds elapsed since this package was
// initialized (measured with time.Since); it does not measure CPU time.
func nativeClock(argCount int, args []Value) Value {
	return NumberValue(time.Since(vmStartTime).Seconds())
}

// nativeInput prints prompt (the sole argument) and reads one line from
// stdin, trailing newline retained, bounded by config.InputBufferSize.
func (vm *VM) nativeInput(argCount int, args []Value) Value {
	if argCount == 1 && args[0].IsString() {
		fmt.Fprint(vm.out, args[0].AsString().Chars)
	}

	line, _ := getStdinReader().ReadString('\n')
	if len(line) > config.InputBufferSize {
		line = line[:config.InputBufferSize]
	}
	return ObjValue(vm.heap.CopyString(line))
}

// nativeNum best-effort parses a leading numeric prefix of its string
// argument; a non-numeric prefix yields 0.
func nativeNum(argCount int, args []Value) Value {
	if argCount != 1 || !args[0].IsString() {
		return NumberValue(0)
	}
	s := args[0].AsString().Chars

	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if c == '-' && end == 0 {
			end++
			continue
		}
		break
	}

	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return NumberValue(0)
	}
	return NumberValue(n)
}
