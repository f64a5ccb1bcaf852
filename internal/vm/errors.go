package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrCompile and ErrRuntime are sentinels the CLI driver matches with
// errors.Is to choose an exit code, rather than a bespoke exception
// hierarchy.
var (
	ErrCompile = errors.New("compile error")
	ErrRuntime = errors.New("runtime error")
)

// compileError aggregates every diagnostic produced while compiling a
// single source: the compiler does not stop at the first error, it
// synchronizes and keeps parsing so a single pass reports everything wrong.
type compileError struct {
	messages []string
}

func (e *compileError) Error() string {
	return strings.Join(e.messages, "\n")
}

func (e *compileError) Unwrap() error {
	return ErrCompile
}

// runtimeError formats like the C implementation's runtimeError: a message
// line, followed by one "[line L] in <name>()" frame per active call,
// deepest call first, followed by the session id of the Interpret call that
// raised it (so a REPL session's stderr log can be correlated back to a
// specific evaluation).
type runtimeErr struct {
	message string
	trace   []string
	session uuid.UUID
}

func (e *runtimeErr) Error() string {
	var b strings.Builder
	b.WriteString(e.message)
	for _, line := range e.trace {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	fmt.Fprintf(&b, "\n[session %s]", e.session)
	return b.String()
}

func (e *runtimeErr) Unwrap() error {
	return ErrRuntime
}

func newRuntimeErr(format string, args ...interface{}) *runtimeErr {
	return &runtimeErr{message: fmt.Sprintf(format, args...)}
}

// IsCompileError reports whether err (or something it wraps) is a compile
// error, for the CLI driver's exit-code decision.
func IsCompileError(err error) bool {
	return errors.Is(err, ErrCompile)
}

// IsRuntimeError reports whether err (or something it wraps) is a runtime
// error.
func IsRuntimeError(err error) bool {
	return errors.Is(err, ErrRuntime)
}
