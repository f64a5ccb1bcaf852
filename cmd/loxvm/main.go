// Command loxvm is the REPL/file driver for the bytecode interpreter. It is
// a thin collaborator around internal/vm: it hands a source string to
// VM.Interpret and translates the result into one of the standard exit
// codes (64 usage, 65 compile error, 70 runtime error, 74 file I/O error).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/funvibe/loxvm/internal/config"
	"github.com/funvibe/loxvm/internal/vm"
	"github.com/mattn/go-isatty"
)

const (
	exitOK           = 0
	exitUsage        = 64
	exitCompileError = 65
	exitRuntimeError = 70
	exitFileError    = 74
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	switch len(os.Args) {
	case 1:
		runREPL()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: loxvm [path]")
		os.Exit(exitUsage)
	}
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", path, err)
		os.Exit(exitFileError)
	}

	machine := vm.New()
	if err := machine.Interpret(string(source)); err != nil {
		reportInterpretError(err)
	}
}

func reportInterpretError(err error) {
	fmt.Fprintln(os.Stderr, err)
	switch {
	case vm.IsCompileError(err):
		os.Exit(exitCompileError)
	case vm.IsRuntimeError(err):
		os.Exit(exitRuntimeError)
	default:
		os.Exit(exitRuntimeError)
	}
}

// runREPL reads statements from stdin. A line ending in '{' continues
// reading further lines (prompted with the continuation prompt) while
// tracking brace balance, until braces balance out; the assembled input is
// then interpreted as one unit, so a function or block definition spanning
// several lines is compiled whole rather than one line at a time.
func runREPL() {
	cfg, err := config.LoadREPLConfig("loxvm.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring malformed loxvm.yaml: %v\n", err)
		cfg = config.DefaultREPLConfig()
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	machine := vm.New()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if interactive {
			fmt.Print(cfg.Prompt)
		}
		if !scanner.Scan() {
			return
		}

		var b strings.Builder
		line := scanner.Text()
		b.WriteString(line)
		depth := braceDepth(line)

		for depth > 0 {
			if interactive {
				fmt.Print(cfg.ContinuationPrompt)
			}
			if !scanner.Scan() {
				break
			}
			next := scanner.Text()
			b.WriteByte('\n')
			b.WriteString(next)
			depth += braceDepth(next)
		}

		if err := machine.Interpret(b.String()); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func braceDepth(line string) int {
	depth := 0
	for _, r := range line {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}
