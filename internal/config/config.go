// Package config centralizes the VM's sizing constants and the optional
// REPL preferences file, so tuning either never means hunting for a magic
// number scattered across internal/vm.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// UInt8Count is the number of distinct values a single bytecode operand byte
// can address (locals, upvalues).
const UInt8Count = 256

// FramesMax is the maximum call-frame stack depth.
const FramesMax = 64

// StackMax is the fixed capacity of the VM's value stack.
const StackMax = FramesMax * UInt8Count

// TableInitialCapacity is the starting capacity of a hash table, grown
// geometrically (doubling) from here.
const TableInitialCapacity = 8

// TableMaxLoad is the load-factor threshold (count/capacity) past which a
// hash table is grown.
const TableMaxLoad = 0.75

// MaxConstants is the largest constant-pool index addressable by the
// one-byte OP_CONSTANT operand.
const MaxConstants = 255

// MaxLocals is the maximum number of local variables (including parameters)
// live in a single function body at once.
const MaxLocals = 256

// MaxArgs is the maximum number of arguments a call expression may pass.
const MaxArgs = 255

// InputBufferSize bounds the line read by the input() native.
const InputBufferSize = 2048

// REPLConfig holds cosmetic REPL preferences, optionally loaded from a
// loxvm.yaml file. Its absence is not an error: DefaultREPLConfig already
// matches the REPL's built-in prompts.
type REPLConfig struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
}

// DefaultREPLConfig returns the built-in defaults used when no loxvm.yaml is
// present or a field is left unset.
func DefaultREPLConfig() REPLConfig {
	return REPLConfig{
		Prompt:             "> ",
		ContinuationPrompt: ".. ",
		HistoryFile:        "",
	}
}

// LoadREPLConfig reads path (typically "loxvm.yaml" in the working
// directory) and overlays it onto the defaults. A missing file is not an
// error; a malformed one is.
func LoadREPLConfig(path string) (REPLConfig, error) {
	cfg := DefaultREPLConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var override REPLConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cfg, err
	}

	if override.Prompt != "" {
		cfg.Prompt = override.Prompt
	}
	if override.ContinuationPrompt != "" {
		cfg.ContinuationPrompt = override.ContinuationPrompt
	}
	if override.HistoryFile != "" {
		cfg.HistoryFile = override.HistoryFile
	}
	return cfg, nil
}
