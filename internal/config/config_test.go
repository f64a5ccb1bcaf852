package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultREPLConfig(t *testing.T) {
	cfg := DefaultREPLConfig()
	assert.Equal(t, "> ", cfg.Prompt)
	assert.Equal(t, ".. ", cfg.ContinuationPrompt)
	assert.Equal(t, "", cfg.HistoryFile)
}

func TestLoadREPLConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadREPLConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultREPLConfig(), cfg)
}

func TestLoadREPLConfigOverlaysProvidedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loxvm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: \"lox> \"\n"), 0o644))

	cfg, err := LoadREPLConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lox> ", cfg.Prompt)
	assert.Equal(t, ".. ", cfg.ContinuationPrompt, "fields absent from the file keep their default")
}

func TestLoadREPLConfigMalformedFileIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loxvm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: [this is not a string"), 0o644))

	_, err := LoadREPLConfig(path)
	assert.Error(t, err)
}

func TestStackMaxDerivesFromFramesAndSlots(t *testing.T) {
	assert.Equal(t, FramesMax*UInt8Count, StackMax)
}
