package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriteTracksLines(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OP_NIL, 1)
	c.Write(0xFF, 2)

	require.Equal(t, 2, c.Count())
	assert.Equal(t, byte(OP_NIL), c.Code[0])
	assert.Equal(t, byte(0xFF), c.Code[1])
	assert.Equal(t, []int{1, 2}, c.Lines)
}

func TestChunkAddConstantReturnsIndex(t *testing.T) {
	c := NewChunk()
	i0 := c.AddConstant(NumberValue(1))
	i1 := c.AddConstant(NumberValue(2))

	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, NumberValue(1), c.Constants[i0])
	assert.Equal(t, NumberValue(2), c.Constants[i1])
}
