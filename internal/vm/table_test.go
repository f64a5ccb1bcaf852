package vm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSetGetDelete(t *testing.T) {
	heap := NewHeap()
	table := NewTable()

	key := heap.CopyString("answer")
	isNew := table.Set(key, NumberValue(42))
	require.True(t, isNew)

	v, ok := table.Get(key)
	require.True(t, ok)
	assert.Equal(t, NumberValue(42), v)

	isNew = table.Set(key, NumberValue(43))
	assert.False(t, isNew, "re-setting an existing key is not a new insertion")

	ok = table.Delete(key)
	require.True(t, ok)

	_, ok = table.Get(key)
	assert.False(t, ok, "a deleted key must no longer be found")
}

func TestTableGrowsAndSurvivesTombstones(t *testing.T) {
	heap := NewHeap()
	table := NewTable()

	keys := make([]*ObjString, 0, 64)
	for i := 0; i < 64; i++ {
		k := heap.CopyString(fmt.Sprintf("key%d", i))
		keys = append(keys, k)
		table.Set(k, NumberValue(float64(i)))
	}

	// Delete every other key, leaving tombstones, then confirm every
	// surviving key is still reachable despite the tombstones in the probe
	// chain.
	for i, k := range keys {
		if i%2 == 0 {
			table.Delete(k)
		}
	}
	for i, k := range keys {
		v, ok := table.Get(k)
		if i%2 == 0 {
			assert.False(t, ok)
		} else {
			require.True(t, ok)
			assert.Equal(t, float64(i), v.Number)
		}
	}
}

func TestFindStringLocatesWithoutAllocating(t *testing.T) {
	heap := NewHeap()
	pool := heap.Strings

	s := heap.CopyString("hello")
	found := pool.FindString("hello", fnv1a32("hello"))
	require.NotNil(t, found)
	assert.Same(t, s, found)

	assert.Nil(t, pool.FindString("nope", fnv1a32("nope")))
}
