package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/arena"
)

func TestAllocReturnsDistinctZeroedValues(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	p1 := a.Alloc()
	p2 := a.Alloc()

	assert.Equal(t, 0, *p1)
	assert.Equal(t, 0, *p2)
	assert.NotSame(t, p1, p2)

	*p1 = 7
	assert.Equal(t, 0, *p2)
}

func TestAllocPointersSurviveFurtherGrowth(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	first := a.Alloc()
	*first = 42

	for i := 0; i < 1000; i++ {
		a.Alloc()
	}

	assert.Equal(t, 42, *first)
	assert.Equal(t, 1001, a.Len())
}

func TestAllocSliceReturnsContiguousZeroedRun(t *testing.T) {
	t.Parallel()

	var a arena.Arena[byte]
	s := a.AllocSlice(16)
	require.Len(t, s, 16)
	for _, b := range s {
		assert.Equal(t, byte(0), b)
	}

	empty := a.AllocSlice(0)
	assert.Nil(t, empty)
}

func TestResetDiscardsCountButKeepsLargestBlock(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	for i := 0; i < 100; i++ {
		a.Alloc()
	}
	assert.Equal(t, 100, a.Len())

	a.Reset()
	assert.Equal(t, 0, a.Len())

	// Reusing the retained block should not panic or lose capacity.
	for i := 0; i < 10; i++ {
		a.Alloc()
	}
	assert.Equal(t, 10, a.Len())
}
