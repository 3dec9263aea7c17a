package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wisp-lang/wisp"
)

func nestedBlockSeries() (outer, inner *wisp.Series) {
	inner = wisp.NewArraySeries(1)
	var n wisp.Cell
	wisp.InitInteger(&n, 1)
	inner.Append(n)

	outer = wisp.NewArraySeries(1)
	var block wisp.Cell
	wisp.InitBlock(&block, inner)
	outer.Append(block)
	return outer, inner
}

func TestProtectShallowLeavesNestedSeriesWritable(t *testing.T) {
	t.Parallel()

	outer, inner := nestedBlockSeries()
	wisp.Protect(outer, false)

	assert.True(t, outer.Protected())
	assert.False(t, inner.Protected())
}

func TestProtectDeepReachesNestedSeries(t *testing.T) {
	t.Parallel()

	outer, inner := nestedBlockSeries()
	wisp.Protect(outer, true)

	assert.True(t, outer.Protected())
	assert.True(t, inner.Protected())
}

func TestFreezeDeepIsPermanent(t *testing.T) {
	t.Parallel()

	outer, inner := nestedBlockSeries()
	wisp.FreezeDeep(outer)

	assert.True(t, outer.FrozenDeep())
	assert.True(t, inner.FrozenDeep())

	wisp.Unprotect(outer, true)
	assert.True(t, outer.FrozenDeep())
	assert.False(t, outer.Writable())
}

func TestUnprotectClearsNonFrozenProtection(t *testing.T) {
	t.Parallel()

	outer, inner := nestedBlockSeries()
	wisp.Protect(outer, true)
	wisp.Unprotect(outer, true)

	assert.False(t, outer.Protected())
	assert.False(t, inner.Protected())
	assert.True(t, outer.Writable())
}

func TestLockedReflectsHold(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(0)
	assert.False(t, wisp.Locked(s))
	s.MarkHold(true)
	assert.True(t, wisp.Locked(s))
}
