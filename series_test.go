package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp"
)

func TestSeriesPrependReusesBiasWithoutReallocating(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(4)
	var a, b, c wisp.Cell
	wisp.InitInteger(&a, 1)
	wisp.InitInteger(&b, 2)
	wisp.InitInteger(&c, 3)
	s.Append(a)
	s.Append(b)
	s.Append(c)
	require.Equal(t, 3, s.Len())

	s.TrimHead(2)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, int64(3), s.At(0).AsInteger())

	// The two trimmed head slots are still there, biased out; prepending
	// twice should reclaim them rather than reallocate.
	var d, e wisp.Cell
	wisp.InitInteger(&d, 20)
	wisp.InitInteger(&e, 10)
	s.PrependHead(d)
	s.PrependHead(e)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, int64(10), s.At(0).AsInteger())
	assert.Equal(t, int64(20), s.At(1).AsInteger())
	assert.Equal(t, int64(3), s.At(2).AsInteger())
}

func TestSeriesPrependFallsBackToReallocWhenBiasExhausted(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(0)
	var a wisp.Cell
	wisp.InitInteger(&a, 1)
	s.Append(a)
	require.Equal(t, 1, s.Len())

	var b wisp.Cell
	wisp.InitInteger(&b, 0)
	s.PrependHead(b)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, int64(0), s.At(0).AsInteger())
	assert.Equal(t, int64(1), s.At(1).AsInteger())
}

func TestSeriesWritableRespectsProtectionLattice(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(1)
	assert.True(t, s.Writable())

	s.MarkProtected(true)
	assert.False(t, s.Writable())

	var v wisp.Cell
	wisp.InitInteger(&v, 1)
	assert.Panics(t, func() { s.Append(v) })

	s.MarkProtected(false)
	assert.True(t, s.Writable())
	s.MarkHold(true)
	assert.False(t, s.Writable())
}

func TestSeriesReclaimMakesFurtherAccessPanic(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(1)
	s.Reclaim()
	assert.True(t, s.Inaccessible())
	assert.Panics(t, func() { s.At(0) })
}

func TestVisitedThisEpochIsTestAndSet(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(0)
	epoch := wisp.NextWalkEpoch()

	assert.False(t, s.VisitedThisEpoch(epoch))
	assert.True(t, s.VisitedThisEpoch(epoch))

	next := wisp.NextWalkEpoch()
	assert.False(t, s.VisitedThisEpoch(next))
}
