package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp"
)

func TestQuotifyUnquotifyBijection(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 3, 4, 7, 100} {
		var c wisp.Cell
		wisp.InitInteger(&c, 42)

		c.Quotify(n)
		require.Equal(t, n, c.QuoteDepth())
		assert.Equal(t, wisp.HeartInteger, c.Heart())

		c.Unquotify(n)
		assert.Equal(t, 0, c.QuoteDepth())
		assert.Equal(t, wisp.HeartInteger, c.Heart())
		assert.Equal(t, int64(42), c.AsInteger())
	}
}

func TestUnquotifyPastZeroPanics(t *testing.T) {
	t.Parallel()

	var c wisp.Cell
	wisp.InitLogic(&c, true)
	assert.Panics(t, func() { c.Unquotify(1) })
}

func TestCopyDoesNotPropagateProtectedOrNewline(t *testing.T) {
	t.Parallel()

	var src wisp.Cell
	wisp.InitInteger(&src, 7)
	src.MarkProtected(true)
	src.MarkNewlineBefore(true)

	var dst wisp.Cell
	wisp.InitNone(&dst)
	wisp.Copy(&dst, &src)

	assert.False(t, dst.Protected())
	assert.False(t, dst.NewlineBefore())
	assert.Equal(t, int64(7), dst.AsInteger())
}

func TestCopyKeepsDestinationMutabilityPreference(t *testing.T) {
	t.Parallel()

	var dst wisp.Cell
	wisp.InitNone(&dst)
	dst.MarkConst(true)

	var src wisp.Cell
	wisp.InitInteger(&src, 1)
	wisp.Copy(&dst, &src)

	assert.True(t, dst.Const())
}

func TestFreshCellPanicsOnRead(t *testing.T) {
	t.Parallel()

	var c wisp.Cell
	c.Erase()
	assert.Panics(t, func() { c.Heart() })
}

func TestUnquotedCellIsNeitherQuasiNorIsotope(t *testing.T) {
	t.Parallel()

	var c wisp.Cell
	wisp.InitLogic(&c, true)
	c.Quotify(0) // no-op, keeps depth 0

	// Quasi/isotope are only reachable through package-internal helpers
	// in this test's scope, so this checks IsQuasi and IsIsotope for the
	// unquoted case only.
	assert.False(t, c.IsQuasi())
	assert.False(t, c.IsIsotope())
}
