package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wisp-lang/wisp/internal/stats"
)

func TestZeroBallastIsDue(t *testing.T) {
	t.Parallel()

	var b stats.Ballast
	assert.True(t, b.Due())
}

func TestSpendAndReplenish(t *testing.T) {
	t.Parallel()

	var b stats.Ballast
	b.Replenish(100)
	assert.False(t, b.Due())

	b.Spend(60)
	assert.Equal(t, int64(40), b.Remaining())
	assert.False(t, b.Due())

	b.Spend(41)
	assert.True(t, b.Due())
	assert.Equal(t, int64(-1), b.Remaining())
}

func TestReplenishResetsEvenWhenOverspent(t *testing.T) {
	t.Parallel()

	var b stats.Ballast
	b.Replenish(10)
	b.Spend(50)
	require := assert.New(t)
	require.True(b.Due())

	b.Replenish(20)
	require.Equal(int64(20), b.Remaining())
	require.False(b.Due())
}
