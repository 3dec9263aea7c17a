package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp"
)

func TestFeedTakeAdvancesCursor(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(2)
	var a, b wisp.Cell
	wisp.InitInteger(&a, 1)
	wisp.InitInteger(&b, 2)
	s.Append(a)
	s.Append(b)

	feed := wisp.NewFeed(s, wisp.Unbound)
	assert.False(t, feed.AtEnd())
	assert.Equal(t, 0, feed.Index())

	first := feed.Take()
	require.NotNil(t, first)
	assert.Equal(t, int64(1), first.AsInteger())
	assert.Equal(t, 1, feed.Index())

	second := feed.Take()
	require.NotNil(t, second)
	assert.Equal(t, int64(2), second.AsInteger())
	assert.True(t, feed.AtEnd())
	assert.Nil(t, feed.Take())
}

func TestFeedPeekAtLooksAhead(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(2)
	var a, b wisp.Cell
	wisp.InitInteger(&a, 10)
	wisp.InitInteger(&b, 20)
	s.Append(a)
	s.Append(b)

	feed := wisp.NewFeed(s, wisp.Unbound)
	assert.Equal(t, int64(10), feed.Peek().AsInteger())
	assert.Equal(t, int64(20), feed.PeekAt(1).AsInteger())
	assert.Nil(t, feed.PeekAt(2))
}

func TestFeedSetIndexRestartsAtHead(t *testing.T) {
	t.Parallel()

	s := wisp.NewArraySeries(1)
	var a wisp.Cell
	wisp.InitInteger(&a, 1)
	s.Append(a)

	feed := wisp.NewFeed(s, wisp.Unbound)
	feed.Take()
	assert.True(t, feed.AtEnd())

	feed.SetIndex(0)
	assert.False(t, feed.AtEnd())
	assert.Panics(t, func() { feed.SetIndex(99) })
}

func TestFrameDepthCountsParentChain(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	act := wisp.NewNative(nil, nil, func(f *wisp.Frame) wisp.Bounce { return wisp.NullBounce() })
	feed := wisp.NewFeed(wisp.NewArraySeries(0), wisp.Unbound)

	root := wisp.NewActionFrame(act, feed, nil)
	child := wisp.NewActionFrame(act, feed, root)
	grandchild := wisp.NewActionFrame(act, feed, child)

	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 1, child.Depth())
	assert.Equal(t, 2, grandchild.Depth())
}
