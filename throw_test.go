package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wisp-lang/wisp"
)

func TestCatchMatchesUnnamedThrow(t *testing.T) {
	t.Parallel()

	var v wisp.Cell
	wisp.InitInteger(&v, 1)
	tv := &wisp.ThrowValue{Value: v}

	assert.True(t, wisp.CatchMatches(tv, nil))
}

func TestCatchMatchesNamedSymbolBySynonym(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	sym := wisp.Symbols().Intern("loop-exit")
	var v wisp.Cell
	wisp.InitNone(&v)
	tv := &wisp.ThrowValue{Label: sym, Value: v}

	assert.True(t, wisp.CatchMatches(tv, sym))
	assert.False(t, wisp.CatchMatches(tv, nil))
}

func TestCatchMatchesActionIdentityForReturn(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	actA := wisp.NewNative(nil, nil, func(f *wisp.Frame) wisp.Bounce { return wisp.NullBounce() })
	actB := wisp.NewNative(nil, nil, func(f *wisp.Frame) wisp.Bounce { return wisp.NullBounce() })

	var v wisp.Cell
	wisp.InitNone(&v)
	tv := &wisp.ThrowValue{Label: wisp.ReturnLabel(actA), Value: v}

	assert.True(t, wisp.CatchMatches(tv, wisp.ReturnLabel(actA)))
	assert.False(t, wisp.CatchMatches(tv, wisp.ReturnLabel(actB)))
}
