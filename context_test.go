package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp"
)

func TestContextAddFieldAndLookup(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	ctx := wisp.NewContext(wisp.ContextObject, 2)
	nameSym := wisp.Symbols().Intern("name")
	ageSym := wisp.Symbols().Intern("age")

	i := ctx.AddField(nameSym)
	j := ctx.AddField(ageSym)
	require.Equal(t, 0, i)
	require.Equal(t, 1, j)
	assert.Equal(t, 2, ctx.Len())

	assert.Equal(t, 0, ctx.Lookup(nameSym))
	assert.Equal(t, 1, ctx.Lookup(ageSym))
	assert.Equal(t, -1, ctx.Lookup(wisp.Symbols().Intern("missing")))
}

func TestContextHiddenField(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	ctx := wisp.NewContext(wisp.ContextError, 1)
	sym := wisp.Symbols().Intern("internal-only")
	i := ctx.AddField(sym)

	assert.False(t, ctx.Hidden(i))
	ctx.SetHidden(i, true)
	assert.True(t, ctx.Hidden(i))
}

func TestContextValueRoundTripsThroughCell(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	ctx := wisp.NewContext(wisp.ContextObject, 1)
	sym := wisp.Symbols().Intern("x")
	i := ctx.AddField(sym)
	wisp.InitInteger(ctx.Value(i), 99)

	var c wisp.Cell
	wisp.InitContext(&c, ctx)

	back := c.AsContext()
	assert.Equal(t, wisp.ContextObject, back.Kind())
	assert.Equal(t, int64(99), back.Value(i).AsInteger())
}

func TestContextVarlistLinksToKeylist(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	ctx := wisp.NewContext(wisp.ContextModule, 0)
	assert.Same(t, ctx.Keylist(), ctx.Varlist().Link())
}
