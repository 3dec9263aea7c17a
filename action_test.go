package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp"
	"github.com/wisp-lang/wisp/internal/symtab"
)

func TestActionArityExcludesRefinements(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	params := []wisp.Param{
		{Sym: wisp.Symbols().Intern("a")},
		{Sym: wisp.Symbols().Intern("b")},
		{Sym: wisp.Symbols().Intern("only"), Class: wisp.ParamRefinement},
	}
	act := wisp.NewNative(wisp.Symbols().Intern("demo"), params, func(f *wisp.Frame) wisp.Bounce {
		return wisp.NullBounce()
	})

	assert.Equal(t, 2, act.Arity())
	assert.Equal(t, params, act.Params())
}

func TestActionEnfixFlag(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	act := wisp.NewNative(nil, nil, func(f *wisp.Frame) wisp.Bounce { return wisp.NullBounce() })
	assert.False(t, act.Enfix())
	act.MarkEnfix(true)
	assert.True(t, act.Enfix())
}

func TestActionSpecializeFixesNamedParam(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	aSym := wisp.Symbols().Intern("a")
	bSym := wisp.Symbols().Intern("b")
	act := wisp.NewNative(wisp.Symbols().Intern("demo"), []wisp.Param{{Sym: aSym}, {Sym: bSym}}, func(f *wisp.Frame) wisp.Bounce {
		return wisp.NullBounce()
	})

	var fixed wisp.Cell
	wisp.InitInteger(&fixed, 7)
	spec := act.Specialize(map[*symtab.Symbol]wisp.Cell{aSym: fixed})

	require.Len(t, spec.Params(), 1)
	assert.Equal(t, bSym, spec.Params()[0].Sym)
}

func TestActionCellRoundTrip(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	act := wisp.NewNative(wisp.Symbols().Intern("demo"), nil, func(f *wisp.Frame) wisp.Bounce {
		return wisp.NullBounce()
	})

	var c wisp.Cell
	wisp.InitAction(&c, act)
	assert.Same(t, act, c.AsAction())
}
