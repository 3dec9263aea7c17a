package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wisp-lang/wisp"
)

func TestSpecifierResolveUseFallsThroughToParent(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	outer := wisp.NewContext(wisp.ContextModule, 1)
	outerSym := wisp.Symbols().Intern("outer-name")
	outer.AddField(outerSym)
	wisp.InitInteger(outer.Value(0), 10)
	outerSpec := wisp.NewUse(outer, wisp.Unbound)

	inner := wisp.NewContext(wisp.ContextFrame, 1)
	innerSym := wisp.Symbols().Intern("inner-name")
	inner.AddField(innerSym)
	wisp.InitInteger(inner.Value(0), 20)
	innerSpec := wisp.NewUse(inner, outerSpec)

	slot, ok := innerSpec.Resolve(outerSym)
	if assert.True(t, ok) {
		assert.Equal(t, int64(10), slot.AsInteger())
	}

	slot, ok = innerSpec.Resolve(innerSym)
	if assert.True(t, ok) {
		assert.Equal(t, int64(20), slot.AsInteger())
	}
}

func TestSpecifierResolveVarlistDoesNotFallThrough(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	outer := wisp.NewContext(wisp.ContextModule, 1)
	outerSym := wisp.Symbols().Intern("outer-name")
	outer.AddField(outerSym)
	wisp.InitInteger(outer.Value(0), 10)
	outerSpec := wisp.NewUse(outer, wisp.Unbound)

	frameCtx := wisp.NewContext(wisp.ContextFrame, 1)
	localSym := wisp.Symbols().Intern("local-name")
	frameCtx.AddField(localSym)
	wisp.InitInteger(frameCtx.Value(0), 1)

	varlistSpec := wisp.NewVarlist(frameCtx)
	varlistSpec.Parent = outerSpec

	_, ok := varlistSpec.Resolve(outerSym)
	assert.False(t, ok, "BindVarlist must not fall through to Parent on a miss")

	slot, ok := varlistSpec.Resolve(localSym)
	if assert.True(t, ok) {
		assert.Equal(t, int64(1), slot.AsInteger())
	}
}

func TestSpecifierResolveFailsOnUnbound(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	sym := wisp.Symbols().Intern("nope")
	_, ok := wisp.Unbound.Resolve(sym)
	assert.False(t, ok)
}

func TestCheckCircularImportsDetectsCycle(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	a := wisp.NewContext(wisp.ContextModule, 0)
	b := wisp.NewContext(wisp.ContextModule, 0)
	imports := map[*wisp.Context][]*wisp.Context{
		a: {b},
		b: {a},
	}
	err := wisp.CheckCircularImports([]*wisp.Context{a, b}, func(c *wisp.Context) []*wisp.Context {
		return imports[c]
	})
	assert.Error(t, err)
}

func TestCheckCircularImportsAcceptsDag(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	a := wisp.NewContext(wisp.ContextModule, 0)
	b := wisp.NewContext(wisp.ContextModule, 0)
	c := wisp.NewContext(wisp.ContextModule, 0)
	imports := map[*wisp.Context][]*wisp.Context{
		a: {b},
		b: {c},
		c: nil,
	}
	err := wisp.CheckCircularImports([]*wisp.Context{a, b, c}, func(ctx *wisp.Context) []*wisp.Context {
		return imports[ctx]
	})
	assert.NoError(t, err)
}
