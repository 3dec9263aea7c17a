package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/symtab"
)

func TestInternReturnsSameSymbolForSameSpelling(t *testing.T) {
	t.Parallel()

	table := symtab.New()
	a := table.Intern("foo")
	b := table.Intern("foo")
	assert.Same(t, a, b)
	assert.Equal(t, 1, table.Len())
}

func TestInternDistinguishesExactSpellingButLinksSynonyms(t *testing.T) {
	t.Parallel()

	table := symtab.New()
	lower := table.Intern("foo")
	upper := table.Intern("FOO")
	mixed := table.Intern("Foo")

	assert.NotSame(t, lower, upper)
	assert.Equal(t, 3, table.Len())

	assert.True(t, symtab.AreSynonyms(lower, upper))
	assert.True(t, symtab.AreSynonyms(upper, mixed))
	assert.True(t, symtab.AreSynonyms(lower, lower))
}

func TestAreSynonymsFalseForUnrelatedWords(t *testing.T) {
	t.Parallel()

	table := symtab.New()
	a := table.Intern("foo")
	b := table.Intern("bar")
	assert.False(t, symtab.AreSynonyms(a, b))
}

func TestReserveAssignsIncreasingIDsUpToCeiling(t *testing.T) {
	t.Parallel()

	table := symtab.New()
	a := table.Intern("return")
	b := table.Intern("else")
	c := table.Intern("then")

	require.True(t, table.Reserve(a, 2))
	require.True(t, table.Reserve(b, 2))
	assert.False(t, table.Reserve(c, 2))

	assert.NotEqual(t, symtab.ID(0), a.ID())
	assert.NotEqual(t, symtab.ID(0), b.ID())
	assert.Equal(t, symtab.ID(0), c.ID())
}

func TestReserveIsIdempotentForAlreadyReservedSymbol(t *testing.T) {
	t.Parallel()

	table := symtab.New()
	a := table.Intern("return")
	require.True(t, table.Reserve(a, 5))
	firstID := a.ID()

	assert.False(t, table.Reserve(a, 5))
	assert.Equal(t, firstID, a.ID())
}
