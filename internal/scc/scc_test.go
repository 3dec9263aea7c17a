package scc_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/scc"
)

func graphFrom(edges map[int][]int) scc.Graph[int] {
	return func(n int) iter.Seq[int] {
		return func(yield func(int) bool) {
			for _, dep := range edges[n] {
				if !yield(dep) {
					return
				}
			}
		}
	}
}

func TestSortDetectsNoCycleInDag(t *testing.T) {
	t.Parallel()

	g := graphFrom(map[int][]int{
		1: {2},
		2: {3},
		3: nil,
	})
	dag := scc.Sort(1, g)
	assert.False(t, dag.HasCycle())
}

func TestSortDetectsDirectCycle(t *testing.T) {
	t.Parallel()

	g := graphFrom(map[int][]int{
		1: {2},
		2: {1},
	})
	dag := scc.Sort(1, g)
	assert.True(t, dag.HasCycle())
}

func TestForNodeFindsOwningComponent(t *testing.T) {
	t.Parallel()

	g := graphFrom(map[int][]int{
		1: {2},
		2: nil,
	})
	dag := scc.Sort(1, g)

	comp := dag.ForNode(2)
	require.NotNil(t, comp)
	assert.Contains(t, comp.Members(), 2)
}

func TestForNodeReturnsNilForUnknownNode(t *testing.T) {
	t.Parallel()

	g := graphFrom(map[int][]int{1: nil})
	dag := scc.Sort(1, g)
	assert.Nil(t, dag.ForNode(99))
}
