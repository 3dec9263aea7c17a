package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wisp-lang/wisp/internal/diag"
)

func TestRenderWhereEmptyChain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "    (no call frames)", diag.RenderWhere(nil))
}

func TestRenderWhereIndentsByDepth(t *testing.T) {
	t.Parallel()

	out := diag.RenderWhere([]diag.WhereFrame{
		{Label: "foo", Depth: 0},
		{Label: "", Depth: 1},
	})
	assert.Contains(t, out, "** in foo")
	assert.Contains(t, out, "  ** in <anonymous>")
}

func TestRenderNearMarksFailurePoint(t *testing.T) {
	t.Parallel()

	tokens := []string{"a", "b", "c", "d", "e"}
	out := diag.RenderNear(tokens, 2, 1)
	assert.Equal(t, "b *** c *** d", out)
}

func TestRenderNearClampsWindowAtEdges(t *testing.T) {
	t.Parallel()

	tokens := []string{"a", "b", "c"}
	out := diag.RenderNear(tokens, 0, 5)
	assert.Equal(t, "*** a *** b c", out)
}
