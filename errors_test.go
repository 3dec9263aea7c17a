package wisp_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp"
)

func TestEvalErrorRendersTemplatedMessage(t *testing.T) {
	t.Parallel()

	e := &wisp.EvalError{ID: wisp.ErrNoValue, Args: []string{"foo"}}
	assert.Equal(t, "foo has no value", e.Error())
}

func TestEvalErrorRenderIncludesWhereChain(t *testing.T) {
	t.Parallel()

	e := &wisp.EvalError{
		ID:   wisp.ErrZeroDivide,
		Args: []string{"/"},
		Where: wisp.Where{Frames: []wisp.WhereFrame{{Label: "divide"}, {Label: "outer"}}},
	}
	rendered := e.Render()
	assert.Contains(t, rendered, "attempt to divide by zero: /")
	assert.Contains(t, rendered, "divide")
}

func TestRaiseErrorBuildsInspectableErrorContext(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	c := wisp.RaiseError(wisp.ErrBadArgType, "not-an-integer")
	require.Equal(t, wisp.HeartContext, c.Heart())

	ctx := c.AsContext()
	assert.Equal(t, wisp.ContextError, ctx.Kind())
	idIdx := ctx.Lookup(wisp.Symbols().Intern("id"))
	require.GreaterOrEqual(t, idIdx, 0)
	assert.Equal(t, int64(wisp.ErrBadArgType), ctx.Value(idIdx).AsInteger())
}

func TestCaptureWhereCarriesCallIDFromRootFrame(t *testing.T) {
	t.Parallel()

	root := &wisp.Frame{CallID: "abc-123"}
	child := &wisp.Frame{Parent: root}

	w := wisp.CaptureWhere(child)
	assert.Equal(t, "abc-123", w.CallID)
}

func TestCaptureWhereFallsBackToCurrentTaskFrameWhenNilPassed(t *testing.T) {
	t.Parallel()
	spec := newRootSpec(t)

	_, err := evalString(t, spec, "1")
	require.NoError(t, err)

	// Do restores the prior (nil) task-local frame once it returns, so
	// the fallback finds nothing left over from a finished call.
	w := wisp.CaptureWhere(nil)
	assert.Empty(t, w.CallID)
}

func TestRaiseErrorUserIDHasUserCategory(t *testing.T) {
	t.Parallel()
	wisp.InitRuntime()

	c := wisp.RaiseError(wisp.ErrUser, errors.New("boom").Error())
	ctx := c.AsContext()
	catIdx := ctx.Lookup(wisp.Symbols().Intern("category"))
	require.GreaterOrEqual(t, catIdx, 0)
	assert.Equal(t, int64(wisp.ErrCategoryUser), ctx.Value(catIdx).AsInteger())
}
