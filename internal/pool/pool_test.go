package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wisp-lang/wisp/internal/pool"
)

type widget struct {
	n int
}

func TestPoolGetConstructsWhenEmpty(t *testing.T) {
	t.Parallel()

	p := pool.Pool[widget]{New: func() *widget { return &widget{n: 7} }}
	v, drop := p.Get()
	assert.Equal(t, 7, v.n)
	drop()
}

func TestPoolGetResetsOnReuse(t *testing.T) {
	t.Parallel()

	resetCalls := 0
	p := pool.Pool[widget]{
		New:   func() *widget { return &widget{} },
		Reset: func(w *widget) { w.n = 0; resetCalls++ },
	}

	v, drop := p.Get()
	v.n = 42
	drop()

	// Reset runs inside each drop, before the value goes back to sync.Pool,
	// so the count does not depend on whether a later Get reuses a value.
	for i := 0; i < 100; i++ {
		v2, drop2 := p.Get()
		_ = v2
		drop2()
	}
	assert.GreaterOrEqual(t, resetCalls, 1)
}

func TestPoolDefaultsToZeroValueWithoutNew(t *testing.T) {
	t.Parallel()

	p := pool.Pool[widget]{}
	v, drop := p.Get()
	assert.Equal(t, 0, v.n)
	drop()
}
