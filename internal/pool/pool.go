// Package pool provides a strongly-typed wrapper over sync.Pool.
//
// Adapted from the teacher's internal/sync2 (Pool) / internal/xsync
// pooling helpers, unchanged in shape: wisp uses this to pool action-call
// Frames (frame.go's framePool; SPEC_FULL.md §4.7, C7), after the way the
// teacher pools its parser recursion stack (internal/tdp/vm.stackPool)
// across calls to Run.
package pool

import "sync"

// Pool is like sync.Pool, but strongly typed.
type Pool[T any] struct {
	New   func() *T // Called to construct new values.
	Reset func(*T)  // Called to reset values before re-use.

	impl sync.Pool
}

// Get returns a cached value of type T, and a function that should be
// called once the use of the value is complete:
//
//	v, drop := pool.Get()
//	defer drop()
func (p *Pool[T]) Get() (v *T, drop func()) {
	v, _ = p.impl.Get().(*T)
	if v == nil {
		if p.New != nil {
			v = p.New()
		} else {
			v = new(T)
		}
	}

	return v, func() {
		if p.Reset != nil {
			p.Reset(v)
		}
		p.impl.Put(v)
	}
}
