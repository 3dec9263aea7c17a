// Package task maps the calling goroutine to the Frame currently driving
// its evaluator (SPEC_FULL.md §5: "exactly one evaluator runs per task",
// where a task is a goroutine), so host-side code that never receives a
// *Frame explicitly — a recover in a deferred panic handler, a debugger
// attach point — can still recover enough context to render a where/near
// diagnostic.
//
// Grounded on the teacher's own goroutine-local pattern in internal/debugx
// (itself adapted from the teacher's internal/debug, which keys its log
// capture the same way), both built on github.com/timandy/routine.
package task

import "github.com/timandy/routine"

var current = routine.NewLocalWithInitializer(func() any { return nil })

// Current is stored and returned as any (rather than a concrete *Frame
// type) so this package never needs to import the root wisp package,
// which would otherwise import task to call Set/Current and close a
// cycle.
type Current = any

// Set records v as the frame currently running on the calling goroutine,
// returning whatever was previously set so the caller can restore it once
// its own span ends (the natural shape for nested Do calls, where a
// group's sub-evaluation must not permanently clobber the enclosing
// task's frame).
func Set(v Current) (previous Current) {
	previous = current.Get()
	current.Set(v)
	return previous
}

// Get returns whatever was last Set on the calling goroutine, or nil if
// nothing was.
func Get() Current { return current.Get() }
