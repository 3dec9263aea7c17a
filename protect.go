package wisp

import "github.com/wisp-lang/wisp/internal/gc"

// Protect applies PROTECTED to s, and — if deep is true — to every series
// reachable from s, using the cycle-safe walk epoch mechanism (series.go)
// so that a self-referential block only gets visited once no matter how
// many cycles pass through it (§4.10, C10).
func Protect(s *Series, deep bool) {
	if !deep {
		s.MarkProtected(true)
		return
	}
	epoch := NextWalkEpoch()
	walkDeep(s, epoch, func(n *Series) { n.MarkProtected(true) })
}

// FreezeShallow marks s FROZEN_SHALLOW: like PROTECTED, but permanent —
// there is no Unprotect for a frozen series.
func FreezeShallow(s *Series) { s.MarkFrozenShallow(true) }

// FreezeDeep marks s and everything reachable from it FROZEN_DEEP.
func FreezeDeep(s *Series) {
	epoch := NextWalkEpoch()
	walkDeep(s, epoch, func(n *Series) {
		n.MarkFrozenShallow(true)
		n.MarkFrozenDeep(true)
	})
}

// Unprotect clears PROTECTED from s (and, if deep, from every series
// reachable from it). It is a no-op on a FROZEN_SHALLOW/FROZEN_DEEP
// series: freezing is one-way, matching the REBOL-family LOCK semantics
// §4.10 describes.
func Unprotect(s *Series, deep bool) {
	if s.FrozenShallow() || s.FrozenDeep() {
		return
	}
	if !deep {
		s.MarkProtected(false)
		return
	}
	epoch := NextWalkEpoch()
	walkDeep(s, epoch, func(n *Series) {
		if !n.FrozenShallow() && !n.FrozenDeep() {
			n.MarkProtected(false)
		}
	})
}

// walkDeep visits s and every series transitively reachable from it
// exactly once per epoch, applying visit to each. It reuses Series.Trace
// (the same child-enumeration the garbage collector uses, series.go),
// adapted to a plain recursive walk rather than a mark-sweep pass, since
// protection needs to *touch* every reachable node rather than decide
// liveness.
func walkDeep(s *Series, epoch uint64, visit func(*Series)) {
	if s.VisitedThisEpoch(epoch) {
		return
	}
	visit(s)
	s.Trace(func(n gc.Node) {
		if child, ok := n.(*Series); ok {
			walkDeep(child, epoch, visit)
		}
	})
}

// Locked reports whether a mutation of s should be rejected outright
// (PROTECTED, FROZEN_SHALLOW, FROZEN_DEEP, or a temporary evaluator HOLD
// — e.g. a series currently being iterated by FOREACH).
func Locked(s *Series) bool { return !s.Writable() }
