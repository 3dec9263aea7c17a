package wisp

import "github.com/wisp-lang/wisp/internal/symtab"

// ThrowValue is a non-local exit in flight: a label identifying what it is
// unwinding to (a CATCH's name, a loop's BREAK/CONTINUE sentinel, or a
// function's own identity for RETURN) paired with the value being thrown
// (§4.9, C9).
type ThrowValue struct {
	// Label is nil for an "unnamed" throw (e.g. BREAK), a *symtab.Symbol
	// for a named CATCH, or a *Action identity for RETURN/a function's own
	// exit — comparisons use pointer identity, never molded equality.
	Label any
	Value Cell
}

// Throw constructs a ThrowValue and wraps it as a BounceThrown, the shape
// every Dispatcher and step (eval.go) returns to signal unwinding (§4.7/§4.9).
func Throw(label any, value Cell) Bounce {
	return ThrowBounce(&ThrowValue{Label: label, Value: value})
}

// ReturnLabel returns the identity token a RETURN from within a matches
// against: the action's own pointer. A return from one function is never
// caught by a different function, but every invocation of the same action
// shares this label.
func ReturnLabel(a *Action) any { return a }

// CatchMatches reports whether t is caught by a CATCH/RETURN guarding with
// label (nil label catches any unnamed throw, matching §4.9's "catch-all"
// form; a named label matches by symbol synonym or, for actions, pointer
// identity).
func CatchMatches(t *ThrowValue, label any) bool {
	if label == nil {
		return t.Label == nil
	}
	if t.Label == nil {
		return false
	}
	if ls, ok := label.(*symtab.Symbol); ok {
		if ts, ok := t.Label.(*symtab.Symbol); ok {
			return symtab.AreSynonyms(ls, ts)
		}
		return false
	}
	return label == t.Label
}

// Redo builds the Bounce a Dispatcher returns to ask the trampoline to
// re-enter its own frame's dispatch step with a fresh set of arguments —
// the generic tail call §4.9 describes, used both for user-level tail
// recursion and for REDO between sibling action phases (e.g. a
// specialization delegating to its base action). run reuses the frame
// slot, but a REDO issued from inside a function body still runs under
// that body's own Do/run calls, so each level grows the Go stack.
func Redo(f *Frame, checked bool) Bounce {
	kind := BounceRedoUnchecked
	if checked {
		kind = BounceRedoChecked
	}
	return Bounce{Kind: kind, Continuation: f}
}
