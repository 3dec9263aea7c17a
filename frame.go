package wisp

import (
	"fmt"

	"github.com/wisp-lang/wisp/internal/gc"
	"github.com/wisp-lang/wisp/internal/pool"
	"github.com/wisp-lang/wisp/internal/stats"
)

// BounceKind tags what a single evaluator step produced (§4.7, C7's
// "bounce-based continuation protocol"): a plain value, a request to run
// another frame to completion before resuming, a tail-call-shaped
// delegation to a sibling action phase, a thrown non-local exit, or a
// request to redo the current frame's body (with or without re-running
// its typecheck pass).
type BounceKind uint8

const (
	BounceValue      BounceKind = iota // OUT holds the result; step is done.
	BounceNull                         // The evaluation produced no value.
	BounceContinue                     // Run Continuation to completion, then resume this frame.
	BounceDelegate                     // Tail-hand this frame's remaining work to Continuation.
	BounceThrown                       // A throw is unwinding; see Bounce.Thrown.
	BounceRedoUnchecked                // Re-enter dispatch of Continuation (which carries the new arguments), skipping typecheck.
	BounceRedoChecked                  // Handled by run exactly like BounceRedoUnchecked; typechecking is not re-run.
	BounceSuspend                      // Yield control to the host loop (e.g. a debugger breakpoint).
)

// Bounce is the value a Dispatcher or step (eval.go) returns to its trampoline
// (§4.7). Exactly one of Out/Continuation/Thrown is meaningful, depending
// on Kind.
type Bounce struct {
	Kind         BounceKind
	Out          Cell
	Continuation *Frame
	Thrown       *ThrowValue
}

// OutBounce wraps a finished value as a BounceValue.
func OutBounce(v Cell) Bounce { return Bounce{Kind: BounceValue, Out: v} }

// NullBounce is the canonical "no value" result.
func NullBounce() Bounce { return Bounce{Kind: BounceNull} }

// ContinueWith asks the trampoline to fully run next before resuming the
// frame that returned this Bounce.
func ContinueWith(next *Frame) Bounce { return Bounce{Kind: BounceContinue, Continuation: next} }

// DelegateTo hands the rest of this frame's work to next as a tail call:
// unlike ContinueWith, the trampoline does not resume the delegating
// frame afterward (§4.7's "generic tail calls between sibling phases").
func DelegateTo(next *Frame) Bounce { return Bounce{Kind: BounceDelegate, Continuation: next} }

// ThrowBounce propagates a non-local exit (throw.go).
func ThrowBounce(t *ThrowValue) Bounce { return Bounce{Kind: BounceThrown, Thrown: t} }

// frameState is where a Frame sits in the argument-fulfillment state
// machine the evaluator drives it through (§4.8, C8): InitialEntry ->
// FulfillingArgs -> DoingPickups -> Typechecking -> Dispatch.
type frameState uint8

const (
	stateInitialEntry frameState = iota
	stateFulfillingArgs
	stateDoingPickups
	stateTypechecking
	stateDispatch
	stateDone
)

// Feed is the cursor a Frame reads successive unevaluated values from: the
// array being evaluated, plus its current index (§4.7). Evaluating a
// block advances a Feed; evaluating an action's arguments shares the
// caller's Feed so that e.g. enfix lookahead can peek one element ahead
// without a separate buffer.
type Feed struct {
	Source *Series // Flavor FlavorArray; the block/group being fed from.
	Spec   *Specifier
	index  int

	// Heap/Ballast/ballastSize are set only on a feed created with
	// NewManagedFeed; a plain NewFeed leaves them nil/zero, and every
	// safe-point check below becomes a no-op, matching a manual-lifecycle
	// evaluation that never schedules a recycle.
	Heap        *gc.Heap
	Ballast     *stats.Ballast
	ballastSize int64
}

// NewFeed creates a feed starting at the head of source, with no GC
// management: source and anything it reaches stay on the manual lifecycle
// (§4.2) for this feed's whole run.
func NewFeed(source *Series, spec *Specifier) *Feed {
	return &Feed{Source: source, Spec: spec}
}

// NewManagedFeed is like NewFeed, but additionally places source under
// heap's GC management (the "manual -> GC-managed" transition §4.2
// describes for a literal array that outlives the frame that created it)
// and arranges for DoAll to run a collection at the next safe point
// whenever ballast crosses zero, replenishing it back to ballastSize
// afterward.
func NewManagedFeed(source *Series, spec *Specifier, heap *gc.Heap, ballast *stats.Ballast, ballastSize int64) *Feed {
	if !source.Managed() {
		source.Manage(heap)
	}
	return &Feed{Source: source, Spec: spec, Heap: heap, Ballast: ballast, ballastSize: ballastSize}
}

// roots returns the GC root set visible at a safe point on this feed: the
// feed's own source block (still being read from) plus every context
// reachable through its specifier chain (the values a still-running
// program can reach through a bound word). Series reachable only through
// those roots' Trace are found by the collector itself, not listed here.
func (f *Feed) roots() []gc.Node {
	roots := []gc.Node{f.Source}
	seen := map[*Context]bool{}
	for s := f.Spec; s != nil; s = s.Parent {
		if s.Context != nil && !seen[s.Context] {
			seen[s.Context] = true
			roots = append(roots, s.Context.Varlist())
		}
	}
	return roots
}

// maybeCollect runs a GC cycle and replenishes the ballast if this feed is
// heap-managed and its ballast has crossed zero (§4.2/§8: "ballast
// crossing zero schedules a recycle at the next safe point"). DoAll calls
// this between top-level expressions, since no frame straddles that point.
func (f *Feed) maybeCollect() {
	if f.Heap == nil || f.Ballast == nil || !f.Ballast.Due() {
		return
	}
	f.Heap.Collect(f.roots())
	f.Ballast.Replenish(f.ballastSize)
}

// AtEnd reports whether the feed has no more elements.
func (f *Feed) AtEnd() bool { return f.index >= f.Source.Len() }

// Peek returns the next cell without consuming it, or nil at end.
func (f *Feed) Peek() *Cell {
	if f.AtEnd() {
		return nil
	}
	return f.Source.At(f.index)
}

// PeekAt returns the cell offset elements ahead of the cursor (0 is the
// same as Peek), or nil past the end. The evaluator's one-step enfix
// lookahead (§4.8, maybeEnfix in eval.go) uses Peek, not PeekAt.
func (f *Feed) PeekAt(offset int) *Cell {
	i := f.index + offset
	if i < 0 || i >= f.Source.Len() {
		return nil
	}
	return f.Source.At(i)
}

// Take returns the next cell and advances the cursor, or nil at end.
func (f *Feed) Take() *Cell {
	c := f.Peek()
	if c != nil {
		f.index++
	}
	return c
}

// Index returns the feed's current cursor position.
func (f *Feed) Index() int { return f.index }

// SetIndex repositions the cursor. REDO (redoDispatch, natives.go) does
// not use it: it re-enters dispatch instead of rewinding a feed.
func (f *Feed) SetIndex(i int) {
	if i < 0 || i > f.Source.Len() {
		panic(fmt.Sprintf("wisp: feed index %d out of range", i))
	}
	f.index = i
}

// Frame is one activation of the evaluator: either a plain "evaluate this
// feed to one value" frame, or an action call frame additionally carrying
// its Action, its in-progress argument array, and its fulfillment state
// (§4.7, §4.8).
type Frame struct {
	Feed   *Feed
	Parent *Frame

	// Action-call fields; nil/zero for a plain evaluate-one-value frame.
	Action *Action
	Args   []Cell // Slot-aligned with Action.Params(), plus Action.partials.
	Label  *Cell  // The word/path cell this call was invoked through, for diagnostics.

	state     frameState
	argCursor int   // Index into Action.Params() during fulfillment.
	pickups   []int // Refinement argument indices deferred to a pickup pass.
	Out       Cell

	// CallID correlates this frame's diagnostics across host boundaries
	// (errors.go's Where); it is set only on the frame a top-level Do call
	// creates (eval.go), not on nested action-call frames, since it names
	// the call, not the step.
	CallID string

	release func() // Returns this frame's backing storage to framePool.
}

// framePool recycles Frame.Args backing slices of frames handed back
// through Release, the same pattern the teacher's internal/sync2.Pool
// applies to its P1/P2 VM register windows. The evaluator (eval.go,
// natives.go) never calls Release, so its call frames are not returned.
var framePool = pool.Pool[Frame]{
	New:   func() *Frame { return &Frame{} },
	Reset: func(f *Frame) { *f = Frame{Args: f.Args[:0]} },
}

// NewActionFrame starts a call frame for invoking a with feed as the
// source of its not-yet-evaluated arguments, under parent (the frame that
// is making the call, for diagnostics and throw/catch unwinding).
func NewActionFrame(a *Action, feed *Feed, parent *Frame) *Frame {
	f, drop := framePool.Get()
	f.Feed = feed
	f.Parent = parent
	f.Action = a
	f.release = drop
	if cap(f.Args) < len(a.params) {
		f.Args = make([]Cell, len(a.params))
	} else {
		f.Args = f.Args[:len(a.params)]
		for i := range f.Args {
			f.Args[i] = Cell{}
		}
	}
	f.state = stateInitialEntry
	f.argCursor = 0
	f.pickups = f.pickups[:0]
	return f
}

// Release returns f's backing storage to the pool. Callers must not touch
// f afterward.
func (f *Frame) Release() {
	if f.release != nil {
		f.release()
	}
}

// State exposes the frame's fulfillment state for diagnostics.
func (f *Frame) State() frameState { return f.state }

// Depth returns how many parent frames lie between f and the root,
// walking Parent links.
func (f *Frame) Depth() int {
	n := 0
	for p := f.Parent; p != nil; p = p.Parent {
		n++
	}
	return n
}
