package wisp

import (
	"fmt"

	"github.com/wisp-lang/wisp/internal/arena"
	"github.com/wisp-lang/wisp/internal/gc"
)

// stubArena owns every Series stub node (SPEC_FULL.md §4.2, C2). Stubs
// outlive individual append/resize churn on their backing slices, so they
// get the same bump allocation the teacher gives its own series stubs,
// instead of one small heap object per series.
var stubArena arena.Arena[Series]

// Flavor tags what kind of payload a Series carries (SPEC_FULL.md §4.2,
// C2: "flavor tag for subtype"). Two series of different flavors never
// alias, even if their element types happen to coincide (e.g. a varlist
// and a plain block are both []Cell underneath, but varlist cells have
// binding semantics a plain block's do not).
type Flavor uint8

const (
	FlavorArray    Flavor = iota // Block/group/path/tuple backing: []Cell.
	FlavorString                 // UTF-8 text backing: []byte.
	FlavorBinary                 // Raw bytes, no encoding assumed.
	FlavorVarlist                // Context values, paired with a keylist.
	FlavorKeylist                // Context keys (symbols + param specs).
	FlavorPairlist                // Map key/value interleave.
	FlavorParamlist               // Action parameter specs.
	FlavorDetails                 // Action dispatch details (native/body).
	FlavorQuoteBox                 // Single-cell quote-indirection box.
)

// lifecycle is a series stub's place in the allocation-to-reclamation
// pipeline (§4.2: "manual, GC-managed, or inaccessible").
type lifecycle uint8

const (
	lifecycleManual      lifecycle = iota // Owned by one Go value; no GC tracing.
	lifecycleManaged                      // Registered with a gc.Heap; traced and swept.
	lifecycleInaccessible                 // Reclaimed; any further access is a bug.
)

// seriesFlags holds the header bits that are orthogonal to lifecycle and
// flavor: protection level and the GC mark bit.
type seriesFlags uint8

const (
	sflagMarked seriesFlags = 1 << iota
	sflagProtected
	sflagFrozenShallow
	sflagFrozenDeep
	sflagHold
	sflagAutoLocked
	sflagNewlineAtTail
)

// Series is the variable-length, head-biased backing store for every
// container value (array, string, binary, context varlist/keylist, map
// pairlist, action paramlist/details): §4.2, C2. It is a deque biased for
// O(1) prepend via a moving "bias" offset into an oversized backing slice,
// exactly as spec.md describes; Go's append() already gives geometric
// growth, so Series only needs to add the bias trick on top of a slice.
type Series struct {
	flavor    Flavor
	life      lifecycle
	flags     seriesFlags
	walkEpoch uint64 // Last traversal epoch this node was visited in.

	bias int // Number of logical head-trimmed elements not yet reclaimed.

	cells []Cell // Valid when flavor == FlavorArray/Varlist/Keylist/...
	bytes []byte // Valid when flavor == FlavorString/Binary.

	// link is the series' companion node, when it has exactly one (a
	// varlist's keylist, or vice versa). Contexts and maps that need more
	// structure than a single companion keep it in their own root-level
	// type instead (context.go, mapv.go).
	link *Series
}

// NewArraySeries creates an empty, manually-owned array-flavored series
// with room for at least capHint elements before the first reallocation.
func NewArraySeries(capHint int) *Series {
	s := stubArena.Alloc()
	*s = Series{flavor: FlavorArray, cells: make([]Cell, 0, capHint)}
	return s
}

// NewStringSeries creates an empty, manually-owned string-flavored series.
func NewStringSeries(capHint int) *Series {
	s := stubArena.Alloc()
	*s = Series{flavor: FlavorString, bytes: make([]byte, 0, capHint)}
	return s
}

// NewBinarySeries creates an empty, manually-owned binary-flavored series.
func NewBinarySeries(capHint int) *Series {
	s := stubArena.Alloc()
	*s = Series{flavor: FlavorBinary, bytes: make([]byte, 0, capHint)}
	return s
}

func newSeriesFlavor(f Flavor, capHint int) *Series {
	s := stubArena.Alloc()
	s.flavor = f
	switch f {
	case FlavorString, FlavorBinary:
		s.bytes = make([]byte, 0, capHint)
	default:
		s.cells = make([]Cell, 0, capHint)
	}
	return s
}

// Flavor returns the series' subtype tag.
func (s *Series) Flavor() Flavor { return s.flavor }

// Len returns the number of logical elements, after bias.
func (s *Series) Len() int {
	if s.bytes != nil {
		return len(s.bytes) - s.bias
	}
	return len(s.cells) - s.bias
}

// Manage transitions s from manual to GC-managed lifecycle and registers
// it with heap. It is a bug to call Manage twice, or to call it on an
// already-inaccessible series (§4.2's lifecycle is one-way and linear).
func (s *Series) Manage(heap *gc.Heap) {
	if s.life != lifecycleManual {
		panic("wisp: Manage on a non-manual series")
	}
	s.life = lifecycleManaged
	heap.Register(s)
}

// Managed reports whether s is currently under GC control.
func (s *Series) Managed() bool { return s.life == lifecycleManaged }

// Marked/SetMarked/Trace/Reclaim implement gc.Node.
func (s *Series) Marked() bool { return s.flags&sflagMarked != 0 }

func (s *Series) SetMarked(v bool) bool {
	old := s.Marked()
	if v {
		s.flags |= sflagMarked
	} else {
		s.flags &^= sflagMarked
	}
	return old
}

func (s *Series) Trace(visit func(gc.Node)) {
	if s.link != nil {
		visit(s.link)
	}
	for i := range s.cells {
		c := &s.cells[i]
		if c.Fresh() {
			continue
		}
		if c.first.node != nil {
			visit(c.first.node)
		}
		if c.second.node != nil {
			visit(c.second.node)
		}
		if c.quote == quoteIndirect && c.indirect != nil {
			inner := &c.indirect.inner
			if inner.first.node != nil {
				visit(inner.first.node)
			}
			if inner.second.node != nil {
				visit(inner.second.node)
			}
		}
	}
}

func (s *Series) Reclaim() {
	if s.life == lifecycleInaccessible {
		return
	}
	s.life = lifecycleInaccessible
	s.cells = nil
	s.bytes = nil
	s.link = nil
}

// Inaccessible reports whether s has been reclaimed; any mutation or read
// of its payload past this point is a bug (§4.2).
func (s *Series) Inaccessible() bool { return s.life == lifecycleInaccessible }

func (s *Series) requireAccessible(op string) {
	if s.life == lifecycleInaccessible {
		panic(fmt.Sprintf("wisp: %s on an inaccessible series", op))
	}
}

// --- Protection -------------------------------------------------------

// MarkProtected/Protected/MarkFrozenShallow/FrozenShallow/MarkFrozenDeep/
// FrozenDeep/MarkHold/Hold/MarkAutoLocked/AutoLocked implement the
// protection-level lattice in §4.10 (C10): PROTECTED blocks mutation of
// this series; FROZEN_SHALLOW additionally makes it permanent; FROZEN_DEEP
// extends that through every series reachable from it (protect.go walks
// the graph and sets it on each); HOLD is a temporary, evaluator-scoped
// protection (e.g. a series currently being iterated); AUTO_LOCKED marks
// series REBOL locks automatically (e.g. a function's body block).
func (s *Series) MarkProtected(v bool) { s.setFlag(sflagProtected, v) }
func (s *Series) Protected() bool      { return s.flags&sflagProtected != 0 }

func (s *Series) MarkFrozenShallow(v bool) { s.setFlag(sflagFrozenShallow, v) }
func (s *Series) FrozenShallow() bool      { return s.flags&sflagFrozenShallow != 0 }

func (s *Series) MarkFrozenDeep(v bool) { s.setFlag(sflagFrozenDeep, v) }
func (s *Series) FrozenDeep() bool      { return s.flags&sflagFrozenDeep != 0 }

func (s *Series) MarkHold(v bool) { s.setFlag(sflagHold, v) }
func (s *Series) Hold() bool      { return s.flags&sflagHold != 0 }

func (s *Series) MarkAutoLocked(v bool) { s.setFlag(sflagAutoLocked, v) }
func (s *Series) AutoLocked() bool      { return s.flags&sflagAutoLocked != 0 }

func (s *Series) setFlag(f seriesFlags, v bool) {
	if v {
		s.flags |= f
	} else {
		s.flags &^= f
	}
}

// Writable reports whether s currently permits mutation: not protected,
// not frozen at any level, and not held.
func (s *Series) Writable() bool {
	return s.flags&(sflagProtected|sflagFrozenShallow|sflagFrozenDeep|sflagHold) == 0
}

func (s *Series) requireWritable(op string) {
	s.requireAccessible(op)
	if !s.Writable() {
		panic(fmt.Sprintf("wisp: %s on a protected/frozen/held series", op))
	}
}

// NewlineAtTail/MarkNewlineAtTail preserve the "trailing newline before
// closing bracket" source-formatting bit (§4.4).
func (s *Series) NewlineAtTail() bool { return s.flags&sflagNewlineAtTail != 0 }
func (s *Series) MarkNewlineAtTail(v bool) { s.setFlag(sflagNewlineAtTail, v) }

// --- Cell-backed element access (array/varlist/keylist/etc.) ----------

// At returns a pointer to the i'th logical cell. It panics on an
// out-of-range index or a non-cell-backed flavor.
func (s *Series) At(i int) *Cell {
	s.requireAccessible("At")
	if s.bytes != nil {
		panic("wisp: At on a byte-backed series")
	}
	idx := s.bias + i
	if i < 0 || idx >= len(s.cells) {
		panic(fmt.Sprintf("wisp: series index %d out of range [0,%d)", i, s.Len()))
	}
	return &s.cells[idx]
}

// Append adds a cell to the tail, growing the backing slice if needed.
// It rejects isotopes, per §3.4/§4.8: isotopes are not storable.
func (s *Series) Append(c Cell) {
	s.requireWritable("Append")
	if c.IsIsotope() {
		panic("wisp: cannot store an isotope in a series")
	}
	s.cells = append(s.cells, c)
}

// PrependHead moves the bias back by one and writes c into the newly
// exposed head slot, giving O(1) amortized prepend as long as bias > 0;
// once bias is exhausted it falls back to a full reallocation-and-shift,
// matching the teacher's arena block-growth discipline of doubling rather
// than growing by exactly what's needed.
func (s *Series) PrependHead(c Cell) {
	s.requireWritable("PrependHead")
	if c.IsIsotope() {
		panic("wisp: cannot store an isotope in a series")
	}
	if s.bias > 0 {
		s.bias--
		s.cells[s.bias] = c
		return
	}
	grown := make([]Cell, len(s.cells)+1, (len(s.cells)+1)*2)
	grown[0] = c
	copy(grown[1:], s.cells)
	s.cells = grown
}

// TrimHead discards n logical elements from the head in O(1), by bumping
// bias forward rather than shifting the backing slice (the deque-bias
// trick SPEC_FULL.md §4.2 calls out).
func (s *Series) TrimHead(n int) {
	s.requireWritable("TrimHead")
	if n < 0 || n > s.Len() {
		panic("wisp: TrimHead count out of range")
	}
	s.bias += n
}

// Bytes returns the raw backing bytes for a string/binary-flavored
// series. Callers must not retain the slice past a subsequent mutation.
func (s *Series) Bytes() []byte {
	s.requireAccessible("Bytes")
	if s.bytes == nil {
		panic("wisp: Bytes on a cell-backed series")
	}
	return s.bytes[s.bias:]
}

// AppendBytes appends raw bytes to a string/binary-flavored series.
func (s *Series) AppendBytes(b []byte) {
	s.requireWritable("AppendBytes")
	if s.bytes == nil {
		panic("wisp: AppendBytes on a cell-backed series")
	}
	s.bytes = append(s.bytes, b...)
}

// Link returns the series' companion node (a varlist's keylist, etc.), or
// nil if it has none.
func (s *Series) Link() *Series { return s.link }

// SetLink sets the companion node.
func (s *Series) SetLink(l *Series) { s.link = l }

// --- Cycle-safe traversal epoch ----------------------------------------

// walkEpochCounter is bumped once per cycle-safe deep traversal (mold,
// deep copy, PROTECT/deep); comparing a series' stored walkEpoch against
// the current counter is the "have I seen this node in this pass"
// check, avoiding a second clear pass over every node between
// traversals. This is deliberately a separate mechanism from the GC mark
// bit above: a mold can run while a GC-managed series is black in an
// in-progress collection, and the two must not clobber one another.
var walkEpochCounter uint64

// NextWalkEpoch returns a fresh epoch value, to be passed down through one
// deep traversal and compared against via Series.VisitedThisEpoch.
func NextWalkEpoch() uint64 {
	walkEpochCounter++
	return walkEpochCounter
}

// VisitedThisEpoch reports whether s has already been visited during
// epoch, marking it visited as a side effect if not (i.e. a
// test-and-set). Traversals call this once per node, at first encounter.
func (s *Series) VisitedThisEpoch(epoch uint64) bool {
	if s.walkEpoch == epoch {
		return true
	}
	s.walkEpoch = epoch
	return false
}
