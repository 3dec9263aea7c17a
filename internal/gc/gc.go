// Package gc implements the mark-sweep collector over wisp's series heap
// (SPEC_FULL.md §4.2, C2). It knows nothing about Series/Array/Context
// directly: callers register anything satisfying Node, and the collector
// marks from a caller-supplied root set and sweeps whatever stayed white.
//
// Grounded on the teacher's internal/arena block-reuse discipline (Reset
// keeps the largest block rather than freeing everything) and its general
// "free list of candidate memory" shape; the teacher has no GC of its own
// (protobuf messages don't need one), so the mark-sweep algorithm itself
// follows spec.md §4.2 directly rather than an example.
package gc

import "github.com/wisp-lang/wisp/internal/debugx"

// Node is anything the collector can mark and sweep: a series stub, in
// wisp's case. The mark bit is intentionally not exposed as a type the
// caller can read generically — Marked/SetMarked round-trip through the
// Node itself, since only the node's own package (series.go) knows how to
// store it alongside the node's other header bits.
type Node interface {
	// Marked reports the node's current mark-bit state.
	Marked() bool
	// SetMarked sets the mark bit and returns the previous value, so
	// Collect can tell a first-visit from a revisit without a second call.
	SetMarked(bool) bool
	// Trace calls visit once for every Node this node directly references
	// (e.g. an array's live elements that are themselves series-backed).
	Trace(visit func(Node))
	// Reclaim is called exactly once per node, the first time a sweep
	// finds it still white. It should release whatever backing storage
	// the node owns (SPEC_FULL.md: "accessible -> inaccessible" series
	// lifecycle transition, §4.2).
	Reclaim()
}

// Heap owns the registry of every managed node and runs Collect over a
// caller-provided root set. It does not itself decide *when* to collect;
// that is the ballast counter's job (internal/stats.Ballast), driven by
// the interpreter's allocation sites.
type Heap struct {
	nodes []Node
	gen   uint64 // Collections run so far; exposed for diagnostics only.
}

// New returns an empty heap.
func New() *Heap { return &Heap{} }

// Register adds n to the set the next Collect will consider. A node must
// be registered exactly once, at the point it becomes GC-managed (spec.md
// §4.2: "manual -> GC-managed" transition, e.g. the first time a literal
// array outlives the frame that created it).
func (h *Heap) Register(n Node) {
	h.nodes = append(h.nodes, n)
}

// Live returns the number of nodes registered as of the last Collect (or
// ever, if Collect has not run) — an upper bound on live nodes, not exact
// between collections.
func (h *Heap) Live() int { return len(h.nodes) }

// Generation returns how many collections have run.
func (h *Heap) Generation() uint64 { return h.gen }

// Collect marks from roots and reclaims every node that did not become
// reachable, per SPEC_FULL.md §4.2's mark-sweep description. It returns
// the number of nodes reclaimed.
//
// The mark bit here is intentionally distinct from any "have I visited
// this node already in the current traversal" bit a cycle-safe walk (mold,
// deep copy, PROTECT/deep) might keep of its own — those walks use a
// generation-stamped epoch (see internal/gc's sibling concern in
// series.go's walkEpoch) rather than overloading this collector's mark
// bit, since a mold pass can run concurrently with values that are
// mid-collection-cycle.
func (h *Heap) Collect(roots []Node) int {
	for _, r := range roots {
		h.mark(r)
	}

	kept := h.nodes[:0]
	reclaimed := 0
	for _, n := range h.nodes {
		if n.SetMarked(false) {
			// SetMarked(false) both clears for the next cycle and reports
			// whether it had been set — true means it was reached.
			kept = append(kept, n)
		} else {
			n.Reclaim()
			reclaimed++
		}
	}
	h.nodes = kept
	h.gen++

	debugx.Log(nil, "gc.Collect", "gen=%d reclaimed=%d live=%d", h.gen, reclaimed, len(h.nodes))
	return reclaimed
}

func (h *Heap) mark(n Node) {
	if n == nil || n.Marked() {
		return
	}
	n.SetMarked(true)
	n.Trace(h.mark)
}
