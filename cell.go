// Package wisp implements the core runtime of a homoiconic, block-
// structured, Rebol-family interpreter: the value-cell model, the series
// subsystem, the evaluator/action executor, and the lexical scanner (see
// SPEC_FULL.md, §§3-4).
package wisp

import (
	"fmt"

	"github.com/wisp-lang/wisp/internal/arena"
	"github.com/wisp-lang/wisp/internal/symtab"
)

// indirectArena owns every indirectBox allocated for quote depth >= 4
// (§3.1). Boxes are small, short-lived relative to the process, and never
// individually freed, so a bump arena avoids one GC-tracked heap object
// per deeply-quoted cell.
var indirectArena arena.Arena[indirectBox]

// Heart names a cell's underlying datatype, ignoring any quoting level
// (SPEC_FULL.md §3.1, GLOSSARY "Heart"). It is a closed enumeration, per
// the design note in §9: "use a closed sum type of heart and a quote
// counter... do not attempt to represent via inheritance."
type Heart uint8

const (
	HeartNone Heart = iota // The unit value `none`, molds as "none".

	HeartLogic
	HeartInteger
	HeartDecimal
	HeartPair
	HeartDate
	HeartTime
	HeartIssue // Small enough (<=1 codepoint) to live inline; see §3.3.

	HeartBlock
	HeartGroup
	HeartPath
	HeartTuple

	HeartWord
	HeartSetWord
	HeartGetWord
	HeartMetaWord
	HeartTheWord
	HeartTypeWord

	HeartString
	HeartFile
	HeartURL
	HeartEmail
	HeartTag
	HeartBinary

	HeartSymbol // Raw interned spelling, rarely surfaced directly.

	HeartMap
	HeartContext // Object / module / frame / error / port; see ContextKind.
	HeartAction

	HeartVarargs

	heartCount
)

//go:generate stringer -type=Heart

func (h Heart) String() string {
	switch h {
	case HeartNone:
		return "none!"
	case HeartLogic:
		return "logic!"
	case HeartInteger:
		return "integer!"
	case HeartDecimal:
		return "decimal!"
	case HeartPair:
		return "pair!"
	case HeartDate:
		return "date!"
	case HeartTime:
		return "time!"
	case HeartIssue:
		return "issue!"
	case HeartBlock:
		return "block!"
	case HeartGroup:
		return "group!"
	case HeartPath:
		return "path!"
	case HeartTuple:
		return "tuple!"
	case HeartWord:
		return "word!"
	case HeartSetWord:
		return "set-word!"
	case HeartGetWord:
		return "get-word!"
	case HeartMetaWord:
		return "meta-word!"
	case HeartTheWord:
		return "the-word!"
	case HeartTypeWord:
		return "type-word!"
	case HeartString:
		return "string!"
	case HeartFile:
		return "file!"
	case HeartURL:
		return "url!"
	case HeartEmail:
		return "email!"
	case HeartTag:
		return "tag!"
	case HeartBinary:
		return "binary!"
	case HeartSymbol:
		return "symbol!"
	case HeartMap:
		return "map!"
	case HeartContext:
		return "context!"
	case HeartAction:
		return "action!"
	case HeartVarargs:
		return "varargs!"
	default:
		return fmt.Sprintf("heart(%d)", uint8(h))
	}
}

// quoteState is the cell's quote byte (§3.1). Depths 0-3 are stored
// in-line (free to bump/unbump); depthIndirect marks that the real depth
// and the unquoted value live behind a single arena indirection in the
// cell's indirect field. quasi and isotope are the two "distinguished values"
// spec.md calls out, each orthogonal to quote depth.
type quoteState int8

const (
	quoteUnquoted quoteState = 0
	quoteDepth1   quoteState = 1
	quoteDepth2   quoteState = 2
	quoteDepth3   quoteState = 3
	quoteIndirect quoteState = 4
	quoteQuasi    quoteState = -1
	quoteIsotope  quoteState = -2
)

// flags is the cell header's bit set (§3.1), minus the node-marker/cell-
// marker bits, which are implicit in Go's type system (a Cell is always a
// Cell) rather than runtime-checked tag bits.
type flags uint16

const (
	flagManaged flags = 1 << iota
	flagProtected
	flagConst
	flagExplicitMutable
	flagStale
	flagNewlineBefore
	flagUnevaluated
)

// indirectBox is the single-cell arena indirection used for quote depth
// >= 4 (§3.1, §9). depth is the *additional* levels beyond the 3 that fit
// inline, so the effective quote depth is 3+depth.
type indirectBox struct {
	inner Cell
	depth int
}

// Cell is the fixed-shape tagged value that every wisp runtime value is
// built from (§3.1). Conceptually it has four fields — header, extra, and
// two payload words — but Go has no bit-packed tagged union, so flags,
// heart and quote are broken into named fields and the two payload words
// are represented as an explicit pair of slots (node-or-immediate), which
// is exactly what spec.md §3.1 describes payload.first/payload.second as
// being.
type Cell struct {
	heart Heart
	quote quoteState
	fl    flags
	extra int64

	first  slot
	second slot

	indirect *indirectBox // non-nil iff quote == quoteIndirect
}

// slot is one of the cell's two payload words: a reference to a series (a
// "node", in spec.md's terminology), an interned symbol (for word-class
// cells), or 64 raw immediate bits. Exactly one of node/sym is non-nil for
// any given heart; which one is determined entirely by the cell's heart,
// the same way the teacher's tagged payloads are interpreted according to
// a field descriptor rather than a runtime check.
type slot struct {
	node *Series
	sym  *symtab.Symbol
	obj  any // Rarely used: e.g. *Action for action! cells (action.go).
	bits uint64
}

// Fresh reports whether c has never been written to since being zeroed.
// spec.md §3.1: "reads of uninitialized cells are fatal"; wisp enforces
// this at the API boundary instead of trusting zeroed memory, since a Go
// zero Cell is indistinguishable from a written none! without a sentinel.
// freshSentinel is heart value that can never otherwise occur (heartCount
// is one past the end of the real enumeration).
const freshSentinel Heart = heartCount

// Erase resets c to the fresh (unwritten) state, clearing all flags and
// payload. A prepped cell must be written with one of the constructors in
// value.go before it can be safely read.
func (c *Cell) Erase() {
	*c = Cell{heart: freshSentinel}
}

// Fresh reports whether c is erased and has never been given a value.
func (c *Cell) Fresh() bool {
	return c.heart == freshSentinel
}

func (c *Cell) requireNotFresh(op string) {
	if c.Fresh() {
		panic(fmt.Sprintf("wisp: %s on an unwritten (fresh) cell", op))
	}
}

// Heart returns the cell's datatype, ignoring quoting (§3.1).
func (c *Cell) Heart() Heart {
	c.requireNotFresh("Heart")
	return c.heart
}

// QuoteDepth returns the effective quoting level: 0 for an unquoted,
// non-quasi, non-isotope value. Quasi and isotope cells report depth 0;
// use IsQuasi/IsIsotope to distinguish those states.
func (c *Cell) QuoteDepth() int {
	c.requireNotFresh("QuoteDepth")
	switch {
	case c.quote == quoteIndirect:
		return 3 + c.indirect.depth
	case c.quote < 0:
		return 0
	default:
		return int(c.quote)
	}
}

// IsQuasi reports whether c is a quasiform (the sigil-free "quasi"
// distinguished quote value, which Mold writes between `~` marks; the
// scanner does not produce it, and `~null~` scans as a plain word).
func (c *Cell) IsQuasi() bool {
	c.requireNotFresh("IsQuasi")
	return c.quote == quoteQuasi
}

// IsIsotope reports whether c is an isotope: a non-storable transient
// result state (§3.1, §3.4). Isotopes may not be copied into arrays
// (Array.Append et al. reject them) or bound as non-meta arguments
// (enforced in the evaluator's typechecking pass, §4.8).
func (c *Cell) IsIsotope() bool {
	c.requireNotFresh("IsIsotope")
	return c.quote == quoteIsotope
}

// Kind returns the pair (heart, effective quote state) that spec.md §3.1
// calls a cell's datatype. Two cells have the same Kind iff they would
// mold identically modulo payload.
type Kind struct {
	Heart Heart
	Quote int // 0 for unquoted; negative sentinels are not surfaced here.
	Quasi bool
	Isotope bool
}

// Kind computes c's full datatype.
func (c *Cell) Kind() Kind {
	return Kind{
		Heart:   c.Heart(),
		Quote:   c.QuoteDepth(),
		Quasi:   c.IsQuasi(),
		Isotope: c.IsIsotope(),
	}
}

// Quotify increases c's quote depth by n (n >= 0), converting from the
// in-line representation to the indirect one exactly when the new depth
// crosses 3, per §3.1's "quoting trick". Quasi and isotope cells cannot be
// quotified further (REBOL's own rule: quasiforms and isotopes are not
// stacked).
func (c *Cell) Quotify(n int) {
	c.requireNotFresh("Quotify")
	if n < 0 {
		panic("wisp: Quotify with negative n; use Unquotify")
	}
	if n == 0 {
		return
	}
	if c.quote < 0 {
		panic("wisp: cannot quotify a quasi or isotope cell")
	}

	newDepth := c.QuoteDepth() + n
	c.setDepth(newDepth)
}

// Unquotify decreases c's quote depth by n. It panics if n exceeds c's
// current depth, mirroring the interpreter's own "not quoted enough"
// failure.
func (c *Cell) Unquotify(n int) {
	c.requireNotFresh("Unquotify")
	if n < 0 {
		panic("wisp: Unquotify with negative n; use Quotify")
	}
	if c.quote < 0 {
		if n == 0 {
			return
		}
		panic("wisp: cannot unquotify a quasi or isotope cell")
	}

	cur := c.QuoteDepth()
	if n > cur {
		panic(fmt.Sprintf("wisp: Unquotify(%d) exceeds current depth %d", n, cur))
	}
	c.setDepth(cur - n)
}

// setDepth is the shared bijective transition between the in-line (0-3)
// and indirect (>=4) quote representations. It is the operation §8's
// testable property constrains: "Quotify(c,n)/Unquotify... is a bijection
// on (heart, payload); the result's evaluated kind equals the original."
func (c *Cell) setDepth(depth int) {
	switch {
	case depth <= 3:
		if c.quote == quoteIndirect {
			inner := c.indirect.inner
			*c = inner
		}
		c.quote = quoteState(depth)
	default:
		if c.quote == quoteIndirect {
			c.indirect.depth = depth - 3
			return
		}
		unquoted := *c
		unquoted.quote = quoteUnquoted
		box := indirectArena.Alloc()
		*box = indirectBox{inner: unquoted, depth: depth - 3}
		c.indirect = box
		c.first, c.second, c.extra = slot{}, slot{}, 0
		c.quote = quoteIndirect
	}
}

// Copy overwrites dst with src's heart and payload, but never propagates
// the per-cell flags that §4.1 says must not survive a copy: PROTECTED,
// the newline-before hint, STALE, and the const-vs-explicitly-mutable
// preference (the destination keeps whatever mutability flag it already
// had, or the caller sets one explicitly via MarkConst/MarkMutable).
//
// This is never a raw assignment/memcpy precisely so that a copy out of a
// protected array cannot smuggle the PROTECTED bit into an unrelated,
// writable slot.
func Copy(dst, src *Cell) {
	src.requireNotFresh("Copy (src)")
	keepFlags := dst.fl & (flagConst | flagExplicitMutable)

	*dst = *src
	dst.fl = (src.fl &^ (flagProtected | flagNewlineBefore | flagStale | flagConst | flagExplicitMutable)) | keepFlags
}

// MarkProtected/Protected implement the cell-level PROTECTED flag (§4.10):
// a read-only variable slot, independent of the series it may reference
// being protected or frozen.
func (c *Cell) MarkProtected(v bool) {
	c.requireNotFresh("MarkProtected")
	if v {
		c.fl |= flagProtected
	} else {
		c.fl &^= flagProtected
	}
}

func (c *Cell) Protected() bool { return c.fl&flagProtected != 0 }

// MarkConst/Const and MarkExplicitMutable/ExplicitMutable implement the
// const-propagation view described in SPEC_FULL.md's design notes (§9):
// mutability is a property of the referring cell, not of the array it
// points to, so that evaluating a literal BLOCK can mark its child arrays
// CONST while a `mutable` wrapper on one sub-value overrides that view.
func (c *Cell) MarkConst(v bool) {
	c.requireNotFresh("MarkConst")
	if v {
		c.fl |= flagConst
		c.fl &^= flagExplicitMutable
	} else {
		c.fl &^= flagConst
	}
}

func (c *Cell) Const() bool { return c.fl&flagConst != 0 }

func (c *Cell) MarkExplicitMutable(v bool) {
	c.requireNotFresh("MarkExplicitMutable")
	if v {
		c.fl |= flagExplicitMutable
		c.fl &^= flagConst
	} else {
		c.fl &^= flagExplicitMutable
	}
}

func (c *Cell) ExplicitMutable() bool { return c.fl&flagExplicitMutable != 0 }

// NewlineBefore/MarkNewlineBefore preserve source formatting (§4.4:
// "newline-at-tail flag on the stub to preserve formatting" — the
// per-element counterpart lives on the cell).
func (c *Cell) NewlineBefore() bool { return c.fl&flagNewlineBefore != 0 }

func (c *Cell) MarkNewlineBefore(v bool) {
	if v {
		c.fl |= flagNewlineBefore
	} else {
		c.fl &^= flagNewlineBefore
	}
}

// Unevaluated reports whether this cell was produced by a hard quote
// (§4.8 argument fulfillment step 8) rather than by evaluation — used by
// SOFT-class parameters to decide whether to treat a get-group/get-word
// specially.
func (c *Cell) Unevaluated() bool { return c.fl&flagUnevaluated != 0 }

func (c *Cell) markUnevaluated(v bool) {
	if v {
		c.fl |= flagUnevaluated
	} else {
		c.fl &^= flagUnevaluated
	}
}

// markQuasi/markIsotope are used by value constructors and by the
// evaluator's isotope-producing operations (decay, meta, etc).
func (c *Cell) markQuasi()   { c.quote = quoteQuasi }
func (c *Cell) markIsotope() { c.quote = quoteIsotope }

// Reify turns a quasiform into its isotope (the "decay" direction used
// when a quasi value flows into evaluated position) or vice versa,
// matching the interpreter's QUASI/ISOTOPE relationship: they share a
// heart and payload and differ only in the distinguished quote value.
func (c *Cell) Reify() {
	c.requireNotFresh("Reify")
	switch c.quote {
	case quoteQuasi:
		c.quote = quoteIsotope
	case quoteIsotope:
		c.quote = quoteQuasi
	default:
		panic("wisp: Reify on a non-quasi, non-isotope cell")
	}
}
