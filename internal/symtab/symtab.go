// Package symtab implements UTF-8 symbol interning with stable
// small-integer ids, as specified in SPEC_FULL.md §4.3 (C3).
//
// Identical byte sequences always intern to the same canonical *Symbol.
// Case variants of one spelling ("foo", "Foo", "FOO") share a canon
// through a circular linked list (the same representation spec.md's
// GLOSSARY calls out for symbols); AreSynonyms compares canon pointers,
// so it is O(1) and does not walk the chain.
//
// The open-addressing table underneath is internal/swiss, grounded on the
// teacher's internal/swiss package; this package adapts it to string keys
// hashed with the fxhash variant in internal/swiss's fxhash.go.
package symtab

import (
	"strings"

	"github.com/wisp-lang/wisp/internal/swiss"
)

// ID is a compile-time-reserved small integer id for a well-known symbol
// (e.g. the handful of words the evaluator switches on directly, such as
// RETURN, ELSE, THEN). ID 0 is the sentinel meaning "no reserved id";
// symbols beyond the reserved set must be compared by canon pointer.
type ID uint16

// Symbol is one canonical spelling (or case-variant family of spellings).
type Symbol struct {
	spelling string // The exact bytes this Symbol was interned from.
	id       ID     // 0 unless reserved at startup.

	canon *Symbol // Self for canonical case; else the case-folded canon.
	next  *Symbol // Circular chain of all known case-variants of one word.
}

// Spelling returns the exact bytes used to intern this symbol.
func (s *Symbol) Spelling() string { return s.spelling }

// ID returns the reserved id, or 0 if this symbol has none.
func (s *Symbol) ID() ID { return s.id }

// Canon returns the canonical case-variant of this symbol (itself, if it
// is already canonical — the first spelling of a given case-fold to have
// been interned).
func (s *Symbol) Canon() *Symbol { return s.canon }

// Next returns the next case-variant in this symbol's circular chain
// (possibly itself, if it has no known variants).
func (s *Symbol) Next() *Symbol { return s.next }

// AreSynonyms reports whether a and b are case-variants of the same word,
// by comparing their canon pointers.
func AreSynonyms(a, b *Symbol) bool {
	if a == b {
		return true
	}
	return a.canon == b.canon
}

// Table interns UTF-8 byte sequences into canonical *Symbol values.
type Table struct {
	exact  *swiss.Table[string, *Symbol] // Keyed on the literal spelling.
	canons map[string]*Symbol            // Keyed on the case-folded spelling.
	nextID ID
}

// New creates an empty symbol table. Use Reserve to hand out small
// integer ids to well-known spellings as they're interned.
func New() *Table {
	return &Table{
		exact:  swiss.New[string, *Symbol](hashString),
		canons: make(map[string]*Symbol),
	}
}

func hashString(s string) uint64 { return swiss.HashBytes([]byte(s)) }

// Intern returns the canonical *Symbol for spelling, creating one (and
// linking it into its case-variant chain) if this exact spelling has
// never been seen.
func (t *Table) Intern(spelling string) *Symbol {
	if sym, ok := t.exact.Get(spelling); ok {
		return sym
	}

	fold := strings.ToLower(spelling)
	sym := &Symbol{spelling: spelling}
	sym.next = sym

	if canon, ok := t.canons[fold]; ok {
		// Splice sym into canon's circular chain, right after canon.
		sym.canon = canon
		sym.next = canon.next
		canon.next = sym
	} else {
		sym.canon = sym
		t.canons[fold] = sym
	}

	t.exact.Set(spelling, sym)
	return sym
}

// Reserve assigns the next reserved small-integer id to sym, if sym does
// not already have one and the table's reservation ceiling has not been
// exhausted. Nothing in wisp's startup (InitRuntime, RegisterCoreNatives)
// calls it, so no symbol there gets a reserved id.
func (t *Table) Reserve(sym *Symbol, ceiling ID) bool {
	if sym.id != 0 || t.nextID >= ceiling {
		return false
	}
	t.nextID++
	sym.id = t.nextID
	return true
}

// Len returns the number of distinct exact spellings interned so far.
func (t *Table) Len() int { return t.exact.Len() }
