package wisp

import (
	"fmt"

	"github.com/wisp-lang/wisp/internal/symtab"
)

// ContextKind distinguishes the several things built on the varlist/
// keylist pair (§4.4, C4): a plain object, a module (an object with an
// associated symbol namespace), a function's local frame, an error
// object, or a port.
type ContextKind uint8

const (
	ContextObject ContextKind = iota
	ContextModule
	ContextFrame
	ContextError
	ContextPort
)

// Context is the varlist+keylist pair spec.md §4.4 describes: a keylist of
// (symbol, parameter-class) entries shared structurally across instances
// (e.g. every frame of one action shares its paramlist-derived keylist),
// and a varlist of cells holding this particular instance's values,
// slot-aligned with the keylist.
type Context struct {
	kind    ContextKind
	keylist *Series // Flavor FlavorKeylist; its entries live in keylistRegistry (see keyEntry).
	varlist *Series // Flavor FlavorVarlist; cells are the instance's values.
}

// keyEntry is one keylist entry: the field's symbol in sym, and a
// bit for whether the slot is currently hidden (used for module-private
// or error-internal fields).
type keyEntry struct {
	sym    *symtab.Symbol
	hidden bool
}

// keylistData is a typed view over a keylist series, stored out-of-
// band from Cell since keyEntry is not itself a value type the evaluator
// ever needs to see as a first-class cell.
//
// This mirrors the teacher's convention of a companion slice kept next to
// the series for struct-of-arrays metadata (see its internal/tdp P1/P2
// split) rather than shoehorning every piece of bookkeeping into Cell.
type keylistData struct {
	entries []keyEntry
}

// keylistRegistry maps a *Series (the keylist node) to its keyEntry data.
// A context's keylist and varlist are both *Series so that they can be
// linked via Series.SetLink/Link like any other series pair, and traced
// by the collector the same way; the entries themselves live here rather
// than as Cells, since they are never evaluated as values.
var keylistRegistry = map[*Series]*keylistData{}

// NewContext creates an empty context of the given kind, pre-sized for
// capHint fields. The keylist and varlist are freshly
// allocated and linked to each other (varlist.Link() is its keylist).
func NewContext(kind ContextKind, capHint int) *Context {
	keylist := newSeriesFlavor(FlavorKeylist, capHint)
	varlist := newSeriesFlavor(FlavorVarlist, capHint)
	varlist.SetLink(keylist)
	keylistRegistry[keylist] = &keylistData{entries: make([]keyEntry, 0, capHint)}
	return &Context{kind: kind, keylist: keylist, varlist: varlist}
}

// Kind returns the context's kind.
func (ctx *Context) Kind() ContextKind { return ctx.kind }

// Len returns the number of fields.
func (ctx *Context) Len() int { return ctx.varlist.Len() }

func (ctx *Context) keyData() *keylistData {
	kd, ok := keylistRegistry[ctx.keylist]
	if !ok {
		panic("wisp: context keylist has no registered key data")
	}
	return kd
}

// AddField appends a new field named sym, with value initialized to none,
// and returns its index. Adding a field to a keylist shared by multiple
// varlists (e.g. an action's paramlist-derived frames) is only valid
// before the keylist is shared; NewContext's keylist starts unshared.
func (ctx *Context) AddField(sym *symtab.Symbol) int {
	ctx.varlist.requireWritable("AddField")
	kd := ctx.keyData()
	kd.entries = append(kd.entries, keyEntry{sym: sym})
	var blank Cell
	InitNone(&blank)
	ctx.varlist.Append(blank)
	return len(kd.entries) - 1
}

// Lookup finds the slot index for sym, or -1 if ctx has no such field.
// Lookup is a linear scan of the keylist for every context; no indexed
// lookup is built.
func (ctx *Context) Lookup(sym *symtab.Symbol) int {
	kd := ctx.keyData()
	for i, e := range kd.entries {
		if symtab.AreSynonyms(e.sym, sym) {
			return i
		}
	}
	return -1
}

// KeySymbol returns the field name at index i.
func (ctx *Context) KeySymbol(i int) *symtab.Symbol {
	kd := ctx.keyData()
	if i < 0 || i >= len(kd.entries) {
		panic(fmt.Sprintf("wisp: context key index %d out of range", i))
	}
	return kd.entries[i].sym
}

// Hidden/SetHidden implement module-private and error-internal fields.
func (ctx *Context) Hidden(i int) bool {
	kd := ctx.keyData()
	return kd.entries[i].hidden
}

func (ctx *Context) SetHidden(i int, v bool) {
	kd := ctx.keyData()
	kd.entries[i].hidden = v
}

// Value returns a pointer to the i'th field's value cell.
func (ctx *Context) Value(i int) *Cell { return ctx.varlist.At(i) }

// Varlist and Keylist expose the underlying series, primarily for
// binding (bind.go) and the garbage collector's tracing.
func (ctx *Context) Varlist() *Series { return ctx.varlist }
func (ctx *Context) Keylist() *Series { return ctx.keylist }

// InitContext writes a context cell of the given ContextKind-tagged
// heart. All contexts share HeartContext; Kind() distinguishes them (the
// same closed-sum-type discipline cell.go's Heart enum uses elsewhere).
func InitContext(c *Cell, ctx *Context) *Cell {
	*c = Cell{heart: HeartContext, first: slot{node: ctx.varlist}, extra: int64(ctx.kind)}
	return c
}

// AsContext recovers the *Context a context cell was built from, by
// reading its linked keylist back out of keylistRegistry.
func (c *Cell) AsContext() *Context {
	c.requireHeart(HeartContext, "AsContext")
	varlist := c.first.node
	keylist := varlist.Link()
	if keylist == nil {
		panic("wisp: context cell's varlist has no linked keylist")
	}
	return &Context{kind: ContextKind(c.extra), keylist: keylist, varlist: varlist}
}
