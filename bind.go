package wisp

import (
	"fmt"
	"iter"

	"github.com/wisp-lang/wisp/internal/scc"
	"github.com/wisp-lang/wisp/internal/symtab"
)

// BindingKind tags what a Specifier link actually is (§4.5, C5): a `use`
// block's private namespace, a `let`-introduced single binding, a patch
// applied over an existing context (used by module re-exports), a
// function's own varlist, or the unbound sentinel.
type BindingKind uint8

const (
	BindUnbound BindingKind = iota
	BindUse
	BindLet
	BindPatch
	BindVarlist
)

// Specifier is one link in the binding-resolution chain a bound word
// carries (§4.5: "Binding/Specifier chains (use/let/patch/varlist/
// unbound)"). Chains are singly-linked from most-specific to least: a
// word looks itself up against Context first, and falls through to
// Parent if not found there (except BindVarlist, which is authoritative
// and does not fall through — a function frame's own locals shadow
// everything outward).
type Specifier struct {
	Kind    BindingKind
	Context *Context // Valid for Use/Patch/Varlist.
	Let     *letBinding
	Parent  *Specifier
}

// letBinding is the single (symbol, cell) pair a `let` introduces,
// without the overhead of a full Context for what is usually one name.
type letBinding struct {
	sym *symtab.Symbol
	val Cell
}

// Unbound is the shared empty specifier chain: looking a word up against
// it always fails. Every freshly-scanned word starts out pointing here.
var Unbound = &Specifier{Kind: BindUnbound}

// NewUse creates a specifier introducing ctx's fields ahead of parent.
func NewUse(ctx *Context, parent *Specifier) *Specifier {
	return &Specifier{Kind: BindUse, Context: ctx, Parent: parent}
}

// NewLet creates a specifier introducing a single new binding ahead of
// parent, without allocating a full Context (§4.5's "let" case).
func NewLet(sym *symtab.Symbol, parent *Specifier) *Specifier {
	return &Specifier{Kind: BindLet, Let: &letBinding{sym: sym}, Parent: parent}
}

// NewVarlist creates the authoritative, non-falling-through specifier a
// function frame's own context uses.
func NewVarlist(ctx *Context) *Specifier {
	return &Specifier{Kind: BindVarlist, Context: ctx}
}

// NewPatch creates a specifier that overlays ctx's fields onto parent,
// used for a module re-exporting another module's words (§4.5).
func NewPatch(ctx *Context, parent *Specifier) *Specifier {
	return &Specifier{Kind: BindPatch, Context: ctx, Parent: parent}
}

// Resolve walks the chain looking for sym, returning the cell it resolves
// to and true, or (nil, false) if sym is unbound anywhere in the chain.
//
// A BindVarlist link is authoritative: if sym is not one of its fields,
// resolution fails outright rather than falling through to Parent, since
// a function's own frame is never "shadowed" by an outer scope for names
// it could have declared but didn't (§4.5).
func (s *Specifier) Resolve(sym *symtab.Symbol) (*Cell, bool) {
	for cur := s; cur != nil && cur.Kind != BindUnbound; cur = cur.Parent {
		switch cur.Kind {
		case BindLet:
			if symtab.AreSynonyms(cur.Let.sym, sym) {
				return &cur.Let.val, true
			}
		case BindUse, BindPatch:
			if i := cur.Context.Lookup(sym); i >= 0 {
				return cur.Context.Value(i), true
			}
		case BindVarlist:
			if i := cur.Context.Lookup(sym); i >= 0 {
				return cur.Context.Value(i), true
			}
			return nil, false
		}
	}
	return nil, false
}

// BindWord binds c (a word-class cell) to specifier s.
// This is the binder's one mutation entry point; everything else in this
// file only reads a chain.
func BindWord(c *Cell, s *Specifier) {
	switch c.heart {
	case HeartWord, HeartSetWord, HeartGetWord, HeartMetaWord, HeartTheWord, HeartTypeWord:
	default:
		panic(fmt.Sprintf("wisp: BindWord on a %s cell", c.heart))
	}
	c.second.obj = s
}

// BoundTo returns the Specifier a word-class cell currently carries
// (Unbound if it was never given one).
func (c *Cell) BoundTo() *Specifier {
	if s, ok := c.second.obj.(*Specifier); ok && s != nil {
		return s
	}
	return Unbound
}

// CheckCircularImports reports an error if the module import graph
// rooted at modules contains a cycle (§4.5's design note: `use` chains
// that loop back on themselves must be rejected at bind time, not
// discovered later as infinite resolution).
//
// importsOf must return, for a given module Context, every Context it
// directly `use`s. The graph is walked once per root in modules; wisp's
// module counts are small enough (a handful at a time) that this is
// simpler than synthesizing one virtual root node.
func CheckCircularImports(modules []*Context, importsOf func(*Context) []*Context) error {
	graph := scc.Graph[*Context](func(ctx *Context) iter.Seq[*Context] {
		return func(yield func(*Context) bool) {
			for _, imp := range importsOf(ctx) {
				if !yield(imp) {
					return
				}
			}
		}
	})

	for _, m := range modules {
		if scc.Sort(m, graph).HasCycle() {
			return fmt.Errorf("wisp: circular module import detected starting from a module using %d field(s)", m.Len())
		}
	}
	return nil
}
