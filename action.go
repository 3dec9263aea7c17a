package wisp

import (
	"fmt"

	"github.com/wisp-lang/wisp/internal/symtab"
)

// ParamClass is how an action's parameter is fulfilled (§4.8, C8): the
// normal case evaluates the argument expression; HARD and SOFT quote it
// (SOFT only escapes via a get-word); MEDIUM quotes everything except
// group expressions; META evaluates the argument and marks the result
// quasi (an evaluation failure still raises).
type ParamClass uint8

const (
	ParamNormal ParamClass = iota
	ParamHard
	ParamSoft
	ParamMedium
	ParamMeta
	ParamReturn    // The special implicit RETURN parameter of a function body.
	ParamRefinement
)

// Param describes one paramlist entry.
type Param struct {
	Sym   *symtab.Symbol
	Class ParamClass
	// Types, if non-nil, restricts which Kind.Heart values are accepted;
	// nil means "any non-isotope value", per §4.8's typechecking step.
	Types []Heart
}

// Dispatcher is what an action actually does once its frame's arguments
// are fulfilled (§6.1): native Go code, a user function body, or a
// specialization/adapter wrapping another action. It returns a Bounce the
// same way step does (eval.go), since dispatch can itself need
// another trampoline turn (a tail call via REDO, a throw, a nested eval).
type Dispatcher func(f *Frame) Bounce

// Action is a paramlist (the shared parameter specification + frame
// shape) paired with a Dispatcher and, for partial application, a fixed
// prefix of pre-supplied argument cells (§4.4: "action (details+paramlist
// +partials)").
type Action struct {
	params    []Param
	dispatch  Dispatcher
	partials  []Cell // Non-nil only for a specialized/partial action.
	name      *symtab.Symbol
	paramlist *Series // FlavorParamlist; kept for reflection/HELP-style use.
	enfix     bool    // True for infix/enfix operators (§4.8's lookahead).
}

// MarkEnfix sets whether a behaves as an infix/enfix operator, folding
// its first argument in from the left via the evaluator's one-step
// lookahead (§4.8) instead of taking it from the following feed position.
func (a *Action) MarkEnfix(v bool) { a.enfix = v }

// Enfix reports a's enfix-ness.
func (a *Action) Enfix() bool { return a.enfix }

// NewNative creates an Action backed directly by Go code.
func NewNative(name *symtab.Symbol, params []Param, dispatch Dispatcher) *Action {
	a := &Action{name: name, params: params, dispatch: dispatch}
	a.paramlist = newSeriesFlavor(FlavorParamlist, len(params))
	for _, p := range params {
		var pc Cell
		InitWord(&pc, HeartWord, p.Sym)
		a.paramlist.Append(pc)
	}
	return a
}

// Specialize returns a new Action identical to a but with the parameters
// named by fixed pre-supplied, removed from the fulfillment list (§6.1
// mentions partials/specialization as a first-class action kind, not a
// wrapper macro).
func (a *Action) Specialize(fixed map[*symtab.Symbol]Cell) *Action {
	spec := &Action{dispatch: a.dispatch, name: a.name, paramlist: a.paramlist}
	spec.partials = append([]Cell(nil), a.partials...)
	for _, p := range a.params {
		if v, ok := fixed[p.Sym]; ok {
			spec.partials = append(spec.partials, v)
			continue
		}
		spec.params = append(spec.params, p)
	}
	return spec
}

// Params returns the (non-partial) parameters a caller must still supply.
func (a *Action) Params() []Param { return a.params }

// Name returns the action's registered name, or nil if it is anonymous.
func (a *Action) Name() *symtab.Symbol { return a.name }

// Arity returns the number of parameters a caller must supply (excluding
// refinements and any already-fixed partials).
func (a *Action) Arity() int {
	n := 0
	for _, p := range a.params {
		if p.Class != ParamRefinement {
			n++
		}
	}
	return n
}

// InitAction writes an action cell wrapping a. The *Action itself lives in
// the cell's object slot, so that a plain Copy (cell.go) carries it along
// correctly, the same way a block cell's Copy carries its *Series along.
func InitAction(c *Cell, a *Action) *Cell {
	*c = Cell{heart: HeartAction, first: slot{obj: a}}
	return c
}

// AsAction recovers the *Action an action cell wraps.
func (c *Cell) AsAction() *Action {
	c.requireHeart(HeartAction, "AsAction")
	return c.first.obj.(*Action)
}
