package wisp

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wisp-lang/wisp/internal/symtab"
	"github.com/wisp-lang/wisp/internal/task"
)

// Do evaluates one full expression from feed (which may itself be an
// action call spanning several of feed's elements, per word lookahead)
// and returns its result. It is the entry point described in §4.8: a
// single trampoline loop that keeps stepping frames — including any
// nested frames a Dispatcher asks for via BounceContinue/BounceDelegate —
// until the original frame finishes.
func Do(feed *Feed) (Cell, error) {
	f := &Frame{Feed: feed, CallID: uuid.NewString()}
	prev := task.Set(f)
	defer task.Set(prev)
	out, err := run(f)
	return out, err
}

// DoAll evaluates every top-level expression remaining in feed in order,
// discarding all but the last result — the usual REBOL-family semantics
// for running a block's body to completion (a function body, an IF/EITHER
// branch, a CATCH body, or a top-level script), as opposed to Do's "one
// expression" contract.
func DoAll(feed *Feed) (Cell, error) {
	var out Cell
	InitNone(&out)
	for !feed.AtEnd() {
		v, err := Do(feed)
		if err != nil {
			return Cell{}, err
		}
		out = v
		feed.maybeCollect()
	}
	return out, nil
}

// run drives the trampoline for f to completion, handling BounceContinue
// by fully running the nested frame first, and BounceDelegate by
// replacing f's own continuation with it (a tail call: the delegating
// frame's Go stack slot is not needed again). A thrown value propagates
// immediately as an error (ThrownError), to be un-wrapped by an
// enclosing CATCH/function RETURN (§4.9).
func run(f *Frame) (Cell, error) {
	cur := f
	for {
		b := step(cur)
		switch b.Kind {
		case BounceValue:
			return b.Out, nil
		case BounceNull:
			var none Cell
			InitNone(&none)
			return none, nil
		case BounceThrown:
			return Cell{}, &ThrownError{Value: b.Thrown}
		case BounceContinue:
			v, err := run(b.Continuation)
			if err != nil {
				return Cell{}, err
			}
			if cur.Action == nil {
				return v, nil
			}
			cur.Out = v
			continue
		case BounceDelegate:
			cur = b.Continuation
			continue
		case BounceRedoUnchecked, BounceRedoChecked:
			cur = b.Continuation
			continue
		case BounceSuspend:
			return Cell{}, fmt.Errorf("wisp: evaluation suspended (no host loop attached)")
		default:
			return Cell{}, fmt.Errorf("wisp: unhandled bounce kind %d", b.Kind)
		}
	}
}

// ThrownError wraps an in-flight ThrowValue as a Go error, so that
// ordinary Go error-handling (including errors.As) can distinguish "the
// evaluator threw" from "the evaluator failed" (errors.go's EvalError).
type ThrownError struct {
	Value *ThrowValue
}

func (e *ThrownError) Error() string {
	return fmt.Sprintf("wisp: uncaught throw (label=%v)", e.Value.Label)
}

// step performs exactly one evaluator step on f and returns the Bounce
// that resulted (§4.7: "trampolined executor... bounce-based continuation
// protocol"). This is the function Do's trampoline calls in a loop. It
// does not call itself, but run handles a BounceContinue by calling itself
// for the nested frame, so every nested evaluation (an argument, a
// function body, a REDO issued from inside a body) still adds Go stack
// depth.
func step(f *Frame) Bounce {
	if f.Action == nil {
		return evalOne(f)
	}
	return stepAction(f)
}

// evalOne evaluates the next single element of f.Feed (§4.8's overall
// shape, applied to a plain non-call frame): literals self-evaluate,
// words resolve through their binding, set-words assign, get-words fetch
// without invoking, and a word bound to an action! triggers a nested
// action-call frame, with one-step lookahead for enfix actions.
func evalOne(f *Frame) Bounce {
	c := f.Feed.Take()
	if c == nil {
		return NullBounce()
	}

	switch c.Heart() {
	case HeartWord:
		val, ok := wordSpecifier(c, f).Resolve(c.Symbol())
		if !ok {
			return ThrowBounce(&ThrowValue{Value: errorCell(ErrNoValue, c.Symbol().Spelling())})
		}
		if val.Heart() == HeartAction {
			return beginActionCall(val.AsAction(), c, f)
		}
		return maybeEnfix(*val, f)

	case HeartGetWord:
		val, ok := wordSpecifier(c, f).Resolve(c.Symbol())
		if !ok {
			return ThrowBounce(&ThrowValue{Value: errorCell(ErrNoValue, c.Symbol().Spelling())})
		}
		return OutBounce(*val)

	case HeartSetWord:
		v := evalOneValue(f)
		spec := wordSpecifier(c, f)
		slotPtr, ok := spec.Resolve(c.Symbol())
		if !ok {
			slotPtr, ok = declareWord(spec, c.Symbol())
			if !ok {
				return ThrowBounce(&ThrowValue{Value: errorCell(ErrNoValue, c.Symbol().Spelling())})
			}
		}
		Copy(slotPtr, &v)
		return OutBounce(v)

	case HeartGroup:
		sub := NewFeed(c.Series(), wordSpecifier(c, f))
		v, err := DoAll(sub)
		if err != nil {
			if te, ok := err.(*ThrownError); ok {
				return ThrowBounce(te.Value)
			}
			return ThrowBounce(&ThrowValue{Value: errorFromGo(err)})
		}
		return maybeEnfix(v, f)

	default:
		// Self-evaluating literal: block, integer, string, etc.
		return maybeEnfix(*c, f)
	}
}

// evalOneValue evaluates exactly one expression starting at f.Feed's
// current position (used by SET-WORD and similar "evaluate the next
// expression" contexts), sharing f's feed rather than starting a new one,
// so that e.g. `x: 1 + 2` consumes `1 + 2` as a single enfix expression.
func evalOneValue(f *Frame) Cell {
	sub := &Frame{Feed: f.Feed, Parent: f}
	v, err := run(sub)
	if err != nil {
		panic(err) // Propagated by the caller's own Bounce machinery instead, normally; see evalOne's callers.
	}
	return v
}

// declareWord adds sym as a new field of the nearest context-bearing link
// in s (its own Context for Use/Patch/Varlist; Let and Unbound links are
// skipped), the way a console or top-level script implicitly creates a
// global on first assignment to a word nothing has declared yet.
func declareWord(s *Specifier, sym *symtab.Symbol) (*Cell, bool) {
	for cur := s; cur != nil && cur.Kind != BindUnbound; cur = cur.Parent {
		if cur.Context != nil {
			i := cur.Context.AddField(sym)
			return cur.Context.Value(i), true
		}
	}
	return nil, false
}

// wordSpecifier returns the chain a word-class cell resolves against, or
// that a block/group cell's contents are evaluated in: the cell's own
// binding if BindWord has set one (scan.go leaves freshly-scanned words
// Unbound, and block/group cells are never bound), falling back to the
// feed it is currently being read from. This is how a function body's
// words pick up the frame's varlist specifier at call time (natives.go's
// FUNC) without a separate deep-bind walk over the body block rewriting
// every contained word cell, the way a full implementation would do once
// at definition time (§4.5).
func wordSpecifier(c *Cell, f *Frame) *Specifier {
	if s := c.BoundTo(); s != Unbound {
		return s
	}
	return f.Feed.Spec
}

// maybeEnfix implements the one-step lookahead §4.8 describes: after
// producing a value, peek at the next feed element; if it is a word bound
// to an infix/enfix action, fold this value in as that action's left
// argument instead of returning immediately.
func maybeEnfix(left Cell, f *Frame) Bounce {
	next := f.Feed.Peek()
	if next == nil || next.Heart() != HeartWord {
		return OutBounce(left)
	}
	val, ok := wordSpecifier(next, f).Resolve(next.Symbol())
	if !ok || val.Heart() != HeartAction {
		return OutBounce(left)
	}
	act := val.AsAction()
	if !act.enfix {
		return OutBounce(left)
	}
	f.Feed.Take() // Consume the operator word now that we've committed.
	cf := beginActionCallWithLeft(act, next, f, left)
	return ContinueWith(cf)
}

// beginActionCall starts a new call frame for act, invoked through label
// (used for diagnostics), under caller. The call frame shares caller's
// feed directly — fulfilling act's arguments consumes elements from the
// same cursor the caller is reading from, which is what lets a later
// sibling expression in the same block see the cursor already advanced
// past this call's arguments.
func beginActionCall(act *Action, label *Cell, caller *Frame) Bounce {
	cf := NewActionFrame(act, caller.Feed, caller)
	cf.Label = label
	advanceFulfillment(cf)
	return ContinueWith(cf)
}

// beginActionCallWithLeft is beginActionCall's enfix counterpart: act's
// first parameter slot (params[0], whatever its class) is pre-filled with
// left instead of being fulfilled from the feed. An enfix action with no
// parameters has nowhere to put left, and panics as an arity error.
func beginActionCallWithLeft(act *Action, label *Cell, caller *Frame, left Cell) *Frame {
	if len(act.params) == 0 {
		panic(fmt.Sprintf("wisp: enfix %v takes no arguments", act.Name()))
	}
	cf := NewActionFrame(act, caller.Feed, caller)
	cf.Label = label
	if len(act.params) > 0 {
		cf.Args[0] = left
		cf.argCursor = 1
	}
	advanceFulfillment(cf)
	return cf
}

// advanceFulfillment drives a call frame through FULFILLING_ARGS ->
// DOING_PICKUPS -> TYPECHECKING -> DISPATCH (§4.8), consuming elements
// from cf.Feed as normal/hard/soft/medium-class parameters demand.
// Refinement parameters are skipped and only recorded for the pickup pass;
// nothing supplies them (evalOne does not dispatch PATH! calls such as
// `append/dup/only s v 3`), so a refinement slot keeps the none value
// NewActionFrame zeroed it to.
func advanceFulfillment(cf *Frame) {
	cf.state = stateFulfillingArgs
	params := cf.Action.params

	for ; cf.argCursor < len(params); cf.argCursor++ {
		p := params[cf.argCursor]
		if p.Class == ParamRefinement {
			// Refinements are not taken from the feed, and evalOne has no
			// PATH! dispatch to supply them, so the slot stays none.
			cf.pickups = append(cf.pickups, cf.argCursor)
			continue
		}
		fulfillOne(cf, &cf.Args[cf.argCursor], p)
	}

	cf.state = stateDoingPickups
	for _, idx := range cf.pickups {
		p := params[idx]
		if cf.Args[idx].Fresh() {
			InitLogic(&cf.Args[idx], false)
		}
		_ = p
	}

	cf.state = stateTypechecking
	for i, p := range params {
		if p.Types == nil || cf.Args[i].Fresh() {
			continue
		}
		if !typeAllowed(cf.Args[i].Heart(), p.Types) {
			panic(fmt.Sprintf("wisp: argument %d to %v fails typecheck", i, cf.Action.Name()))
		}
	}

	cf.state = stateDispatch
}

// fulfillOne fulfills a single non-refinement parameter according to its
// ParamClass (§4.8): NORMAL evaluates one expression; HARD takes the next
// cell unevaluated; SOFT takes it unevaluated unless it's a GET-WORD, in
// which case it evaluates; MEDIUM behaves like HARD except for GROUP!,
// which it evaluates; META evaluates like NORMAL and marks the result
// quasi (an evaluation failure still panics, as it does for NORMAL).
func fulfillOne(cf *Frame, dst *Cell, p Param) {
	switch p.Class {
	case ParamHard:
		c := cf.Feed.Take()
		if c == nil {
			panic("wisp: missing hard-quoted argument")
		}
		*dst = *c
		dst.markUnevaluated(true)

	case ParamSoft:
		// A full get-group sigil (":(...)") would also escape here; wisp's
		// scanner does not yet distinguish one from a plain GROUP!, so only
		// GET-WORD escapes for now (see scan.go's word-sigil table).
		c := cf.Feed.Peek()
		if c != nil && c.Heart() == HeartGetWord {
			*dst = evalOneValue(&Frame{Feed: cf.Feed, Parent: cf})
		} else if c != nil {
			cf.Feed.Take()
			*dst = *c
			dst.markUnevaluated(true)
		} else {
			panic("wisp: missing soft-quoted argument")
		}

	case ParamMedium:
		c := cf.Feed.Peek()
		if c != nil && c.Heart() == HeartGroup {
			*dst = evalOneValue(&Frame{Feed: cf.Feed, Parent: cf})
		} else if c != nil {
			cf.Feed.Take()
			*dst = *c
			dst.markUnevaluated(true)
		} else {
			panic("wisp: missing medium-quoted argument")
		}

	case ParamMeta:
		v := evalOneValue(&Frame{Feed: cf.Feed, Parent: cf})
		v.markQuasi()
		*dst = v

	default: // ParamNormal
		*dst = evalOneValue(&Frame{Feed: cf.Feed, Parent: cf})
	}
}

func typeAllowed(h Heart, allowed []Heart) bool {
	for _, a := range allowed {
		if a == h {
			return true
		}
	}
	return false
}

// stepAction runs one dispatch step for an action-call frame once
// fulfillment has finished (cf.state == stateDispatch): it calls the
// Action's Dispatcher, which returns its own Bounce (possibly another
// BounceContinue/BounceDelegate/BounceRedo* to keep the trampoline going).
func stepAction(f *Frame) Bounce {
	if f.state != stateDispatch {
		panic(fmt.Sprintf("wisp: stepAction called before dispatch (state=%d)", f.state))
	}
	if f.Action.dispatch == nil {
		panic("wisp: action has no dispatcher")
	}
	return f.Action.dispatch(f)
}
