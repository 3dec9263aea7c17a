package wisp

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// This file provides the small, illustrative set of natives SPEC_FULL.md's
// §8 test scenarios exercise (enfix arithmetic, CATCH/THROW, IF/EITHER,
// and a user-defined FUNC with tail-call REDO). spec.md's Non-goals
// explicitly exclude "the concrete set of natives beyond those
// illustrated" — RegisterCoreNatives is that illustration, not a standard
// library.

// RegisterCoreNatives interns and binds the natives below into ctx, the
// root context a top-level Specifier chain is built from.
func RegisterCoreNatives(ctx *Context) {
	InitRuntime()
	def := func(name string, a *Action) {
		sym := Symbols().Intern(name)
		i := ctx.AddField(sym)
		InitAction(ctx.Value(i), a)
	}

	plus := NewNative(Symbols().Intern("add"), []Param{{Sym: Symbols().Intern("a")}, {Sym: Symbols().Intern("b")}}, arithDispatch(func(a, b int64) int64 { return a + b }))
	plus.MarkEnfix(true)
	def("+", plus)

	minus := NewNative(Symbols().Intern("subtract"), []Param{{Sym: Symbols().Intern("a")}, {Sym: Symbols().Intern("b")}}, arithDispatch(func(a, b int64) int64 { return a - b }))
	minus.MarkEnfix(true)
	def("-", minus)

	times := NewNative(Symbols().Intern("multiply"), []Param{{Sym: Symbols().Intern("a")}, {Sym: Symbols().Intern("b")}}, arithDispatch(func(a, b int64) int64 { return a * b }))
	times.MarkEnfix(true)
	def("*", times)

	eq := NewNative(Symbols().Intern("equalq"), []Param{{Sym: Symbols().Intern("a")}, {Sym: Symbols().Intern("b")}}, equalDispatch)
	eq.MarkEnfix(true)
	def("=", eq)

	def("catch", NewNative(Symbols().Intern("catch"), []Param{{Sym: Symbols().Intern("body"), Class: ParamHard}}, catchDispatch))
	def("throw", NewNative(Symbols().Intern("throw"), []Param{{Sym: Symbols().Intern("value")}}, throwDispatch))

	def("either", NewNative(Symbols().Intern("either"), []Param{
		{Sym: Symbols().Intern("cond")},
		{Sym: Symbols().Intern("true-branch"), Class: ParamHard},
		{Sym: Symbols().Intern("false-branch"), Class: ParamHard},
	}, eitherDispatch))

	def("if", NewNative(Symbols().Intern("if"), []Param{
		{Sym: Symbols().Intern("cond")},
		{Sym: Symbols().Intern("branch"), Class: ParamHard},
	}, ifDispatch))

	def("func", NewNative(Symbols().Intern("func"), []Param{
		{Sym: Symbols().Intern("spec"), Class: ParamHard},
		{Sym: Symbols().Intern("body"), Class: ParamHard},
	}, funcDispatch))

	def("redo", NewNative(Symbols().Intern("redo"), []Param{
		{Sym: Symbols().Intern("target")},
		{Sym: Symbols().Intern("args")},
	}, redoDispatch))

	def("call", NewNative(Symbols().Intern("call"), []Param{
		{Sym: Symbols().Intern("argv"), Types: []Heart{HeartBlock}},
	}, callDispatch))

	def("to-local", NewNative(Symbols().Intern("to-local"), []Param{
		{Sym: Symbols().Intern("path"), Types: []Heart{HeartFile, HeartString}},
		{Sym: Symbols().Intern("full"), Types: []Heart{HeartLogic}},
		{Sym: Symbols().Intern("no-tail-slash"), Types: []Heart{HeartLogic}},
	}, toLocalDispatch))

	def("to-rebol", NewNative(Symbols().Intern("to-rebol"), []Param{
		{Sym: Symbols().Intern("path"), Types: []Heart{HeartFile, HeartString}},
		{Sym: Symbols().Intern("is-dir"), Types: []Heart{HeartLogic}},
	}, toRebolDispatch))
}

// toLocalDispatch wraps ToLocal (path.go) as the `to-local` native
// (§6.3): the boundary conversion from a REBOL-form FILE!/STRING! path to
// a local OS path STRING!, following the host's actual platform for the
// drive-letter/separator convention rather than taking it as an argument.
func toLocalDispatch(f *Frame) Bounce {
	local, err := ToLocal(string(f.Args[0].Series().Bytes()), ToLocalFlags{
		Full:        f.Args[1].AsLogic(),
		NoTailSlash: f.Args[2].AsLogic(),
		Windows:     runtime.GOOS == "windows",
	})
	if err != nil {
		return ThrowBounce(&ThrowValue{Value: errorFromGo(err)})
	}
	var out Cell
	s := NewStringSeries(len(local))
	s.AppendBytes([]byte(local))
	InitString(&out, s)
	return OutBounce(out)
}

// toRebolDispatch wraps ToRebol (path.go) as the `to-rebol` native
// (§6.3): the reverse conversion, producing a FILE!.
func toRebolDispatch(f *Frame) Bounce {
	rebol := ToRebol(string(f.Args[0].Series().Bytes()), f.Args[1].AsLogic())
	var out Cell
	s := NewStringSeries(len(rebol))
	s.AppendBytes([]byte(rebol))
	InitFile(&out, s)
	return OutBounce(out)
}

// callDispatch shells out to an external process, the one host-facing
// escape hatch a core language needs even before any I/O-port subsystem
// exists (spec.md's host-I/O-port non-goal covers the general port
// model, not this single native). Each STRING!/FILE! element of argv is
// quoted with shellescape before being joined into a command line, the
// same defense the teacher's own process-launching tools never needed
// (they invoke `go test` with a fixed, trusted argv) but a
// user-programmable language does.
func callDispatch(f *Frame) Bounce {
	argvBlock := &f.Args[0]
	s := argvBlock.Series()
	if s.Len() == 0 {
		panic("wisp: call requires at least one argument")
	}

	argv := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		c := s.At(i)
		switch c.Heart() {
		case HeartString, HeartFile:
			argv[i] = string(c.Series().Bytes())
		case HeartInteger:
			argv[i] = fmt.Sprintf("%d", c.AsInteger())
		default:
			argv[i] = Mold(c, MoldOptions{Form: true})
		}
	}

	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellescape.Quote(a)
	}
	line := strings.Join(quoted, " ")

	out, err := exec.Command("/bin/sh", "-c", line).CombinedOutput()
	var result Cell
	s2 := NewStringSeries(len(out))
	s2.AppendBytes(out)
	InitString(&result, s2)
	if err != nil {
		return ThrowBounce(&ThrowValue{Value: errorFromGo(fmt.Errorf("call %q: %w", line, err))})
	}
	return OutBounce(result)
}

func arithDispatch(op func(a, b int64) int64) Dispatcher {
	return func(f *Frame) Bounce {
		a, b := f.Args[0].AsInteger(), f.Args[1].AsInteger()
		var out Cell
		InitInteger(&out, op(a, b))
		return OutBounce(out)
	}
}

func equalDispatch(f *Frame) Bounce {
	a, b := &f.Args[0], &f.Args[1]
	var out Cell
	InitLogic(&out, cellsEqual(a, b))
	return OutBounce(out)
}

func cellsEqual(a, b *Cell) bool {
	if a.Heart() != b.Heart() {
		return false
	}
	switch a.Heart() {
	case HeartInteger:
		return a.AsInteger() == b.AsInteger()
	case HeartDecimal:
		return a.AsDecimal() == b.AsDecimal()
	case HeartLogic:
		return a.AsLogic() == b.AsLogic()
	default:
		return Mold(a, MoldOptions{}) == Mold(b, MoldOptions{})
	}
}

// catchDispatch evaluates body (a block, hard-quoted so it isn't run
// before CATCH gets to wrap it); an unnamed throw escaping from it is
// caught and its value returned, per §8 scenario 2.
func catchDispatch(f *Frame) Bounce {
	body := &f.Args[0]
	if body.Heart() != HeartBlock {
		panic("wisp: catch expects a block!")
	}
	sub := NewFeed(body.Series(), wordSpecifier(body, f))
	out, err := DoAll(sub)
	if err != nil {
		if te, ok := err.(*ThrownError); ok && CatchMatches(te.Value, nil) {
			return OutBounce(te.Value.Value)
		}
		return ThrowBounce(&ThrowValue{Value: errorFromGo(err)})
	}
	return OutBounce(out)
}

func throwDispatch(f *Frame) Bounce {
	return Throw(nil, f.Args[0])
}

func eitherDispatch(f *Frame) Bounce {
	branch := &f.Args[1]
	if truthy(&f.Args[0]) {
		branch = &f.Args[1]
	} else {
		branch = &f.Args[2]
	}
	return runBranch(branch, f)
}

func ifDispatch(f *Frame) Bounce {
	if !truthy(&f.Args[0]) {
		return NullBounce()
	}
	return runBranch(&f.Args[1], f)
}

func runBranch(branch *Cell, f *Frame) Bounce {
	if branch.Heart() != HeartBlock {
		panic("wisp: expected a block! body")
	}
	sub := NewFeed(branch.Series(), wordSpecifier(branch, f))
	out, err := DoAll(sub)
	if err != nil {
		if te, ok := err.(*ThrownError); ok {
			return ThrowBounce(te.Value)
		}
		return ThrowBounce(&ThrowValue{Value: errorFromGo(err)})
	}
	return OutBounce(out)
}

func truthy(c *Cell) bool {
	if c.Heart() == HeartNone {
		return false
	}
	if c.Heart() == HeartLogic {
		return c.AsLogic()
	}
	return true
}

// funcDispatch implements FUNC: spec is a block of parameter words, body
// is the block to run. The resulting action's Dispatcher binds a fresh
// frame varlist over body and evaluates it; a throw labeled with
// ReturnLabel(act) that escapes the body becomes the call's result. That
// label is the action itself, so every invocation of the same function
// shares it. REDO (§4.9/§8 scenario 3) re-enters this same dispatcher with
// a freshly fulfilled argument set via redoDispatch below.
func funcDispatch(f *Frame) Bounce {
	specBlock, body := &f.Args[0], &f.Args[1]
	if specBlock.Heart() != HeartBlock || body.Heart() != HeartBlock {
		panic("wisp: func expects two block! arguments")
	}

	var params []Param
	s := specBlock.Series()
	for i := 0; i < s.Len(); i++ {
		w := s.At(i)
		if w.Heart() != HeartWord {
			continue
		}
		params = append(params, Param{Sym: w.Symbol()})
	}

	bodySeries := body.Series()
	bodySpec := wordSpecifier(body, f)

	var act *Action
	act = NewNative(nil, params, func(cf *Frame) Bounce {
		return runFuncBody(act, params, bodySeries, bodySpec, cf)
	})

	var out Cell
	InitAction(&out, act)
	return OutBounce(out)
}

// runFuncBody is funcDispatch's dispatcher body, split out so funcDispatch
// can close over act after it is allocated (Go requires the Action's own
// pointer for REDO's return-label identity, so the dispatcher closure and
// the Action it belongs to are mutually referential).
func runFuncBody(act *Action, params []Param, bodySeries *Series, bodySpec *Specifier, cf *Frame) Bounce {
	ctx := NewContext(ContextFrame, len(params))
	for i, p := range params {
		ctx.AddField(p.Sym)
		Copy(ctx.Value(i), &cf.Args[i])
	}
	// Use, not Varlist: a bare call frame's own parameters shadow outer
	// names, but the body's other free words (natives, the function's own
	// name for recursion) still need to fall through to the scope the
	// function closed over, since this simplified binder shares one
	// Specifier across every word in the body rather than individually
	// rebinding each word cell at FUNC-definition time (see wordSpecifier
	// in eval.go).
	spec := NewUse(ctx, bodySpec)

	sub := NewFeed(bodySeries, spec)
	out, err := DoAll(sub)
	if err != nil {
		if te, ok := err.(*ThrownError); ok && CatchMatches(te.Value, ReturnLabel(act)) {
			return OutBounce(te.Value.Value)
		}
		if te, ok := err.(*ThrownError); ok {
			return ThrowBounce(te.Value)
		}
		return ThrowBounce(&ThrowValue{Value: errorFromGo(err)})
	}
	return OutBounce(out)
}

// redoDispatch implements a simplified REDO: target must be an action!
// built by FUNC, args a block! of already-evaluated replacement argument
// values. It re-enters target's dispatch via BounceRedoUnchecked rather
// than a fresh top-level call, so the frame performing the redo is reused
// in place instead of stacking a new call frame alongside it; the
// recursive call still nests inside whatever Go-level Do/run chain is
// evaluating the body that issued the redo (run, in eval.go, recurses on
// BounceContinue rather than iterating), so this does not fully flatten Go
// stack growth across iterations the way a truly tail-call-eliminating
// trampoline would.
func redoDispatch(f *Frame) Bounce {
	target := &f.Args[0]
	argsBlock := &f.Args[1]
	if target.Heart() != HeartAction || argsBlock.Heart() != HeartBlock {
		panic("wisp: redo expects (action!, block!)")
	}
	act := target.AsAction()
	s := argsBlock.Series()
	if s.Len() != len(act.params) {
		panic(fmt.Sprintf("wisp: redo argument count mismatch: got %d, want %d", s.Len(), len(act.params)))
	}

	nf := NewActionFrame(act, f.Feed, f.Parent)
	for i := 0; i < s.Len(); i++ {
		Copy(&nf.Args[i], s.At(i))
	}
	nf.state = stateDispatch
	return Redo(nf, false)
}
