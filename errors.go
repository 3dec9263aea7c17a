package wisp

import (
	"fmt"

	"github.com/wisp-lang/wisp/internal/diag"
	"github.com/wisp-lang/wisp/internal/symtab"
	"github.com/wisp-lang/wisp/internal/task"
)

// ErrorCategory groups error ids the way REBOL-family errors traditionally
// do (§6.4/§7): a coarse namespace used for catch-by-category and for
// picking a default message template.
type ErrorCategory uint8

const (
	ErrCategorySyntax ErrorCategory = iota
	ErrCategoryScript
	ErrCategoryMath
	ErrCategoryAccess
	ErrCategoryUser
	ErrCategoryInternal
)

// ErrorID names a specific error within its category (§7's "category/id/
// args/where/near" taxonomy). Only a representative subset is enumerated;
// user code raises arbitrary ones via RaiseError.
type ErrorID uint16

const (
	ErrNoValue ErrorID = iota // A word has no bound value.
	ErrNotBound
	ErrBadArgType
	ErrIndexOutOfRange
	ErrProtectedSeries
	ErrZeroDivide
	ErrStackOverflow
	ErrCircularImport
	ErrUser // A user `raise`/`fail` with an arbitrary message.
)

var errorTemplates = map[ErrorID]string{
	ErrNoValue:          "%s has no value",
	ErrNotBound:         "%s is not bound",
	ErrBadArgType:       "invalid argument: %s",
	ErrIndexOutOfRange:  "out of range or past end: %s",
	ErrProtectedSeries:  "series is protected or locked: %s",
	ErrZeroDivide:       "attempt to divide by zero: %s",
	ErrStackOverflow:    "stack overflow: %s",
	ErrCircularImport:   "circular module import: %s",
	ErrUser:             "%s",
}

func categoryOf(id ErrorID) ErrorCategory {
	switch id {
	case ErrNoValue, ErrNotBound:
		return ErrCategoryScript
	case ErrZeroDivide:
		return ErrCategoryMath
	case ErrProtectedSeries, ErrIndexOutOfRange:
		return ErrCategoryAccess
	case ErrStackOverflow, ErrCircularImport:
		return ErrCategoryInternal
	case ErrUser:
		return ErrCategoryUser
	default:
		return ErrCategoryScript
	}
}

// Where describes the call-frame chain an error (or a throw) occurred in,
// rendered by internal/diag. Frames is ordered innermost-first. CallID
// correlates the chain back to the top-level Do call it happened during
// (internal/task), for diagnostics that cross a host API boundary where
// no *Frame is threaded explicitly.
type Where struct {
	Frames []WhereFrame
	CallID string
}

// WhereFrame names one frame in a Where chain.
type WhereFrame struct {
	Label string // The word/path the call was invoked through, if any.
}

// Near is a short window of unevaluated source around the point of
// failure, for diagnostics — the feed's source array and the index the
// failure occurred at.
type Near struct {
	Source *Series
	Index  int
}

// EvalError is the Go error type wrapping a wisp-level error object
// (§7): it is distinct from ThrownError (throw.go), which wraps an
// in-flight non-local exit rather than a terminal failure.
type EvalError struct {
	Category ErrorCategory
	ID       ErrorID
	Args     []string
	Where    Where
	Near     Near
}

// CaptureWhere walks f's Parent chain into a Where, innermost frame first,
// for attaching to an EvalError once a Dispatcher's Go-level error needs
// to be reported with full call context; the evaluator (run, in eval.go)
// does not call it itself. If f is nil, it falls back to
// internal/task's record of whatever frame is currently running on this
// goroutine, for callers (a panic handler, a host API entry point) that
// have no *Frame of their own to pass.
func CaptureWhere(f *Frame) Where {
	if f == nil {
		f, _ = task.Get().(*Frame)
	}

	var w Where
	for cur := f; cur != nil; cur = cur.Parent {
		label := ""
		if cur.Label != nil {
			label = Mold(cur.Label, MoldOptions{Form: true})
		}
		w.Frames = append(w.Frames, WhereFrame{Label: label})
		if cur.CallID != "" {
			w.CallID = cur.CallID
		}
	}
	return w
}

// Render formats e's message, where, and near into the multi-line form a
// REPL or test failure would print, using internal/diag's line-rendering.
func (e *EvalError) Render() string {
	diagFrames := make([]diag.WhereFrame, len(e.Where.Frames))
	for i, wf := range e.Where.Frames {
		diagFrames[i] = diag.WhereFrame{Label: wf.Label, Depth: i}
	}
	out := e.Error()
	if e.Where.CallID != "" {
		out = fmt.Sprintf("(call %s) ", e.Where.CallID) + out
	}
	out += "\n" + diag.RenderWhere(diagFrames)
	if e.Near.Source != nil {
		out += "\n" + renderNear(e.Near)
	}
	return out
}

func renderNear(n Near) string {
	tokens := make([]string, n.Source.Len())
	for i := range tokens {
		tokens[i] = Mold(n.Source.At(i), MoldOptions{})
	}
	return diag.RenderNear(tokens, n.Index, 3)
}

func (e *EvalError) Error() string {
	tmpl, ok := errorTemplates[e.ID]
	if !ok {
		tmpl = "error %d: %v"
		return fmt.Sprintf(tmpl, e.ID, e.Args)
	}
	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		args[i] = a
	}
	return fmt.Sprintf(tmpl, args...)
}

// RaiseError builds a Cell carrying an error! context (ContextError),
// molded the way other contexts are, but with well-known fields (id,
// category, message) so that a `try`/`catch` can inspect
// it structurally rather than by parsing Error().
func RaiseError(id ErrorID, args ...string) Cell {
	return *errorCell(id, args...)
}

// errorCell is the internal constructor evalOne and errorFromGo use to
// build the value a ThrowValue carries when evaluation fails partway
// through a step. The cell carries no Where/Near; nothing in run or the
// rest of the evaluator attaches them.
func errorCell(id ErrorID, args ...string) *Cell {
	ctx := NewContext(ContextError, 4)
	idSym := wellKnownSymbols.id
	catSym := wellKnownSymbols.category
	msgSym := wellKnownSymbols.message

	ctx.AddField(idSym)
	InitInteger(ctx.Value(0), int64(id))

	ctx.AddField(catSym)
	InitInteger(ctx.Value(1), int64(categoryOf(id)))

	ctx.AddField(msgSym)
	msg := fmt.Sprintf(errorTemplates[id], joinArgs(args))
	s := NewStringSeries(len(msg))
	s.AppendBytes([]byte(msg))
	InitString(ctx.Value(2), s)

	var c Cell
	InitContext(&c, ctx)
	return &c
}

func joinArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}

// errorFromGo wraps an arbitrary Go error as a user-category error cell
// (used at the boundary where native code returns a plain Go error rather
// than constructing a wisp one directly).
func errorFromGo(err error) *Cell {
	return errorCell(ErrUser, err.Error())
}

// wellKnownSymbols holds the small set of field-name symbols the error
// taxonomy and other ambient machinery need interned once at startup.
// Populated by InitRuntime (doc.go).
var wellKnownSymbols struct {
	id, category, message *symtab.Symbol
}
