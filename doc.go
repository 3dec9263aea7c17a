package wisp

import "github.com/wisp-lang/wisp/internal/symtab"

// defaultSymbols is the process-wide symbol table. wisp only ever runs one
// interpreter per process (embedding multiple isolated interpreters would
// need per-Context symbol tables, which SPEC_FULL.md's Non-goals exclude),
// so a single package-level table is the same simplification the
// language's own reference implementations make for their global symbol
// interner.
var defaultSymbols = symtab.New()

// Symbols returns the process-wide symbol table scan.go interns words
// into and eval.go/context.go compare words against.
func Symbols() *symtab.Table { return defaultSymbols }

var runtimeInitialized bool

// InitRuntime interns the handful of well-known field-name symbols the
// error taxonomy (errors.go) needs, and must be called once before any
// error is raised. Idempotent.
func InitRuntime() {
	if runtimeInitialized {
		return
	}
	wellKnownSymbols.id = defaultSymbols.Intern("id")
	wellKnownSymbols.category = defaultSymbols.Intern("category")
	wellKnownSymbols.message = defaultSymbols.Intern("message")
	runtimeInitialized = true
}
