// Package diag renders the "where" (call-frame chain) and "near" (source
// snippet) parts of wisp's error taxonomy (SPEC_FULL.md §6.4/§7).
//
// Grounded stylistically on the teacher's internal/debug and internal/dbg
// tagged-line tracing format (see internal/debugx, which carries that
// style forward) rather than internal/prettyasm, which turns out to be a
// Go-assembly-specific cleanup tool with no transferable rendering logic
// — this package's line-rendering shape instead follows spec.md §7's own
// "where"/"near" description directly.
package diag

import (
	"fmt"
	"strings"
)

// WhereFrame is one entry in a rendered call chain, innermost first.
type WhereFrame struct {
	Label string // The word/path a call was invoked through; "" for a bare do.
	Depth int
}

// RenderWhere formats a call-frame chain the way a REPL or test failure
// prints it: one indented line per frame, innermost first, matching the
// teacher's debugx.Log convention of a fixed prefix per line rather than
// a single run-on string.
func RenderWhere(frames []WhereFrame) string {
	if len(frames) == 0 {
		return "    (no call frames)"
	}
	var sb strings.Builder
	for _, f := range frames {
		label := f.Label
		if label == "" {
			label = "<anonymous>"
		}
		fmt.Fprintf(&sb, "%s** in %s\n", strings.Repeat("  ", f.Depth), label)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderNear formats a short window of tokens around index i in a source
// array's molded representation, marking the failure point with `*** `.
// tokens are the already-molded text of each element (the caller supplies
// these since diag has no dependency on the cell/mold types, keeping this
// package free of an import cycle with the root module).
func RenderNear(tokens []string, i, window int) string {
	lo := i - window
	if lo < 0 {
		lo = 0
	}
	hi := i + window + 1
	if hi > len(tokens) {
		hi = len(tokens)
	}

	var sb strings.Builder
	for j := lo; j < hi; j++ {
		if j == i {
			sb.WriteString("*** ")
		}
		sb.WriteString(tokens[j])
		if j == i {
			sb.WriteString(" ***")
		}
		if j != hi-1 {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
