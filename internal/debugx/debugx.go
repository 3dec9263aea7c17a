// Package debugx provides build-tag gated assertions and goroutine-tagged
// trace logging for the wisp core.
//
// It is modelled directly on the teacher's internal/debug + internal/dbg
// packages: a const Enabled flipped by a build tag, an Assert that panics
// with a formatted message only when Enabled, and a Log that tags each
// line with the calling package, file, line, and goroutine id so that
// traces from concurrent tasks (§5 of SPEC_FULL.md: one evaluator per
// task, tasks are goroutines) can be told apart.
package debugx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/timandy/routine"
)

// goid caches each goroutine's id for Log's line tag. Enabled itself is
// declared in enabled_on.go (wispdebug build tag) and enabled_off.go, which
// defines it as a constant false so the compiler can dead-code-eliminate
// every Assert call in release builds.
var goid = routine.NewLocalWithInitializer(func() any { return routine.Goid() })

// Assert panics with a formatted message if cond is false. Only takes
// effect when Enabled; callers are expected to write:
//
//	debugx.Assert(used <= rest, "series used %d exceeds rest %d", used, rest)
//
// unconditionally — the release build turns this into a no-op.
func Assert(cond bool, format string, args ...any) {
	if !Enabled || cond {
		return
	}
	panic(fmt.Sprintf("wisp: assertion failed: "+format, args...))
}

// Log prints a trace line to stderr, tagged with the caller's package,
// file, line, and goroutine id. context, if non-empty, is a
// (format-string, args...) pair printed before operation, letting callers
// group related log lines (e.g. all lines for one Frame) the way the
// teacher's debug.Log groups lines for one parse.
func Log(context []any, operation string, format string, args ...any) {
	if !Enabled {
		return
	}

	pc, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s %s:%d [g%04d", name, filepath.Base(file), line, goid.Get().(int))
	if len(context) >= 1 {
		fmt.Fprintf(&buf, ", "+context[0].(string), context[1:]...)
	}
	fmt.Fprintf(&buf, "] %s: ", operation)
	fmt.Fprintf(&buf, format, args...)

	fmt.Fprintln(os.Stderr, buf.String())
}
