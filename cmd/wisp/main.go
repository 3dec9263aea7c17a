// Command wisp is a small REPL/batch evaluator over the wisp runtime:
// read one or more expressions (from a file, or stdin interactively),
// Scan + Do each, and print its Mold'd result — the same shape the
// teacher's own CLI tools (internal/tools/bench, internal/tools/test2)
// take as thin flag-parsing wrappers around the library, using the
// standard library's flag package directly rather than a dedicated CLI
// framework (the teacher's own tools do the same; neither the teacher
// nor the rest of the retrieval pack pulls in a flags library for this).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/wisp-lang/wisp"
	"github.com/wisp-lang/wisp/internal/config"
	"github.com/wisp-lang/wisp/internal/debugx"
	"github.com/wisp-lang/wisp/internal/gc"
	"github.com/wisp-lang/wisp/internal/stats"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	evalFlag := flag.String("eval", "", "evaluate this expression and exit")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "wisp: loading config:", err)
			os.Exit(1)
		}
	}

	wisp.InitRuntime()
	heap := gc.New()
	ballast := &stats.Ballast{}
	ballast.Replenish(cfg.BallastBytes)

	root := wisp.NewContext(wisp.ContextModule, 32)
	wisp.RegisterCoreNatives(root)
	rootSpec := wisp.NewUse(root, wisp.Unbound)

	if *evalFlag != "" {
		runOne(*evalFlag, heap, ballast, cfg, rootSpec)
		return
	}

	if flag.NArg() > 0 {
		b, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "wisp:", err)
			os.Exit(1)
		}
		runOne(string(b), heap, ballast, cfg, rootSpec)
		return
	}

	repl(heap, ballast, cfg, rootSpec)
}

func runOne(src string, heap *gc.Heap, ballast *stats.Ballast, cfg config.Config, root *wisp.Specifier) {
	result, err := evalSource(src, heap, ballast, cfg, root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wisp:", err)
		os.Exit(1)
	}
	fmt.Println(wisp.Mold(&result, wisp.MoldOptions{}))
}

func repl(heap *gc.Heap, ballast *stats.Ballast, cfg config.Config, root *wisp.Specifier) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print(">> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			fmt.Print(">> ")
			continue
		}
		result, err := evalSource(line, heap, ballast, cfg, root)
		if err != nil {
			fmt.Println("** " + err.Error())
		} else {
			fmt.Println("== " + wisp.Mold(&result, wisp.MoldOptions{}))
		}
		fmt.Print(">> ")
	}
}

func evalSource(src string, heap *gc.Heap, ballast *stats.Ballast, cfg config.Config, root *wisp.Specifier) (wisp.Cell, error) {
	ballast.Spend(int64(len(src)))
	if cfg.Trace {
		debugx.Log(nil, "cmd/wisp", "evaluating %d bytes (ballast remaining=%d, heap live=%d gen=%d)",
			len(src), ballast.Remaining(), heap.Live(), heap.Generation())
	}

	block, err := wisp.Scan(src)
	if err != nil {
		return wisp.Cell{}, err
	}
	feed := wisp.NewManagedFeed(block.Series(), root, heap, ballast, cfg.BallastBytes)
	return wisp.DoAll(feed)
}
