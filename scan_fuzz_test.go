package wisp_test

import (
	"testing"

	"github.com/wisp-lang/wisp"
)

// FuzzScan mirrors the teacher's parse_fuzz_test.go: feed arbitrary bytes
// to the hand-rolled byte-level parser and require that it either returns
// a cleanly reported error or a well-formed block, never panics. Scan's
// own well-formed inputs seed the corpus.
func FuzzScan(f *testing.F) {
	for _, seed := range []string{
		"1 + 2",
		"[1 (2 3)]",
		"x: 1",
		"[1 2",
		"a/b",
		`"hello"`,
		"none true false",
		"1.5 2x3",
		`"a^/b^"c"`,
		"",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		c, err := wisp.Scan(src)
		if err != nil {
			return
		}
		if c.Heart() != wisp.HeartBlock {
			t.Fatalf("Scan(%q) succeeded with non-block heart %v", src, c.Heart())
		}
	})
}
