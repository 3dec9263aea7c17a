// Package config loads wisp's runtime configuration from YAML, using
// gopkg.in/yaml.v3 the way the retrieval pack's tooling pulls it in as a
// dependency (the teacher itself configures purely through in-code
// functional options — see its options.go — since a protobuf parser has
// no standalone runtime to configure; wisp's cmd/wisp binary does, so this
// package gives it the same "decode a struct from bytes" shape the pack's
// yaml.v3 dependency is meant for).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the handful of runtime knobs SPEC_FULL.md's ambient stack
// calls for: the GC ballast size (§4.2), a max call depth, and whether
// debug tracing is active at runtime (on top of the wispdebug build tag,
// which gates whether tracing code exists at all). MaxCallDepth is loaded
// here, but the evaluator does not read it and enforces no depth limit.
type Config struct {
	BallastBytes  int64 `yaml:"ballast_bytes"`
	MaxCallDepth  int   `yaml:"max_call_depth"`
	Trace         bool  `yaml:"trace"`
	SymbolReserve uint16 `yaml:"symbol_reserve"`
}

// Default returns the configuration wisp runs with if no file is loaded.
func Default() Config {
	return Config{
		BallastBytes: 16 << 20,
		MaxCallDepth: 8192,
		Trace:        false,
		SymbolReserve: 256,
	}
}

// Load reads and parses a YAML config file, starting from Default() so
// that a file only needs to mention the fields it overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
