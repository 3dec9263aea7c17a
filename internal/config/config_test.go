package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/config"
)

func TestDefaultValues(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.Equal(t, int64(16<<20), cfg.BallastBytes)
	assert.Equal(t, 8192, cfg.MaxCallDepth)
	assert.False(t, cfg.Trace)
	assert.Equal(t, uint16(256), cfg.SymbolReserve)
}

func TestLoadOverridesOnlyMentionedFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "wisp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trace: true\nmax_call_depth: 100\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Trace)
	assert.Equal(t, 100, cfg.MaxCallDepth)
	assert.Equal(t, int64(16<<20), cfg.BallastBytes)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
