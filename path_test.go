package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp"
)

func TestToLocalWindowsDriveLetterAndDotDotCollapse(t *testing.T) {
	t.Parallel()

	out, err := wisp.ToLocal("/C/Users/./x/../y/", wisp.ToLocalFlags{Windows: true})
	require.NoError(t, err)
	assert.Equal(t, `C:\Users\y\`, out)
}

func TestToLocalNoTailSlashTrimsTrailingSeparator(t *testing.T) {
	t.Parallel()

	out, err := wisp.ToLocal("/C/Users/./x/../y/", wisp.ToLocalFlags{Windows: true, NoTailSlash: true})
	require.NoError(t, err)
	assert.Equal(t, `C:\Users\y`, out)
}

func TestToLocalPosixLeavesDriveLikeSegmentAlone(t *testing.T) {
	t.Parallel()

	out, err := wisp.ToLocal("/C/Users", wisp.ToLocalFlags{})
	require.NoError(t, err)
	assert.Equal(t, "/C/Users", out)
}

func TestToRebolNormalizesBackslashesAndDriveLetter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/C/Users/y", wisp.ToRebol(`C:\Users\y`, false))
	assert.Equal(t, "/C/Users/y/", wisp.ToRebol(`C:\Users\y`, true))
}

func TestToRebolCollapsesRepeatedSeparatorsButKeepsUNC(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b", wisp.ToRebol(`a//b`, false))
	assert.Equal(t, "//host/share", wisp.ToRebol(`\\host\share`, false))
}

func TestToRebolNativeRoundTripsThroughEvaluator(t *testing.T) {
	t.Parallel()
	spec := newRootSpec(t)

	// No literal true/false word is bound in RegisterCoreNatives, so derive
	// the is-dir LOGIC! argument via `=` instead.
	out, err := evalString(t, spec, `to-rebol %foo/bar (1 = 2)`)
	require.NoError(t, err)
	require.Equal(t, wisp.HeartFile, out.Heart())
	assert.Equal(t, "foo/bar", string(out.Series().Bytes()))
}
