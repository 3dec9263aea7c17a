package zigzag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wisp-lang/wisp/internal/zigzag"
)

func TestEncodeDecodeRoundTrip32(t *testing.T) {
	t.Parallel()

	for _, n := range []int32{0, 1, -1, 2, -2, 1<<30, -(1 << 30)} {
		assert.Equal(t, n, zigzag.Decode(zigzag.Encode(n)))
	}
}

func TestEncodeDecodeRoundTrip64(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		assert.Equal(t, n, zigzag.Decode64(zigzag.Encode64(n)))
	}
}

func TestEncodeOrdersSmallMagnitudesFirst(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0), zigzag.Encode(0))
	assert.Equal(t, uint32(1), zigzag.Encode(-1))
	assert.Equal(t, uint32(2), zigzag.Encode(1))
}
