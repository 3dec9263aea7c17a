package swiss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/internal/swiss"
)

func newStringTable() *swiss.Table[string, int] {
	return swiss.New[string, int](func(s string) uint64 { return swiss.HashBytes([]byte(s)) })
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	tbl := newStringTable()
	tbl.Set("a", 1)
	tbl.Set("b", 2)

	v, ok := tbl.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = tbl.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = tbl.Get("missing")
	assert.False(t, ok)
}

func TestSetOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	tbl := newStringTable()
	tbl.Set("a", 1)
	tbl.Set("a", 2)

	v, ok := tbl.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, tbl.Len())
}

func TestDeleteThenReinsert(t *testing.T) {
	t.Parallel()

	tbl := newStringTable()
	tbl.Set("a", 1)
	tbl.Delete("a")

	_, ok := tbl.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())

	tbl.Set("a", 9)
	v, ok := tbl.Get("a")
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestGrowPreservesAllEntries(t *testing.T) {
	t.Parallel()

	tbl := newStringTable()
	const n = 500
	for i := 0; i < n; i++ {
		tbl.Set(keyFor(i), i)
	}
	assert.Equal(t, n, tbl.Len())
	for i := 0; i < n; i++ {
		v, ok := tbl.Get(keyFor(i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestAllVisitsEveryLiveEntry(t *testing.T) {
	t.Parallel()

	tbl := newStringTable()
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		tbl.Set(k, v)
	}

	got := map[string]int{}
	tbl.All(func(k string, v int) bool {
		got[k] = v
		return true
	})
	assert.Equal(t, want, got)
}

func keyFor(i int) string {
	digits := "0123456789"
	s := make([]byte, 0, 4)
	if i == 0 {
		return "0"
	}
	for i > 0 {
		s = append([]byte{digits[i%10]}, s...)
		i /= 10
	}
	return string(s)
}
