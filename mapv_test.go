package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp"
)

func intCell(v int64) wisp.Cell {
	var c wisp.Cell
	wisp.InitInteger(&c, v)
	return c
}

func TestMapPutAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	m := wisp.NewMap(2)
	m.Put(intCell(1), intCell(100))
	m.Put(intCell(2), intCell(200))

	k := intCell(1)
	v, ok := m.Get(&k)
	require.True(t, ok)
	assert.Equal(t, int64(100), v.AsInteger())

	assert.Equal(t, 2, m.Len())
}

func TestMapPutOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	m := wisp.NewMap(1)
	m.Put(intCell(1), intCell(100))
	m.Put(intCell(1), intCell(999))

	assert.Equal(t, 1, m.Len())
	k := intCell(1)
	v, ok := m.Get(&k)
	require.True(t, ok)
	assert.Equal(t, int64(999), v.AsInteger())
}

func TestMapRemoveLeavesHoleNotCompacted(t *testing.T) {
	t.Parallel()

	m := wisp.NewMap(2)
	m.Put(intCell(1), intCell(100))
	m.Put(intCell(2), intCell(200))

	removed := m.Remove(&wisp.Cell{})
	assert.False(t, removed)

	k := intCell(1)
	assert.True(t, m.Remove(&k))
	assert.Equal(t, 1, m.Len())

	_, ok := m.Get(&k)
	assert.False(t, ok)

	k2 := intCell(2)
	v, ok := m.Get(&k2)
	require.True(t, ok)
	assert.Equal(t, int64(200), v.AsInteger())
}

func TestMapAllVisitsEveryLivePair(t *testing.T) {
	t.Parallel()

	m := wisp.NewMap(3)
	m.Put(intCell(1), intCell(10))
	m.Put(intCell(2), intCell(20))
	m.Put(intCell(3), intCell(30))

	got := map[int64]int64{}
	m.All(func(key, val *wisp.Cell) bool {
		got[key.AsInteger()] = val.AsInteger()
		return true
	})
	assert.Equal(t, map[int64]int64{1: 10, 2: 20, 3: 30}, got)
}

func TestMapCellRoundTrip(t *testing.T) {
	t.Parallel()

	m := wisp.NewMap(1)
	m.Put(intCell(1), intCell(7))

	var c wisp.Cell
	wisp.InitMap(&c, m)

	back := c.AsMap()
	k := intCell(1)
	v, ok := back.Get(&k)
	require.True(t, ok)
	assert.Equal(t, int64(7), v.AsInteger())
}
