package wisp

import "github.com/wisp-lang/wisp/internal/swiss"

// Map is a hashed key/value container (§4.4, C4: "map (Map/pairlist)").
// Unlike a context, a map's keys are arbitrary values (not necessarily
// symbols) compared by mold-equivalence, so it is backed by an
// internal/swiss table keyed on a cheaply-hashable normalized form rather
// than reusing the symbol-keyed keylist machinery context.go uses.
type Map struct {
	pairlist *Series // Flavor FlavorPairlist; interleaved key, value cells.
	index    *swiss.Table[string, int]
}

// NewMap creates an empty map pre-sized for capHint key/value pairs.
func NewMap(capHint int) *Map {
	return &Map{
		pairlist: newSeriesFlavor(FlavorPairlist, capHint*2),
		index:    swiss.New[string, int](func(s string) uint64 { return swiss.HashBytes([]byte(s)) }),
	}
}

// mapKey returns a normalized, hashable string form of a map key value.
// This is the same textual-mold key space a REBOL-family map traditionally
// uses (two values with the same mold collide to the same slot), grounded
// on mold.go's Mold for the canonical form.
func mapKey(key *Cell) string {
	return Mold(key, MoldOptions{Form: true})
}

// Len returns the number of key/value pairs.
func (m *Map) Len() int { return m.index.Len() }

// Get looks up key's value, returning (value, true) if present.
func (m *Map) Get(key *Cell) (Cell, bool) {
	idx, ok := m.index.Get(mapKey(key))
	if !ok {
		var zero Cell
		return zero, false
	}
	return *m.pairlist.At(idx*2 + 1), true
}

// Put inserts or overwrites key's value.
func (m *Map) Put(key, val Cell) {
	m.pairlist.requireWritable("Map.Put")
	k := mapKey(&key)
	if idx, ok := m.index.Get(k); ok {
		Copy(m.pairlist.At(idx*2+1), &val)
		return
	}
	idx := m.pairlist.Len() / 2
	m.pairlist.Append(key)
	m.pairlist.Append(val)
	m.index.Set(k, idx)
}

// Remove deletes key, if present, returning whether it was.
//
// Map.Remove leaves a hole in the pairlist (its slots become none/none)
// rather than compacting, since compaction would invalidate every other
// key's stored index; this is the same tombstone-over-compaction choice
// internal/swiss's own Delete makes for its control bytes.
func (m *Map) Remove(key *Cell) bool {
	m.pairlist.requireWritable("Map.Remove")
	k := mapKey(key)
	idx, ok := m.index.Get(k)
	if !ok {
		return false
	}
	m.index.Delete(k)
	InitNone(m.pairlist.At(idx * 2))
	InitNone(m.pairlist.At(idx*2 + 1))
	return true
}

// All ranges over every live (key, value) pair. Order is unspecified.
func (m *Map) All(yield func(key, val *Cell) bool) {
	m.index.All(func(_ string, idx int) bool {
		return yield(m.pairlist.At(idx*2), m.pairlist.At(idx*2+1))
	})
}

// Pairlist exposes the backing series, for binding/GC tracing.
func (m *Map) Pairlist() *Series { return m.pairlist }

// InitMap writes a map cell wrapping m.
func InitMap(c *Cell, m *Map) *Cell {
	*c = Cell{heart: HeartMap, first: slot{node: m.pairlist}, second: slot{obj: m.index}}
	return c
}

// AsMap recovers the *Map a map cell wraps.
func (c *Cell) AsMap() *Map {
	c.requireHeart(HeartMap, "AsMap")
	idx, _ := c.second.obj.(*swiss.Table[string, int])
	return &Map{pairlist: c.first.node, index: idx}
}
