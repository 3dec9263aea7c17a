// Package arena provides a generic bump-pointer arena allocator.
//
// It is adapted from the teacher's internal/arena package (the same
// chunked, power-of-two-size-class growth strategy, and the same
// "keep the largest retired block around for reuse" behavior on Reset),
// but reimplemented over Go generics and slices instead of unsafe.Pointer
// and reflect-built chunk shapes. The teacher needs raw pointers because it
// hands arena-backed memory across cgo-adjacent, register-packed parser
// state (P1/P2 in internal/tdp/vm); wisp's series/cell layer has no such
// requirement, so a slice-of-blocks arena gets the same allocation
// behavior — and the same pointer-stability guarantee, since existing
// blocks are never reallocated, only appended to — without unsafe code.
//
// SPEC_FULL.md §4.2 (C2): this is the backing allocator for series stub
// nodes and for quote-indirection cells (quote depth >= 4, §3.1). Frames
// are pooled separately, through internal/pool.
package arena

// minBlock is the element count of the first block; it then doubles (the
// "typically 2x" growth spec.md §4.2 describes) until blocks reach maxBlock
// elements, after which growth becomes linear, matching the teacher's
// "linear thereafter" expansion rule.
const (
	minBlock = 16
	maxBlock = 1 << 16
)

// Arena is a bump-pointer allocator for values of type T.
//
// Taking the address of a slot handed out by Alloc is always safe: once a
// block is appended to blocks, it is never regrown or copied, so &block[i]
// remains valid for the arena's lifetime (or until Reset, which the caller
// must not outlive any held pointers across).
//
// The zero Arena is empty and ready to use.
type Arena[T any] struct {
	blocks    [][]T // Each len(blocks[i]) == cap(blocks[i]); bump pointer is len(cur).
	nextBlock int
}

// Alloc returns a pointer to a freshly zeroed T owned by the arena.
func (a *Arena[T]) Alloc() *T {
	if len(a.blocks) == 0 || len(a.blocks[len(a.blocks)-1]) == cap(a.blocks[len(a.blocks)-1]) {
		a.grow()
	}
	last := &a.blocks[len(a.blocks)-1]
	*last = append(*last, *new(T))
	return &(*last)[len(*last)-1]
}

// AllocSlice returns an arena-owned slice of n freshly zeroed T, contiguous
// in memory. Series element buffers (§3.2) and keylists (§4.4) are plain
// Go slices and do not use it.
func (a *Arena[T]) AllocSlice(n int) []T {
	if n == 0 {
		return nil
	}
	block := make([]T, n)
	a.blocks = append(a.blocks, block)
	return block
}

func (a *Arena[T]) grow() {
	size := minBlock
	if n := a.nextBlock; n > 0 {
		prev := len(a.blocks[n-1])
		size = prev * 2
		if prev >= maxBlock {
			size = prev + maxBlock
		}
	}
	a.blocks = append(a.blocks, make([]T, 0, size))
	a.nextBlock = len(a.blocks)
}

// Reset discards every value the arena has handed out. The caller must not
// dereference any previously returned pointer after calling Reset.
//
// The largest block is retained (truncated to length 0) for reuse, mirroring
// the teacher's Arena.Free, which keeps its block cache indexed by size
// class rather than returning memory to the Go allocator immediately.
func (a *Arena[T]) Reset() {
	if len(a.blocks) == 0 {
		return
	}
	biggest := a.blocks[0]
	for _, b := range a.blocks[1:] {
		if cap(b) > cap(biggest) {
			biggest = b
		}
	}
	a.blocks = a.blocks[:0]
	a.nextBlock = 0
	if cap(biggest) > 0 {
		a.blocks = append(a.blocks, biggest[:0])
		a.nextBlock = 1
	}
}

// Len returns the total number of values currently allocated from the arena.
func (a *Arena[T]) Len() int {
	n := 0
	for _, b := range a.blocks {
		n += len(b)
	}
	return n
}
