package swiss

import "math/bits"

// fxhash is the same simple multiply-rotate hash used by the teacher's
// internal/swiss/fxhash.go ("See https://docs.rs/fxhash"), reimplemented
// over plain byte slices instead of unsafe pointer casts, since wisp never
// needs to hash raw struct memory — only byte strings (symbol spellings,
// §3.3 Symbol, and MAP! keys) and single machine words.
type fxhash uint64

const (
	fxRotate = 5
	fxKey    = 0x517cc1b727220a95
)

func (h fxhash) u64(n uint64) fxhash {
	hi, lo := bits.Mul64(bits.RotateLeft64(uint64(h), fxRotate)^n, fxKey)
	return fxhash(lo ^ hi)
}

// HashBytes hashes an arbitrary byte string 8 bytes at a time. Exported for
// use by internal/symtab, which hashes symbol spellings with this table.
func HashBytes(b []byte) uint64 {
	h := fxhash(0).u64(uint64(len(b)))
	for len(b) >= 8 {
		n := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
			uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
		h = h.u64(n)
		b = b[8:]
	}
	if len(b) > 0 {
		var n uint64
		for i, c := range b {
			n |= uint64(c) << (8 * i)
		}
		h = h.u64(n)
	}
	return uint64(h)
}

// HashU64 hashes a single machine word, for integer-keyed tables; no
// table in wisp uses it.
func HashU64(n uint64) uint64 {
	return uint64(fxhash(0).u64(n))
}
