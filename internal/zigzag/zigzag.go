// Package zigzag provides zigzag encoding for compact signed-integer
// storage, reusing protobuf's implementation rather than hand-rolling one.
//
// Nothing else in wisp imports this package; mold.go's compact form calls
// protowire's zigzag functions directly.
//
// Grounded directly on the teacher's internal/zigzag package, which is
// itself a thin wrapper over protowire.DecodeZigZag/EncodeZigZag.
package zigzag

import "google.golang.org/protobuf/encoding/protowire"

// Encode zigzag-encodes a signed value into its unsigned representation.
func Encode(n int32) uint32 {
	return uint32(protowire.EncodeZigZag(int64(n)))
}

// Decode reverses Encode.
func Decode(raw uint32) int32 {
	return int32(protowire.DecodeZigZag(uint64(raw)))
}

// Encode64 and Decode64 are the 64-bit analogues of Encode/Decode.
func Encode64(n int64) uint64 { return protowire.EncodeZigZag(n) }
func Decode64(raw uint64) int64 { return protowire.DecodeZigZag(raw) }
