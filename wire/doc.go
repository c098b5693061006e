// Package wire defines the self-describing values that cross the host/guest boundary and the
// MessagePack codec that turns them into bytes.
//
// A Value is a closed sum type: Nil, Bool, Int, F32, F64, String, Binary, Array and Map are the
// only implementations. Code outside the typed codec should not inspect kinds directly; use the
// udf Decode* functions instead.
//
// Encoding is deterministic. Integers are written in their smallest MessagePack form, using the
// unsigned family for non-negative values and the signed family for negative ones, and maps keep
// their insertion order:
//
//	b, err := wire.Encode(wire.Array{wire.IntOf(2), wire.IntOf(3)})
//	v, err := wire.Decode(b) // Array[Int(2), Int(3)]
package wire
