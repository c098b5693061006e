// Package udf lets a sandboxed wasm guest expose functions to a host through a flat linear
// memory and raw 32-bit pointers.
//
// A call crosses the boundary as a sized envelope: a 4-byte little-endian signed length
// followed by a MessagePack payload. The host writes an envelope holding the argument array
// into memory it obtained from the guest's allocate export and calls the function export with
// its pointer. The guest decodes the arguments, runs the business function, and returns the
// pointer of a fresh envelope holding the result. The host releases both buffers.
//
// Guest functions are plain Go:
//
//	//go:wasmexport add_i64
//	func addI64(ptr uint32) uint32 { return add(ptr) }
//
//	var add = udf.Export(udf.Lift2(udf.DecodeInt64, udf.DecodeInt64, udf.EncodeInt64,
//		func(a, b int64) (int64, error) { return a + b, nil }))
//
// The Decode* and Encode* functions are the only place wire kinds are inspected; everything
// else deals in typed Go values.
package udf
