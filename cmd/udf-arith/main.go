//go:build wasip1

// Command udf-arith is the wasm guest exporting the arith example functions.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o arith.wasm ./cmd/udf-arith
//
// Try it:
//
//	udfctl call --wasm arith.wasm --export add_i64 2 3
package main

import (
	udf "github.com/udfkit/udf-go"
	"github.com/udfkit/udf-go/examples/arith"
)

var (
	addI64     = udf.Export(arith.AddI64)
	addF64     = udf.Export(arith.AddF64)
	addDecimal = udf.Export(arith.AddDecimal)
	concat     = udf.Export(arith.Concat)
)

//go:wasmexport add_i64
func exportAddI64(ptr uint32) uint32 { return addI64(ptr) }

//go:wasmexport add_f64
func exportAddF64(ptr uint32) uint32 { return addF64(ptr) }

//go:wasmexport add_decimal
func exportAddDecimal(ptr uint32) uint32 { return addDecimal(ptr) }

//go:wasmexport concat
func exportConcat(ptr uint32) uint32 { return concat(ptr) }

func main() {}
