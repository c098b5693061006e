package abi

import (
	"encoding/binary"
	"fmt"
	"math"

	udferrors "github.com/udfkit/udf-go/domain/errors"
)

// SizePrefixLen is the width of the signed length field in front of every envelope.
const SizePrefixLen = 4

// byteOrder is the native order of wasm32 linear memory.
var byteOrder = binary.LittleEndian

// EncodeEnvelope prefixes payload with its length.
func EncodeEnvelope(payload []byte) ([]byte, error) {
	if len(payload) > math.MaxInt32-SizePrefixLen {
		return nil, &udferrors.EnvelopeError{
			Reason:    "payload does not fit a 32-bit length prefix",
			Declared:  int64(len(payload)),
			Available: -1,
		}
	}
	out := make([]byte, SizePrefixLen, SizePrefixLen+len(payload))
	byteOrder.PutUint32(out, uint32(len(payload)))
	return append(out, payload...), nil
}

// DecodeEnvelope returns the payload of b, which must hold exactly one envelope.
func DecodeEnvelope(b []byte) ([]byte, error) {
	if len(b) < SizePrefixLen {
		return nil, &udferrors.EnvelopeError{
			Reason:    "truncated length prefix",
			Declared:  -1,
			Available: int64(len(b)),
		}
	}
	declared := int32(byteOrder.Uint32(b))
	remaining := int64(len(b) - SizePrefixLen)
	if err := checkDeclared(0, declared, remaining); err != nil {
		return nil, err
	}
	return b[SizePrefixLen:], nil
}

// ReadEnvelope borrows the payload of the envelope at ptr. When mem knows the extent of the
// allocation at ptr, the declared length must match it exactly; otherwise it must lie within
// linear memory.
func ReadEnvelope(mem Memory, ptr uint32) (View, error) {
	if ptr == 0 {
		return View{}, &udferrors.EnvelopeError{Reason: "null envelope pointer", Available: -1}
	}
	if ptr > math.MaxUint32-SizePrefixLen {
		return View{}, &udferrors.EnvelopeError{Reason: "length prefix outside linear memory", Ptr: ptr, Available: -1}
	}
	prefix, ok := mem.Read(ptr, SizePrefixLen)
	if !ok {
		return View{}, &udferrors.EnvelopeError{Reason: "length prefix outside linear memory", Ptr: ptr, Available: -1}
	}
	declared := int32(byteOrder.Uint32(prefix))

	if ext, isExtent := mem.(Extent); isExtent {
		if capacity, known := ext.Extent(ptr); known {
			if capacity < SizePrefixLen {
				return View{}, &udferrors.EnvelopeError{
					Reason: "allocation smaller than length prefix", Ptr: ptr, Declared: int64(declared), Available: int64(capacity),
				}
			}
			if err := checkDeclared(ptr, declared, int64(capacity)-SizePrefixLen); err != nil {
				return View{}, err
			}
		}
	}
	if declared < 0 {
		return View{}, &udferrors.EnvelopeError{Reason: "negative length prefix", Ptr: ptr, Declared: int64(declared), Available: -1}
	}

	view, ok := Borrow(mem, ptr+SizePrefixLen, uint32(declared))
	if !ok {
		return View{}, &udferrors.EnvelopeError{
			Reason: "declared length runs past linear memory", Ptr: ptr, Declared: int64(declared), Available: -1,
		}
	}
	view.buf = Buffer{Ptr: ptr, Len: SizePrefixLen + uint32(declared), Cap: SizePrefixLen + uint32(declared)}
	return view, nil
}

// WriteEnvelope allocates a fresh envelope in mem holding payload. The caller owns the result
// until it transfers or releases it.
func WriteEnvelope(mem Memory, payload []byte) (*Owned, error) {
	framed, err := EncodeEnvelope(payload)
	if err != nil {
		return nil, err
	}
	out, err := Allocate(mem, uint32(len(framed)))
	if err != nil {
		return nil, fmt.Errorf("allocate envelope: %w", err)
	}
	if err := out.Write(0, framed); err != nil {
		_ = out.Release()
		return nil, err
	}
	return out, nil
}

func checkDeclared(ptr uint32, declared int32, remaining int64) error {
	switch {
	case declared < 0:
		return &udferrors.EnvelopeError{Reason: "negative length prefix", Ptr: ptr, Declared: int64(declared), Available: remaining}
	case int64(declared) > remaining:
		return &udferrors.EnvelopeError{Reason: "declared length exceeds payload", Ptr: ptr, Declared: int64(declared), Available: remaining}
	case int64(declared) < remaining:
		return &udferrors.EnvelopeError{Reason: "declared length leaves trailing bytes", Ptr: ptr, Declared: int64(declared), Available: remaining}
	}
	return nil
}
