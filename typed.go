package udf

import (
	udferrors "github.com/udfkit/udf-go/domain/errors"
	"github.com/udfkit/udf-go/wire"
)

func mismatch(expected string, v wire.Value) error {
	return &udferrors.TypeMismatchError{Expected: expected, Actual: wire.Format(v)}
}

func asInt(v wire.Value, expected string) (wire.Int, error) {
	i, ok := v.(wire.Int)
	if !ok {
		return wire.Int{}, mismatch(expected, v)
	}
	return i, nil
}

func decodeSigned[T ~int8 | ~int16 | ~int32 | ~int64](v wire.Value, name string) (T, error) {
	i, err := asInt(v, name)
	if err != nil {
		return 0, err
	}
	n, ok := i.Int64()
	if !ok || int64(T(n)) != n {
		return 0, &udferrors.RangeError{Target: name, Value: i.Text()}
	}
	return T(n), nil
}

func decodeUnsigned[T ~uint8 | ~uint16 | ~uint32 | ~uint64](v wire.Value, name string) (T, error) {
	i, err := asInt(v, name)
	if err != nil {
		return 0, err
	}
	n, ok := i.Uint64()
	if !ok || uint64(T(n)) != n {
		return 0, &udferrors.RangeError{Target: name, Value: i.Text()}
	}
	return T(n), nil
}

// DecodeInt64 requires an integer in the int64 range.
func DecodeInt64(v wire.Value) (int64, error) { return decodeSigned[int64](v, "i64") }

// DecodeInt32 requires an integer in the int32 range.
func DecodeInt32(v wire.Value) (int32, error) { return decodeSigned[int32](v, "i32") }

// DecodeInt16 requires an integer in the int16 range.
func DecodeInt16(v wire.Value) (int16, error) { return decodeSigned[int16](v, "i16") }

// DecodeInt8 requires an integer in the int8 range.
func DecodeInt8(v wire.Value) (int8, error) { return decodeSigned[int8](v, "i8") }

// DecodeUint64 requires a non-negative integer in the uint64 range.
func DecodeUint64(v wire.Value) (uint64, error) { return decodeUnsigned[uint64](v, "u64") }

// DecodeUint32 requires an integer in the uint32 range.
func DecodeUint32(v wire.Value) (uint32, error) { return decodeUnsigned[uint32](v, "u32") }

// DecodeUint16 requires an integer in the uint16 range.
func DecodeUint16(v wire.Value) (uint16, error) { return decodeUnsigned[uint16](v, "u16") }

// DecodeUint8 requires an integer in the uint8 range.
func DecodeUint8(v wire.Value) (uint8, error) { return decodeUnsigned[uint8](v, "u8") }

// DecodeFloat64 requires a value carrying the double-precision tag.
func DecodeFloat64(v wire.Value) (float64, error) {
	f, ok := v.(wire.F64)
	if !ok {
		return 0, mismatch("f64", v)
	}
	return float64(f), nil
}

// DecodeFloat32 requires the single-precision tag exactly; an F64 is rejected even when
// its value would fit, so the two float widths never blur into each other.
func DecodeFloat32(v wire.Value) (float32, error) {
	f, ok := v.(wire.F32)
	if !ok {
		return 0, mismatch("f32", v)
	}
	return float32(f), nil
}

// DecodeBool requires a boolean.
func DecodeBool(v wire.Value) (bool, error) {
	b, ok := v.(wire.Bool)
	if !ok {
		return false, mismatch("bool", v)
	}
	return bool(b), nil
}

// DecodeString requires a string.
func DecodeString(v wire.Value) (string, error) {
	s, ok := v.(wire.String)
	if !ok {
		return "", mismatch("str", v)
	}
	return string(s), nil
}

// DecodeBinary requires a binary blob.
func DecodeBinary(v wire.Value) ([]byte, error) {
	b, ok := v.(wire.Binary)
	if !ok {
		return nil, mismatch("binary", v)
	}
	return []byte(b), nil
}

// EncodeInt64 returns the wire form of n.
func EncodeInt64(n int64) wire.Value { return wire.IntOf(n) }

// EncodeInt32 returns the wire form of n.
func EncodeInt32(n int32) wire.Value { return wire.IntOf(int64(n)) }

// EncodeInt16 returns the wire form of n.
func EncodeInt16(n int16) wire.Value { return wire.IntOf(int64(n)) }

// EncodeUint64 returns the wire form of n.
func EncodeUint64(n uint64) wire.Value { return wire.UintOf(n) }

// EncodeFloat64 returns the wire form of f with the double-precision tag.
func EncodeFloat64(f float64) wire.Value { return wire.F64(f) }

// EncodeFloat32 returns the wire form of f with the single-precision tag.
func EncodeFloat32(f float32) wire.Value { return wire.F32(f) }

// EncodeBool returns the wire form of b.
func EncodeBool(b bool) wire.Value { return wire.Bool(b) }

// EncodeString returns the wire form of s.
func EncodeString(s string) wire.Value { return wire.String(s) }

// EncodeBinary returns the wire form of b.
func EncodeBinary(b []byte) wire.Value { return wire.Binary(b) }
