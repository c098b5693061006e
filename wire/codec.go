package wire

import (
	"fmt"
	"math"

	"github.com/tinylib/msgp/msgp"

	udferrors "github.com/udfkit/udf-go/domain/errors"
)

// MaxDepth bounds how deeply arrays and maps may nest in decoded input.
const MaxDepth = 256

// Encode returns the MessagePack encoding of v.
func Encode(v Value) ([]byte, error) {
	return Append(nil, v)
}

// Append appends the MessagePack encoding of v to dst. A nil Value encodes as Nil.
func Append(dst []byte, v Value) ([]byte, error) {
	switch x := v.(type) {
	case nil, Nil:
		return msgp.AppendNil(dst), nil
	case Bool:
		return msgp.AppendBool(dst, bool(x)), nil
	case Int:
		if x.neg {
			return msgp.AppendInt64(dst, int64(x.bits)), nil
		}
		return msgp.AppendUint64(dst, x.bits), nil
	case F32:
		return msgp.AppendFloat32(dst, float32(x)), nil
	case F64:
		return msgp.AppendFloat64(dst, float64(x)), nil
	case String:
		if uint64(len(x)) > math.MaxUint32 {
			return dst, fmt.Errorf("wire: string of %d bytes exceeds the format limit", len(x))
		}
		return msgp.AppendString(dst, string(x)), nil
	case Binary:
		if uint64(len(x)) > math.MaxUint32 {
			return dst, fmt.Errorf("wire: binary of %d bytes exceeds the format limit", len(x))
		}
		return msgp.AppendBytes(dst, x), nil
	case Array:
		if uint64(len(x)) > math.MaxUint32 {
			return dst, fmt.Errorf("wire: array of %d elements exceeds the format limit", len(x))
		}
		dst = msgp.AppendArrayHeader(dst, uint32(len(x)))
		var err error
		for i, elem := range x {
			if dst, err = Append(dst, elem); err != nil {
				return dst, fmt.Errorf("array element %d: %w", i, err)
			}
		}
		return dst, nil
	case Map:
		if uint64(len(x)) > math.MaxUint32 {
			return dst, fmt.Errorf("wire: map of %d entries exceeds the format limit", len(x))
		}
		dst = msgp.AppendMapHeader(dst, uint32(len(x)))
		var err error
		for i, p := range x {
			if dst, err = Append(dst, p.Key); err != nil {
				return dst, fmt.Errorf("map key %d: %w", i, err)
			}
			if dst, err = Append(dst, p.Val); err != nil {
				return dst, fmt.Errorf("map value %d: %w", i, err)
			}
		}
		return dst, nil
	default:
		return dst, fmt.Errorf("wire: cannot encode %T", v)
	}
}

// Decode parses b as exactly one value. Insufficient input and trailing bytes are both
// reported as *errors.DecodeError.
func Decode(b []byte) (Value, error) {
	d := decoder{total: len(b)}
	v, rest, err := d.value(b, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, &udferrors.DecodeError{
			Reason: fmt.Sprintf("%d trailing bytes after value", len(rest)),
			Offset: d.offset(rest),
		}
	}
	return v, nil
}

// DecodeNext parses the first value in b and returns it with the unconsumed remainder.
func DecodeNext(b []byte) (Value, []byte, error) {
	d := decoder{total: len(b)}
	return d.value(b, 0)
}

type decoder struct {
	total int
}

func (d decoder) offset(rest []byte) int {
	return d.total - len(rest)
}

func (d decoder) fail(at []byte, reason string, err error) error {
	return &udferrors.DecodeError{Reason: reason, Offset: d.offset(at), Err: err}
}

func (d decoder) value(b []byte, depth int) (Value, []byte, error) {
	if depth > MaxDepth {
		return nil, b, d.fail(b, fmt.Sprintf("nesting deeper than %d", MaxDepth), nil)
	}
	if len(b) == 0 {
		return nil, b, d.fail(b, "unexpected end of input", nil)
	}

	switch t := msgp.NextType(b); t {
	case msgp.NilType:
		o, err := msgp.ReadNilBytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed nil", err)
		}
		return Nil{}, o, nil

	case msgp.BoolType:
		v, o, err := msgp.ReadBoolBytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed bool", err)
		}
		return Bool(v), o, nil

	case msgp.IntType:
		v, o, err := msgp.ReadInt64Bytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed int", err)
		}
		return IntOf(v), o, nil

	case msgp.UintType:
		v, o, err := msgp.ReadUint64Bytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed uint", err)
		}
		return UintOf(v), o, nil

	case msgp.Float32Type:
		v, o, err := msgp.ReadFloat32Bytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed f32", err)
		}
		return F32(v), o, nil

	case msgp.Float64Type:
		v, o, err := msgp.ReadFloat64Bytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed f64", err)
		}
		return F64(v), o, nil

	case msgp.StrType:
		v, o, err := msgp.ReadStringBytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed string", err)
		}
		return String(v), o, nil

	case msgp.BinType:
		v, o, err := msgp.ReadBytesBytes(b, nil)
		if err != nil {
			return nil, b, d.fail(b, "malformed binary", err)
		}
		if v == nil {
			v = []byte{}
		}
		return Binary(v), o, nil

	case msgp.ArrayType:
		sz, o, err := msgp.ReadArrayHeaderBytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed array header", err)
		}
		// Every element takes at least one byte.
		if uint64(sz) > uint64(len(o)) {
			return nil, b, d.fail(b, fmt.Sprintf("array of %d elements exceeds remaining %d bytes", sz, len(o)), nil)
		}
		arr := make(Array, 0, sz)
		for i := uint32(0); i < sz; i++ {
			var elem Value
			if elem, o, err = d.value(o, depth+1); err != nil {
				return nil, b, err
			}
			arr = append(arr, elem)
		}
		return arr, o, nil

	case msgp.MapType:
		sz, o, err := msgp.ReadMapHeaderBytes(b)
		if err != nil {
			return nil, b, d.fail(b, "malformed map header", err)
		}
		if 2*uint64(sz) > uint64(len(o)) {
			return nil, b, d.fail(b, fmt.Sprintf("map of %d entries exceeds remaining %d bytes", sz, len(o)), nil)
		}
		m := make(Map, 0, sz)
		for i := uint32(0); i < sz; i++ {
			var key, val Value
			if key, o, err = d.value(o, depth+1); err != nil {
				return nil, b, err
			}
			if val, o, err = d.value(o, depth+1); err != nil {
				return nil, b, err
			}
			m = append(m, Pair{Key: key, Val: val})
		}
		return m, o, nil

	case msgp.InvalidType:
		return nil, b, d.fail(b, fmt.Sprintf("unrecognized tag byte 0x%02x", b[0]), nil)

	default:
		return nil, b, d.fail(b, fmt.Sprintf("unsupported %s value", t), nil)
	}
}
