package udf

import (
	"fmt"
	"math/big"
	"strings"

	udferrors "github.com/udfkit/udf-go/domain/errors"
	"github.com/udfkit/udf-go/wire"
)

// decimalParts is the element count of a decimal on the wire: [precision, scale, high, low].
const decimalParts = 4

// Int128 is a signed 128-bit integer in two's complement: Hi holds bits 64..127 (and the sign),
// Lo holds bits 0..63.
type Int128 struct {
	Hi int64
	Lo uint64
}

var (
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	mask64    = new(big.Int).SetUint64(^uint64(0))
)

// Int128FromInt64 sign-extends n.
func Int128FromInt64(n int64) Int128 {
	return Int128{Hi: n >> 63, Lo: uint64(n)}
}

// Int128FromBig converts b, failing when it does not fit in 128 bits.
func Int128FromBig(b *big.Int) (Int128, error) {
	if b.Cmp(minInt128) < 0 || b.Cmp(maxInt128) > 0 {
		return Int128{}, &udferrors.RangeError{Target: "i128", Value: b.String()}
	}
	x := new(big.Int).Set(b)
	if x.Sign() < 0 {
		x.Add(x, two128)
	}
	lo := new(big.Int).And(x, mask64).Uint64()
	hi := new(big.Int).Rsh(x, 64).Uint64()
	return Int128{Hi: int64(hi), Lo: lo}, nil
}

// Big returns the value as a big.Int.
func (i Int128) Big() *big.Int {
	b := big.NewInt(i.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

// Sign returns -1, 0 or +1.
func (i Int128) Sign() int {
	switch {
	case i.Hi < 0:
		return -1
	case i.Hi == 0 && i.Lo == 0:
		return 0
	default:
		return 1
	}
}

func (i Int128) String() string {
	return i.Big().String()
}

// SplitInt128 returns the wire halves of v: high is v shifted right by 64 with sign
// extension, low is the bottom 64 bits reinterpreted as signed.
func SplitInt128(v Int128) (high, low int64) {
	return v.Hi, int64(v.Lo)
}

// JoinInt128 reassembles the halves produced by SplitInt128 by concatenating their bits:
// value = high<<64 | uint64(low). low is not sign-extended here; doing so would subtract 2^64
// from every value whose bit 63 is set.
func JoinInt128(high, low int64) Int128 {
	return Int128{Hi: high, Lo: uint64(low)}
}

// Decimal is a fixed-precision decimal: Value scaled down by 10^Scale.
type Decimal struct {
	Precision uint8
	Scale     uint8
	Value     Int128
}

// String renders the scaled value, e.g. Value 12345 with Scale 2 is "123.45".
func (d Decimal) String() string {
	digits := new(big.Int).Abs(d.Value.Big()).String()
	scale := int(d.Scale)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	var sb strings.Builder
	if d.Value.Sign() < 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(digits[:len(digits)-scale])
	if scale > 0 {
		sb.WriteByte('.')
		sb.WriteString(digits[len(digits)-scale:])
	}
	return sb.String()
}

// EncodeDecimal returns the wire form [precision, scale, high, low].
func EncodeDecimal(d Decimal) wire.Value {
	high, low := SplitInt128(d.Value)
	return wire.Array{
		wire.UintOf(uint64(d.Precision)),
		wire.UintOf(uint64(d.Scale)),
		wire.IntOf(high),
		wire.IntOf(low),
	}
}

// DecodeDecimal parses the wire form produced by EncodeDecimal. Errors name the offending
// element.
func DecodeDecimal(v wire.Value) (Decimal, error) {
	parts, ok := v.(wire.Array)
	if !ok {
		return Decimal{}, &udferrors.TypeMismatchError{Field: "decimal", Expected: "array", Actual: wire.Format(v)}
	}
	if len(parts) != decimalParts {
		return Decimal{}, &udferrors.ShapeError{What: "decimal", Expected: decimalParts, Got: len(parts)}
	}

	precision, err := decimalField(parts[0], "precision", DecodeUint8)
	if err != nil {
		return Decimal{}, err
	}
	scale, err := decimalField(parts[1], "scale", DecodeUint8)
	if err != nil {
		return Decimal{}, err
	}
	high, err := decimalField(parts[2], "high", DecodeInt64)
	if err != nil {
		return Decimal{}, err
	}
	low, err := decimalField(parts[3], "low", DecodeInt64)
	if err != nil {
		return Decimal{}, err
	}

	return Decimal{Precision: precision, Scale: scale, Value: JoinInt128(high, low)}, nil
}

func decimalField[T any](v wire.Value, field string, decode func(wire.Value) (T, error)) (T, error) {
	n, err := decode(v)
	if err == nil {
		return n, nil
	}
	switch e := err.(type) {
	case *udferrors.TypeMismatchError:
		e.Field = field
		e.Expected = "integer"
	case *udferrors.RangeError:
		e.Field = field
	default:
		err = fmt.Errorf("%s: %w", field, err)
	}
	return n, err
}
