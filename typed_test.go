package udf_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	udf "github.com/udfkit/udf-go"
	udferrors "github.com/udfkit/udf-go/domain/errors"
	"github.com/udfkit/udf-go/wire"
)

func TestDecodeInt16(t *testing.T) {
	t.Parallel()

	got, err := udf.DecodeInt16(wire.IntOf(100))
	require.NoError(t, err)
	assert.Equal(t, int16(100), got)

	_, err = udf.DecodeInt16(wire.IntOf(1 << 20))
	require.Error(t, err)
	assert.True(t, errors.Is(err, udferrors.ErrRange))

	var re *udferrors.RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "i16", re.Target)
	assert.Equal(t, "1048576", re.Value)
}

func TestDecodeSignedWidths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   wire.Value
		decode  func(wire.Value) (int64, error)
		want    int64
		wantErr error
	}{
		{"i64 max", wire.IntOf(math.MaxInt64), udf.DecodeInt64, math.MaxInt64, nil},
		{"i64 min", wire.IntOf(math.MinInt64), udf.DecodeInt64, math.MinInt64, nil},
		{"i64 from uint family", wire.UintOf(42), udf.DecodeInt64, 42, nil},
		{"i64 overflow", wire.UintOf(math.MaxInt64 + 1), udf.DecodeInt64, 0, udferrors.ErrRange},
		{"i64 wrong kind", wire.String("1"), udf.DecodeInt64, 0, udferrors.ErrTypeMismatch},
		{"i32 max", wire.IntOf(math.MaxInt32), widen(udf.DecodeInt32), math.MaxInt32, nil},
		{"i32 overflow", wire.IntOf(math.MaxInt32 + 1), widen(udf.DecodeInt32), 0, udferrors.ErrRange},
		{"i32 underflow", wire.IntOf(math.MinInt32 - 1), widen(udf.DecodeInt32), 0, udferrors.ErrRange},
		{"i16 min", wire.IntOf(math.MinInt16), widen(udf.DecodeInt16), math.MinInt16, nil},
		{"i16 float", wire.F64(1), widen(udf.DecodeInt16), 0, udferrors.ErrTypeMismatch},
		{"i8 negative", wire.IntOf(-128), widen(udf.DecodeInt8), -128, nil},
		{"i8 overflow", wire.IntOf(128), widen(udf.DecodeInt8), 0, udferrors.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.decode(tt.value)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func widen[T int8 | int16 | int32](decode func(wire.Value) (T, error)) func(wire.Value) (int64, error) {
	return func(v wire.Value) (int64, error) {
		n, err := decode(v)
		return int64(n), err
	}
}

func TestDecodeUnsigned(t *testing.T) {
	t.Parallel()

	u, err := udf.DecodeUint64(wire.UintOf(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u)

	_, err = udf.DecodeUint64(wire.IntOf(-1))
	assert.True(t, errors.Is(err, udferrors.ErrRange))

	b, err := udf.DecodeUint8(wire.IntOf(255))
	require.NoError(t, err)
	assert.Equal(t, uint8(255), b)

	_, err = udf.DecodeUint8(wire.IntOf(256))
	assert.True(t, errors.Is(err, udferrors.ErrRange))

	_, err = udf.DecodeUint16(wire.IntOf(70000))
	assert.True(t, errors.Is(err, udferrors.ErrRange))

	n, err := udf.DecodeUint32(wire.IntOf(70000))
	require.NoError(t, err)
	assert.Equal(t, uint32(70000), n)
}

func TestDecodeFloat32_IsStrict(t *testing.T) {
	t.Parallel()

	got, err := udf.DecodeFloat32(wire.F32(1.5))
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), got)

	_, err = udf.DecodeFloat32(wire.F64(1.5))
	require.Error(t, err)

	var tm *udferrors.TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Equal(t, "f32", tm.Expected)
	assert.Equal(t, "F64(1.5)", tm.Actual)
}

func TestDecodeFloat64(t *testing.T) {
	t.Parallel()

	got, err := udf.DecodeFloat64(wire.F64(-2.25))
	require.NoError(t, err)
	assert.Equal(t, -2.25, got)

	_, err = udf.DecodeFloat64(wire.F32(1.5))
	assert.True(t, errors.Is(err, udferrors.ErrTypeMismatch))

	_, err = udf.DecodeFloat64(wire.IntOf(1))
	assert.True(t, errors.Is(err, udferrors.ErrTypeMismatch))
}

func TestDecodeExactKinds(t *testing.T) {
	t.Parallel()

	b, err := udf.DecodeBool(wire.Bool(true))
	require.NoError(t, err)
	assert.True(t, b)

	_, err = udf.DecodeBool(wire.IntOf(1))
	assert.True(t, errors.Is(err, udferrors.ErrTypeMismatch))

	s, err := udf.DecodeString(wire.String("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = udf.DecodeString(wire.Binary("hi"))
	assert.EqualError(t, err, `expected to find str value, but received Binary(2 bytes) instead`)

	bin, err := udf.DecodeBinary(wire.Binary{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, bin)

	_, err = udf.DecodeBinary(nil)
	assert.EqualError(t, err, "expected to find binary value, but received Nil instead")
}

func TestEncoders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, wire.IntOf(-3), udf.EncodeInt64(-3))
	assert.Equal(t, wire.IntOf(7), udf.EncodeInt32(7))
	assert.Equal(t, wire.IntOf(-7), udf.EncodeInt16(-7))
	assert.Equal(t, wire.UintOf(9), udf.EncodeUint64(9))
	assert.Equal(t, wire.F32(1.5), udf.EncodeFloat32(1.5))
	assert.Equal(t, wire.F64(1.5), udf.EncodeFloat64(1.5))
	assert.Equal(t, wire.Bool(true), udf.EncodeBool(true))
	assert.Equal(t, wire.String("s"), udf.EncodeString("s"))
	assert.Equal(t, wire.Binary{1}, udf.EncodeBinary([]byte{1}))
}
