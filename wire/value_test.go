package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt_Conversions(t *testing.T) {
	i, ok := IntOf(-7).Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(-7), i)

	_, ok = IntOf(-7).Uint64()
	assert.False(t, ok)

	u, ok := IntOf(7).Uint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), u)

	_, ok = UintOf(math.MaxInt64 + 1).Int64()
	assert.False(t, ok)

	assert.True(t, IntOf(-1).IsNegative())
	assert.False(t, UintOf(0).IsNegative())
	assert.Equal(t, IntOf(0), Int{})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{nil, "Nil"},
		{Nil{}, "Nil"},
		{Bool(true), "Bool(true)"},
		{IntOf(-5), "Int(-5)"},
		{UintOf(math.MaxUint64), "Int(18446744073709551615)"},
		{F32(1.5), "F32(1.5)"},
		{F64(1.5), "F64(1.5)"},
		{String("a\"b"), `String("a\"b")`},
		{Binary{1, 2}, "Binary(2 bytes)"},
		{Array{IntOf(2), IntOf(3)}, "Array[Int(2), Int(3)]"},
		{Map{{Key: String("k"), Val: Nil{}}}, `Map{String("k"): Nil}`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.value))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, Nil{}))
	assert.True(t, Equal(Binary(nil), Binary{}))
	assert.True(t, Equal(F64(math.NaN()), F64(math.NaN())))
	assert.False(t, Equal(F32(1.5), F64(1.5)))
	assert.False(t, Equal(Array{IntOf(1)}, Array{IntOf(1), IntOf(2)}))
	assert.False(t, Equal(Map{{Key: String("a"), Val: IntOf(1)}}, Map{{Key: String("a"), Val: IntOf(2)}}))
	assert.True(t, Equal(Array{Array{String("x")}}, Array{Array{String("x")}}))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "f32", KindF32.String())
	assert.Equal(t, "integer", KindInt.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
