package wire

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindF32
	KindF64
	KindString
	KindBinary
	KindArray
	KindMap
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindInt:    "integer",
	KindF32:    "f32",
	KindF64:    "f64",
	KindString: "string",
	KindBinary: "binary",
	KindArray:  "array",
	KindMap:    "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one wire value. The interface is sealed; only the types in this package implement it.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

// Nil is the MessagePack nil.
type Nil struct{}

// Bool is a boolean.
type Bool bool

// Int is an integer in the union of the int64 and uint64 ranges.
// The zero value is 0. Construct with IntOf or UintOf so that equal numbers compare equal.
type Int struct {
	bits uint64
	neg  bool // bits holds a negative int64 in two's complement
}

// F32 is a single-precision float carried with its own wire tag.
type F32 float32

// F64 is a double-precision float.
type F64 float64

// String is a MessagePack str.
type String string

// Binary is a MessagePack bin.
type Binary []byte

// Array is an ordered sequence of values.
type Array []Value

// Map is an ordered list of key/value pairs. Order is preserved on the wire.
type Map []Pair

// Pair is one map entry.
type Pair struct {
	Key Value
	Val Value
}

// IntOf returns the Int holding i.
func IntOf(i int64) Int {
	if i < 0 {
		return Int{bits: uint64(i), neg: true}
	}
	return Int{bits: uint64(i)}
}

// UintOf returns the Int holding u.
func UintOf(u uint64) Int {
	return Int{bits: u}
}

// Int64 returns the value as an int64 and whether it fits.
func (i Int) Int64() (int64, bool) {
	if i.neg {
		return int64(i.bits), true
	}
	if i.bits > math.MaxInt64 {
		return 0, false
	}
	return int64(i.bits), true
}

// Uint64 returns the value as a uint64 and whether it fits.
func (i Int) Uint64() (uint64, bool) {
	if i.neg {
		return 0, false
	}
	return i.bits, true
}

// IsNegative reports whether the integer is below zero.
func (i Int) IsNegative() bool { return i.neg }

// Text renders the integer in base 10.
func (i Int) Text() string {
	if i.neg {
		return strconv.FormatInt(int64(i.bits), 10)
	}
	return strconv.FormatUint(i.bits, 10)
}

func (Nil) Kind() Kind    { return KindNil }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (F32) Kind() Kind    { return KindF32 }
func (F64) Kind() Kind    { return KindF64 }
func (String) Kind() Kind { return KindString }
func (Binary) Kind() Kind { return KindBinary }
func (Array) Kind() Kind  { return KindArray }
func (Map) Kind() Kind    { return KindMap }

func (Nil) isValue()    {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (F32) isValue()    {}
func (F64) isValue()    {}
func (String) isValue() {}
func (Binary) isValue() {}
func (Array) isValue()  {}
func (Map) isValue()    {}

func (Nil) String() string { return "Nil" }

func (b Bool) String() string { return "Bool(" + strconv.FormatBool(bool(b)) + ")" }

func (i Int) String() string { return "Int(" + i.Text() + ")" }

func (f F32) String() string {
	return "F32(" + strconv.FormatFloat(float64(f), 'g', -1, 32) + ")"
}

func (f F64) String() string {
	return "F64(" + strconv.FormatFloat(float64(f), 'g', -1, 64) + ")"
}

func (s String) String() string { return "String(" + strconv.Quote(string(s)) + ")" }

func (b Binary) String() string { return "Binary(" + strconv.Itoa(len(b)) + " bytes)" }

func (a Array) String() string {
	var sb strings.Builder
	sb.WriteString("Array[")
	for i, v := range a {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Format(v))
	}
	sb.WriteString("]")
	return sb.String()
}

func (m Map) String() string {
	var sb strings.Builder
	sb.WriteString("Map{")
	for i, p := range m {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Format(p.Key))
		sb.WriteString(": ")
		sb.WriteString(Format(p.Val))
	}
	sb.WriteString("}")
	return sb.String()
}

// Format renders v for diagnostics. A nil interface renders as Nil.
func Format(v Value) string {
	if v == nil {
		return Nil{}.String()
	}
	return v.String()
}

// Equal reports whether a and b are the same wire value. A nil interface equals Nil, an empty
// Binary equals a nil Binary, and floats compare by bit pattern so NaN equals itself.
func Equal(a, b Value) bool {
	if a == nil {
		a = Nil{}
	}
	if b == nil {
		b = Nil{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Nil:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case F32:
		return math.Float32bits(float32(av)) == math.Float32bits(float32(b.(F32)))
	case F64:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(F64)))
	case String:
		return av == b.(String)
	case Binary:
		return bytes.Equal(av, b.(Binary))
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv := b.(Map)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i].Key, bv[i].Key) || !Equal(av[i].Val, bv[i].Val) {
				return false
			}
		}
		return true
	}
	return false
}
