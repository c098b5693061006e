package udf

import (
	"fmt"

	udferrors "github.com/udfkit/udf-go/domain/errors"
	"github.com/udfkit/udf-go/wire"
)

// CheckArity fails with a shape error unless args holds exactly n values.
func CheckArity(args []wire.Value, n int) error {
	if len(args) != n {
		return &udferrors.ShapeError{What: "arguments", Expected: n, Got: len(args)}
	}
	return nil
}

// Lift1 builds a Func from a typed one-argument function.
func Lift1[A, R any](
	decodeA func(wire.Value) (A, error),
	encode func(R) wire.Value,
	f func(A) (R, error),
) Func {
	return func(args []wire.Value) (wire.Value, error) {
		if err := CheckArity(args, 1); err != nil {
			return nil, err
		}
		a, err := decodeA(args[0])
		if err != nil {
			return nil, fmt.Errorf("argument 0: %w", err)
		}
		r, err := f(a)
		if err != nil {
			return nil, err
		}
		return encode(r), nil
	}
}

// Lift2 builds a Func from a typed two-argument function.
func Lift2[A, B, R any](
	decodeA func(wire.Value) (A, error),
	decodeB func(wire.Value) (B, error),
	encode func(R) wire.Value,
	f func(A, B) (R, error),
) Func {
	return func(args []wire.Value) (wire.Value, error) {
		if err := CheckArity(args, 2); err != nil {
			return nil, err
		}
		a, err := decodeA(args[0])
		if err != nil {
			return nil, fmt.Errorf("argument 0: %w", err)
		}
		b, err := decodeB(args[1])
		if err != nil {
			return nil, fmt.Errorf("argument 1: %w", err)
		}
		r, err := f(a, b)
		if err != nil {
			return nil, err
		}
		return encode(r), nil
	}
}
