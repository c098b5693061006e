// Package errors provides the error taxonomy of the calling convention.
// All error types support error unwrapping via errors.As() and errors.Is(); each category
// also matches its sentinel (ErrEnvelope, ErrDecode, ...) through errors.Is.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/udfkit/udf-go/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// Category sentinels.
var (
	ErrEnvelope     = stdErrors.New("envelope error")
	ErrDecode       = stdErrors.New("decode error")
	ErrShape        = stdErrors.New("shape error")
	ErrTypeMismatch = stdErrors.New("type mismatch")
	ErrRange        = stdErrors.New("range error")
	ErrInvoke       = stdErrors.New("invoke error")
	ErrAllocation   = stdErrors.New("allocation error")
)

// DetailedError is implemented by error types that can convert themselves into a
// structured ErrorDetail for the diagnostic sink.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		detail := de.ToErrorDetail()
		// Keep the outer context added by fmt.Errorf wrapping.
		detail.Message = err.Error()
		return detail
	}

	return entities.NewErrorDetail("internal", err.Error())
}

// EnvelopeError reports a malformed sized envelope: a negative or unreadable length prefix,
// or a declared length that does not match the bytes actually available.
type EnvelopeError struct {
	Reason    string
	Ptr       uint32
	Declared  int64
	Available int64
}

func (e *EnvelopeError) Error() string {
	if e.Available >= 0 {
		return fmt.Sprintf("envelope at 0x%x: %s (declared %d bytes, available %d)",
			e.Ptr, e.Reason, e.Declared, e.Available)
	}
	return fmt.Sprintf("envelope at 0x%x: %s (declared %d bytes)", e.Ptr, e.Reason, e.Declared)
}

// Is reports whether target is ErrEnvelope.
func (e *EnvelopeError) Is(target error) bool { return target == ErrEnvelope }

// ToErrorDetail implements DetailedError.
func (e *EnvelopeError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("envelope", e.Error()).
		WithCode("length_prefix").
		WithDetails(map[string]any{"ptr": e.Ptr, "declared": e.Declared, "available": e.Available})
}

// DecodeError reports bytes that do not parse as exactly one wire value.
type DecodeError struct {
	Err    error
	Reason string
	Offset int
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode failed at byte %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode failed at byte %d: %s", e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ToErrorDetail implements DetailedError.
func (e *DecodeError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("decode", e.Error()).
		WithCode(fmt.Sprintf("offset_%d", e.Offset)).
		WithDetails(map[string]any{"offset": e.Offset})
}

// ShapeError reports a structured value of the wrong shape: a non-array argument list, or an
// array with the wrong number of elements.
type ShapeError struct {
	What     string // what was being read, e.g. "arguments" or "decimal"
	Actual   string // rendering of the value received
	Expected int    // expected element count, -1 when the kind itself was wrong
	Got      int
}

func (e *ShapeError) Error() string {
	if e.Expected < 0 {
		return fmt.Sprintf("%s: expected array, received %s instead", e.What, e.Actual)
	}
	return fmt.Sprintf("%s: expected array of %d elements, found %d instead", e.What, e.Expected, e.Got)
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// ToErrorDetail implements DetailedError.
func (e *ShapeError) ToErrorDetail() *entities.ErrorDetail {
	detail := entities.NewErrorDetail("shape", e.Error()).WithCode(e.What)
	if e.Expected >= 0 {
		detail.WithDetails(map[string]any{"expected": e.Expected, "got": e.Got})
	}
	return detail
}

// TypeMismatchError reports a wire value whose kind differs from the one a decode required.
type TypeMismatchError struct {
	Field    string // optional element name, e.g. "precision"
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: expected to find %s value, but received %s instead", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("expected to find %s value, but received %s instead", e.Expected, e.Actual)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// ToErrorDetail implements DetailedError.
func (e *TypeMismatchError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("type_mismatch", e.Error()).
		WithCode(e.Expected).
		WithDetails(map[string]any{"actual": e.Actual})
}

// RangeError reports a value of the right kind that does not fit the target width.
type RangeError struct {
	Field  string
	Target string
	Value  string
}

func (e *RangeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: value %s out of range for %s", e.Field, e.Value, e.Target)
	}
	return fmt.Sprintf("value %s out of range for %s", e.Value, e.Target)
}

// Is reports whether target is ErrRange.
func (e *RangeError) Is(target error) bool { return target == ErrRange }

// ToErrorDetail implements DetailedError.
func (e *RangeError) ToErrorDetail() *entities.ErrorDetail {
	code := e.Target
	if e.Field != "" {
		code = e.Field
	}
	return entities.NewErrorDetail("range", e.Error()).
		WithCode(code).
		WithDetails(map[string]any{"target": e.Target, "value": e.Value})
}

// InvokeError reports a failure raised by the business function, including recovered panics.
type InvokeError struct {
	Err   error
	Panic any
	Stack []byte
}

func (e *InvokeError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("function panicked: %v", e.Panic)
	}
	return fmt.Sprintf("function failed: %v", e.Err)
}

func (e *InvokeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvoke.
func (e *InvokeError) Is(target error) bool { return target == ErrInvoke }

// ToErrorDetail implements DetailedError.
func (e *InvokeError) ToErrorDetail() *entities.ErrorDetail {
	if e.Panic != nil {
		detail := entities.NewErrorDetail("panic", e.Error())
		detail.Stack = e.Stack
		return detail
	}
	detail := entities.NewErrorDetail("invoke", e.Error())
	var de DetailedError
	if stdErrors.As(e.Err, &de) {
		detail.Wrapped = de.ToErrorDetail()
	}
	return detail
}

// AllocationError reports an allocation the bridge refused or could not satisfy.
type AllocationError struct {
	Reason    string
	Requested uint64
	Current   int
	Limit     int
}

func (e *AllocationError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("allocation of %d bytes failed: %s (current: %d bytes, limit: %d bytes)",
			e.Requested, e.Reason, e.Current, e.Limit)
	}
	return fmt.Sprintf("allocation of %d bytes failed: %s", e.Requested, e.Reason)
}

// Is reports whether target is ErrAllocation.
func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// ToErrorDetail implements DetailedError.
func (e *AllocationError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("allocation", e.Error()).
		WithDetails(map[string]any{"requested": e.Requested, "current": e.Current, "limit": e.Limit})
}
