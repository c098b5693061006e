package udf

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	udferrors "github.com/udfkit/udf-go/domain/errors"
	"github.com/udfkit/udf-go/internal/abi"
	"github.com/udfkit/udf-go/wire"
)

// Memory is the linear memory a call reads its input from and writes its output to.
type Memory = abi.Memory

// Func is a business function over decoded wire values.
type Func func(args []wire.Value) (wire.Value, error)

// Adapter runs the read → invoke → write pipeline for one memory. Calls are synchronous and
// share no state beyond the memory itself.
type Adapter struct {
	mem    Memory
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the diagnostic sink failures are written to. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// NewAdapter creates an Adapter over mem.
func NewAdapter(mem Memory, opts ...Option) *Adapter {
	a := &Adapter{mem: mem}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Call decodes the argument envelope at inputPtr, invokes fn, and returns the pointer of a new
// envelope holding the result. The input buffer belongs to the host and is never freed here;
// the output buffer becomes the host's once returned. Any failure short-circuits the remaining
// stages, is logged, and is returned.
func (a *Adapter) Call(inputPtr uint32, fn Func) (uint32, error) {
	args, err := ReadInput(a.mem, inputPtr)
	if err != nil {
		return 0, a.fail("read", err)
	}

	result, err := invoke(fn, args)
	if err != nil {
		return 0, a.fail("invoke", err)
	}

	outPtr, err := WriteOutput(a.mem, result)
	if err != nil {
		return 0, a.fail("write", err)
	}
	return outPtr, nil
}

// Wrap turns fn into the shape of a wasm export: a failed call returns the null pointer, which
// the host must treat as call failure.
func (a *Adapter) Wrap(fn Func) func(uint32) uint32 {
	return func(inputPtr uint32) uint32 {
		outPtr, err := a.Call(inputPtr, fn)
		if err != nil {
			return 0
		}
		return outPtr
	}
}

func (a *Adapter) fail(stage string, err error) error {
	err = fmt.Errorf("%s stage: %w", stage, err)
	detail := udferrors.ToErrorDetail(err)
	attrs := []any{
		"stage", stage,
		"type", detail.Type,
		"code", detail.Code,
	}
	if cause := detail.Wrapped; cause != nil {
		attrs = append(attrs, "cause_type", cause.Type, "cause_code", cause.Code)
	}
	attrs = append(attrs, "error", detail.Message)
	a.logger.Error("udf call failed", attrs...)
	return err
}

// ReadInput decodes the argument list from the envelope at ptr. The envelope is only borrowed:
// decoded values are copies and the memory is left for the host to free.
func ReadInput(mem Memory, ptr uint32) ([]wire.Value, error) {
	view, err := abi.ReadEnvelope(mem, ptr)
	if err != nil {
		return nil, err
	}
	v, err := wire.Decode(view.Bytes())
	if err != nil {
		return nil, err
	}
	args, ok := v.(wire.Array)
	if !ok {
		return nil, &udferrors.ShapeError{What: "arguments", Expected: -1, Actual: wire.Format(v)}
	}
	return args, nil
}

// WriteOutput encodes v into a freshly allocated envelope and hands it over: the returned
// pointer is owned by the caller of the export, who must release it with the envelope's full
// size (4 + payload length).
func WriteOutput(mem Memory, v wire.Value) (uint32, error) {
	payload, err := wire.Encode(v)
	if err != nil {
		return 0, err
	}
	out, err := abi.WriteEnvelope(mem, payload)
	if err != nil {
		return 0, err
	}
	buf, err := out.Transfer()
	if err != nil {
		return 0, err
	}
	return buf.Ptr, nil
}

func invoke(fn Func, args []wire.Value) (result wire.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &udferrors.InvokeError{Panic: r, Stack: debug.Stack()}
		}
	}()

	result, err = fn(args)
	if err != nil {
		return nil, &udferrors.InvokeError{Err: err}
	}
	return result, nil
}

// Buffer is a (pointer, length, capacity) triple in linear memory.
type Buffer = abi.Buffer
