// Package udftest provides a test harness for udf business functions. It plays the host's part
// of the calling convention against an in-process linear memory, so the full read → invoke →
// write pipeline runs without a wasm toolchain.
package udftest

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	udf "github.com/udfkit/udf-go"
	"github.com/udfkit/udf-go/internal/abi"
	udflog "github.com/udfkit/udf-go/log"
	"github.com/udfkit/udf-go/wire"
)

// DefaultMemorySize is the size of the harness's linear memory.
const DefaultMemorySize = 1 << 20

// Harness owns a linear memory and an Adapter bound to it.
type Harness struct {
	mem     *abi.SliceMemory
	adapter *udf.Adapter
	logs    bytes.Buffer
}

// New creates a harness with a memory of size bytes (DefaultMemorySize when zero).
func New(size uint32) *Harness {
	if size == 0 {
		size = DefaultMemorySize
	}
	h := &Harness{mem: abi.NewSliceMemory(size)}
	logger := slog.New(udflog.NewHandler(udflog.WithWriter(&h.logs)))
	h.adapter = udf.NewAdapter(h.mem, udf.WithLogger(logger))
	return h
}

// Memory returns the harness's linear memory.
func (h *Harness) Memory() udf.Memory {
	return h.mem
}

// Adapter returns the adapter under test.
func (h *Harness) Adapter() *udf.Adapter {
	return h.adapter
}

// Diagnostics returns everything the adapter logged, one JSON record per line.
func (h *Harness) Diagnostics() string {
	return h.logs.String()
}

// Live returns the number of buffers allocated and not yet released.
func (h *Harness) Live() int {
	return h.mem.Live()
}

// Releases returns every release performed so far, in order.
func (h *Harness) Releases() []udf.Buffer {
	return h.mem.Releases()
}

// WriteInput does what a host does before a call: it allocates an envelope in guest memory and
// fills it with the argument array.
func (h *Harness) WriteInput(args ...wire.Value) (udf.Buffer, error) {
	payload, err := wire.Encode(wire.Array(args))
	if err != nil {
		return udf.Buffer{}, err
	}
	return h.WriteRaw(payload)
}

// WriteRaw places an arbitrary payload in a correctly sized envelope.
func (h *Harness) WriteRaw(payload []byte) (udf.Buffer, error) {
	framed, err := abi.EncodeEnvelope(payload)
	if err != nil {
		return udf.Buffer{}, err
	}
	return h.WriteBytes(framed)
}

// WriteBytes places b in guest memory verbatim, length prefix included.
func (h *Harness) WriteBytes(b []byte) (udf.Buffer, error) {
	in, err := abi.Allocate(h.mem, uint32(len(b)))
	if err != nil {
		return udf.Buffer{}, err
	}
	if err := in.Write(0, b); err != nil {
		return udf.Buffer{}, err
	}
	return in.Transfer()
}

// ReadOutput takes ownership of the output envelope at ptr, decodes it and releases it.
func (h *Harness) ReadOutput(ptr uint32) (wire.Value, error) {
	view, err := abi.ReadEnvelope(h.mem, ptr)
	if err != nil {
		return nil, err
	}
	v, err := wire.Decode(view.Bytes())
	if releaseErr := abi.Adopt(h.mem, view.Buffer()).Release(); releaseErr != nil && err == nil {
		err = releaseErr
	}
	return v, err
}

// Release frees a buffer the harness wrote, as the host does once a call returns.
func (h *Harness) Release(buf udf.Buffer) {
	h.mem.Release(buf.Ptr, buf.Cap)
}

// Invoke runs one complete call of fn with args and returns the decoded result.
func (h *Harness) Invoke(fn udf.Func, args ...wire.Value) (wire.Value, error) {
	in, err := h.WriteInput(args...)
	if err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}
	defer h.Release(in)

	outPtr, err := h.adapter.Call(in.Ptr, fn)
	if err != nil {
		return nil, err
	}
	return h.ReadOutput(outPtr)
}

// TestCase defines one call of a function under test.
type TestCase struct {
	Name    string
	Args    []wire.Value
	Want    wire.Value
	WantErr error // matched with errors.Is when set
}

// Run invokes fn for each case on a fresh harness and checks results and buffer hygiene.
func Run(t *testing.T, fn udf.Func, cases []TestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			h := New(0)
			got, err := h.Invoke(fn, tc.Args...)

			if tc.WantErr != nil {
				AssertErrorIs(t, err, tc.WantErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v\ndiagnostics:\n%s", err, h.Diagnostics())
			} else {
				AssertValue(t, tc.Want, got)
			}

			if live := h.Live(); live != 0 {
				t.Errorf("%d buffers leaked after the call", live)
			}
		})
	}
}
