package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/udfkit/udf-go/internal/abi"
	"github.com/udfkit/udf-go/wire"
)

// Module is an instantiated guest. Calls are serialized: a wasm instance has one stack.
type Module struct {
	mu       sync.Mutex
	mod      api.Module
	compiled wazero.CompiledModule
	diag     *DiagnosticWriter
	logger   *slog.Logger
	allocate api.Function
	release  api.Function
}

// Has reports whether the module exports a function named export.
func (m *Module) Has(export string) bool {
	return m.mod.ExportedFunction(export) != nil
}

// Exports lists the module's exported functions in name order.
func (m *Module) Exports() []string {
	names := make([]string, 0, len(m.compiled.ExportedFunctions()))
	for name := range m.compiled.ExportedFunctions() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Diagnostics returns the writer receiving the module's stderr.
func (m *Module) Diagnostics() *DiagnosticWriter {
	return m.diag
}

// Close releases the module instance.
func (m *Module) Close(ctx context.Context) error {
	err := m.mod.Close(ctx)
	return errors.Join(err, m.compiled.Close(ctx))
}

// Call invokes export with args as the argument list and returns the decoded result. The host
// owns the input envelope for the whole call and releases it afterwards; the output envelope
// is copied out and released with its full size.
func (m *Module) Call(ctx context.Context, export string, args ...wire.Value) (wire.Value, error) {
	payload, err := wire.Encode(wire.Array(args))
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}
	out, err := m.CallRaw(ctx, export, payload)
	if err != nil {
		return nil, err
	}
	v, err := wire.Decode(out)
	if err != nil {
		return nil, &CallError{Export: export, Err: err}
	}
	return v, nil
}

// CallRaw is Call with the argument array and the result already in wire form.
func (m *Module) CallRaw(ctx context.Context, export string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn := m.mod.ExportedFunction(export)
	if fn == nil {
		return nil, &CallError{Export: export, Err: ErrMissingExport}
	}

	mem := &guestMemory{ctx: ctx, mod: m.mod, allocate: m.allocate, release: m.release, logger: m.logger}
	in, err := abi.WriteEnvelope(mem, payload)
	if err != nil {
		return nil, &CallError{Export: export, Err: err}
	}
	defer func() {
		if err := in.Release(); err != nil {
			m.logger.Warn("failed to release input envelope", "export", export, "error", err)
		}
	}()

	m.diag.Reset()
	results, err := fn.Call(ctx, uint64(in.Buffer().Ptr))
	m.diag.Flush()
	if err != nil {
		return nil, m.callError(export, err)
	}
	if len(results) != 1 {
		return nil, m.callError(export, fmt.Errorf("%w: expected one result, got %d", ErrExportSignature, len(results)))
	}

	outPtr := uint32(results[0])
	if outPtr == 0 {
		return nil, m.callError(export, ErrNullResult)
	}

	view, err := abi.ReadEnvelope(mem, outPtr)
	if err != nil {
		return nil, m.callError(export, err)
	}
	// Copy before release: the guest may reuse the buffer and memory may grow on the next call.
	out := bytes.Clone(view.Bytes())
	if err := abi.Adopt(mem, view.Buffer()).Release(); err != nil {
		return nil, m.callError(export, err)
	}
	return out, nil
}

func (m *Module) callError(export string, err error) *CallError {
	ce := &CallError{Export: export, Err: err}
	if rec, ok := m.diag.Last(); ok {
		ce.Diagnostic = summarize(rec)
	}
	return ce
}
