package host

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Names of the exports every udf guest provides.
const (
	ExportAllocate   = "allocate"
	ExportRelease    = "release"
	ExportMemory     = "memory"
	exportInitialize = "_initialize"
)

// Executor owns a wazero runtime with WASI preview 1 and loads guest modules into it.
type Executor struct {
	runtime          wazero.Runtime
	logger           *slog.Logger
	memoryLimitPages uint32
	closeOnDone      bool
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(e.closeOnDone)
	if e.memoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(e.memoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}
	e.runtime = rt
	return e, nil
}

// Close releases resources held by the executor, including every loaded module.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// LoadModule compiles and instantiates a guest, checks that it exports the allocator and its
// memory, and runs its reactor initializer.
func (e *Executor) LoadModule(ctx context.Context, wasmBytes []byte, opts ...ModuleOption) (*Module, error) {
	var cfg moduleConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}
	if err := checkExports(compiled); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	logger := e.logger
	if cfg.name != "" {
		logger = logger.With("module", cfg.name)
	}
	diag := NewDiagnosticWriter(logger)

	modCfg := wazero.NewModuleConfig().
		WithName(cfg.name).
		WithStderr(diag).
		WithStartFunctions()
	mod, err := e.runtime.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	if init := mod.ExportedFunction(exportInitialize); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = mod.Close(ctx)
			_ = compiled.Close(ctx)
			return nil, fmt.Errorf("failed to call %s: %w", exportInitialize, err)
		}
	}

	return &Module{
		mod:      mod,
		compiled: compiled,
		diag:     diag,
		logger:   logger,
		allocate: mod.ExportedFunction(ExportAllocate),
		release:  mod.ExportedFunction(ExportRelease),
	}, nil
}

var (
	sigAllocate = signature{params: []api.ValueType{api.ValueTypeI32}, results: []api.ValueType{api.ValueTypeI32}}
	sigRelease  = signature{params: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}}
)

type signature struct {
	params  []api.ValueType
	results []api.ValueType
}

func (s signature) matches(def api.FunctionDefinition) bool {
	return slices.Equal(s.params, def.ParamTypes()) && slices.Equal(s.results, def.ResultTypes())
}

func checkExports(compiled wazero.CompiledModule) error {
	if _, ok := compiled.ExportedMemories()[ExportMemory]; !ok {
		return fmt.Errorf("%w: %s", ErrMissingExport, ExportMemory)
	}

	funcs := compiled.ExportedFunctions()
	for _, want := range []struct {
		name string
		sig  signature
	}{
		{ExportAllocate, sigAllocate},
		{ExportRelease, sigRelease},
	} {
		def, ok := funcs[want.name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingExport, want.name)
		}
		if !want.sig.matches(def) {
			return fmt.Errorf("%w: %s(%s) -> (%s)", ErrExportSignature, want.name,
				typeNames(def.ParamTypes()), typeNames(def.ResultTypes()))
		}
	}
	return nil
}

func typeNames(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}
