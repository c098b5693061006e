package host_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/udfkit/udf-go/host"
	"github.com/udfkit/udf-go/wire"
)

type ModuleSuite struct {
	suite.Suite
	ctx      context.Context
	executor *host.Executor
	module   *host.Module
	logs     bytes.Buffer
}

func (s *ModuleSuite) SetupTest() {
	s.ctx = context.Background()
	s.logs.Reset()

	logger := slog.New(slog.NewTextHandler(&s.logs, nil))
	e, err := host.NewExecutor(s.ctx, host.WithLogger(logger), host.WithMemoryLimitPages(16))
	s.Require().NoError(err)
	s.executor = e

	m, err := e.LoadModule(s.ctx, echoModule)
	s.Require().NoError(err)
	s.module = m
}

func (s *ModuleSuite) TearDownTest() {
	s.NoError(s.module.Close(s.ctx))
	s.NoError(s.executor.Close(s.ctx))
}

func (s *ModuleSuite) TestCallRoundTripsArguments() {
	got, err := s.module.Call(s.ctx, "echo", wire.IntOf(2), wire.IntOf(3))
	s.Require().NoError(err)
	s.True(wire.Equal(wire.Array{wire.IntOf(2), wire.IntOf(3)}, got), "got %s", wire.Format(got))
}

func (s *ModuleSuite) TestRepeatedCalls() {
	for i := int64(0); i < 50; i++ {
		got, err := s.module.Call(s.ctx, "echo", wire.IntOf(i), wire.String("x"))
		s.Require().NoError(err)
		s.True(wire.Equal(wire.Array{wire.IntOf(i), wire.String("x")}, got))
	}
}

func (s *ModuleSuite) TestCallRaw() {
	payload, err := wire.Encode(wire.Array{wire.Bool(true)})
	s.Require().NoError(err)

	out, err := s.module.CallRaw(s.ctx, "echo", payload)
	s.Require().NoError(err)
	s.Equal(payload, out)
}

func (s *ModuleSuite) TestNullResult() {
	_, err := s.module.Call(s.ctx, "fail", wire.IntOf(1))
	s.Require().Error(err)
	s.True(errors.Is(err, host.ErrNullResult))

	var ce *host.CallError
	s.Require().True(errors.As(err, &ce))
	s.Equal("fail", ce.Export)
	s.Empty(ce.Diagnostic)
}

func (s *ModuleSuite) TestMissingExport() {
	_, err := s.module.Call(s.ctx, "nope")
	s.True(errors.Is(err, host.ErrMissingExport))
}

func (s *ModuleSuite) TestHasAndExports() {
	s.True(s.module.Has("echo"))
	s.False(s.module.Has("nope"))
	s.Equal([]string{"allocate", "echo", "fail", "release"}, s.module.Exports())
}

func (s *ModuleSuite) TestLoadSameModuleTwice() {
	other, err := s.executor.LoadModule(s.ctx, echoModule)
	s.Require().NoError(err)
	defer other.Close(s.ctx)

	got, err := other.Call(s.ctx, "echo", wire.Nil{})
	s.Require().NoError(err)
	s.True(wire.Equal(wire.Array{wire.Nil{}}, got))
}

func TestModuleSuite(t *testing.T) {
	suite.Run(t, new(ModuleSuite))
}

func TestLoadModule_RequiredExports(t *testing.T) {
	ctx := context.Background()
	e, err := host.NewExecutor(ctx)
	require.NoError(t, err)
	defer e.Close(ctx)

	_, err = e.LoadModule(ctx, emptyModule)
	assert.True(t, errors.Is(err, host.ErrMissingExport), "got %v", err)

	_, err = e.LoadModule(ctx, badAllocateModule)
	assert.True(t, errors.Is(err, host.ErrExportSignature), "got %v", err)
	assert.Contains(t, err.Error(), "allocate() -> (i32)")
}

func TestLoadModule_InvalidBinary(t *testing.T) {
	ctx := context.Background()
	e, err := host.NewExecutor(ctx)
	require.NoError(t, err)
	defer e.Close(ctx)

	_, err = e.LoadModule(ctx, []byte("not wasm"))
	assert.ErrorContains(t, err, "failed to compile module")
}

func TestNewExecutor(t *testing.T) {
	ctx := context.Background()
	e, err := host.NewExecutor(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, e)
	if e != nil {
		err := e.Close(ctx)
		assert.NoError(t, err)
	}
}
