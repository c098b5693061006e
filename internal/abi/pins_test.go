package abi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	udferrors "github.com/udfkit/udf-go/domain/errors"
)

// fakeAddresses hands out increasing addresses, standing in for slice addresses on wasm32.
func fakeAddresses() func([]byte) uint32 {
	next := uint32(0x1000)
	return func(buf []byte) uint32 {
		ptr := next
		next += uint32(len(buf)) + 8
		return ptr
	}
}

func TestPinTable_AllocateRelease(t *testing.T) {
	p := newPinTable(DefaultMaxTotalAllocations, fakeAddresses())

	ptr, err := p.allocate(256)
	require.NoError(t, err)
	require.NotZero(t, ptr)

	count, total := p.stats()
	assert.Equal(t, 1, count)
	assert.Equal(t, 256, total)

	size, ok := p.extent(ptr)
	assert.True(t, ok)
	assert.Equal(t, uint32(256), size)

	p.release(ptr, 256)
	count, total = p.stats()
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, total)

	_, ok = p.extent(ptr)
	assert.False(t, ok)
}

func TestPinTable_ZeroSize(t *testing.T) {
	p := newPinTable(DefaultMaxTotalAllocations, fakeAddresses())
	ptr, err := p.allocate(0)
	require.NoError(t, err)
	assert.Zero(t, ptr)
}

func TestPinTable_ReleaseUnknownIsIgnored(t *testing.T) {
	p := newPinTable(DefaultMaxTotalAllocations, fakeAddresses())
	ptr, err := p.allocate(100)
	require.NoError(t, err)

	p.release(0xdead, 100)
	p.release(ptr, 100)
	p.release(ptr, 100)

	count, total := p.stats()
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, total)
}

func TestPinTable_Limit(t *testing.T) {
	p := newPinTable(1024, fakeAddresses())

	_, err := p.allocate(512)
	require.NoError(t, err)

	_, err = p.allocate(1024)
	require.Error(t, err)
	assert.True(t, errors.Is(err, udferrors.ErrAllocation))

	var ae *udferrors.AllocationError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 512, ae.Current)
	assert.Equal(t, 1024, ae.Limit)

	p.setLimit(0)
	p.setLimit(4096)
	_, err = p.allocate(1024)
	assert.NoError(t, err)
}

func TestPinTable_Reset(t *testing.T) {
	p := newPinTable(DefaultMaxTotalAllocations, fakeAddresses())
	_, _ = p.allocate(10)
	_, _ = p.allocate(20)

	p.reset()
	count, total := p.stats()
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, total)
}
