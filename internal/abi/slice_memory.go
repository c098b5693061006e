package abi

import (
	udferrors "github.com/udfkit/udf-go/domain/errors"
)

// reservedPrefix keeps address 0 out of the allocatable range so it can mean "null".
const reservedPrefix = 8

// SliceMemory is an in-process Memory backed by a Go byte slice with a bump allocator.
// It records every release so tests can assert who freed what. Not safe for concurrent use.
type SliceMemory struct {
	data     []byte
	next     uint32
	live     map[uint32]uint32
	releases []Buffer
}

// NewSliceMemory returns a memory of size bytes.
func NewSliceMemory(size uint32) *SliceMemory {
	return &SliceMemory{
		data: make([]byte, size),
		next: reservedPrefix,
		live: make(map[uint32]uint32),
	}
}

// Allocate implements Memory. Allocations are 8-byte aligned and never reused.
func (m *SliceMemory) Allocate(size uint32) (uint32, error) {
	if size == 0 {
		return 0, nil
	}
	ptr := (m.next + 7) &^ 7
	end := uint64(ptr) + uint64(size)
	if end > uint64(len(m.data)) {
		return 0, &udferrors.AllocationError{
			Requested: uint64(size),
			Reason:    "out of linear memory",
			Current:   int(m.next),
			Limit:     len(m.data),
		}
	}
	m.next = uint32(end)
	m.live[ptr] = size
	return ptr, nil
}

// Release implements Memory.
func (m *SliceMemory) Release(ptr, capacity uint32) {
	m.releases = append(m.releases, Buffer{Ptr: ptr, Len: capacity, Cap: capacity})
	delete(m.live, ptr)
}

// Read implements Memory.
func (m *SliceMemory) Read(ptr, length uint32) ([]byte, bool) {
	end := uint64(ptr) + uint64(length)
	if end > uint64(len(m.data)) {
		return nil, false
	}
	return m.data[ptr:end:end], true
}

// Write implements Memory.
func (m *SliceMemory) Write(ptr uint32, data []byte) bool {
	end := uint64(ptr) + uint64(len(data))
	if end > uint64(len(m.data)) {
		return false
	}
	copy(m.data[ptr:end], data)
	return true
}

// Extent implements Extent for live allocations.
func (m *SliceMemory) Extent(ptr uint32) (uint32, bool) {
	size, ok := m.live[ptr]
	return size, ok
}

// Live returns the number of allocations not yet released.
func (m *SliceMemory) Live() int {
	return len(m.live)
}

// Releases returns every Release call observed, in order.
func (m *SliceMemory) Releases() []Buffer {
	return append([]Buffer(nil), m.releases...)
}
