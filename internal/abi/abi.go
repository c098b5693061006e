//go:build wasip1

package abi

import (
	"log/slog"
	"unsafe"
)

var pins = newPinTable(DefaultMaxTotalAllocations, func(buf []byte) uint32 {
	// WASM linear memory: the slice address is the offset the host sees.
	//nolint:gosec // G103: Valid unsafe.Pointer use for WASM linear memory access
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
})

// Option configures the allocator bridge.
type Option func(*pinTable)

// WithMaxTotalAllocations sets the pinned-memory limit. Non-positive values are ignored.
func WithMaxTotalAllocations(limit int) Option {
	return func(p *pinTable) {
		p.setLimit(limit)
	}
}

// Configure applies options to the bridge.
func Configure(opts ...Option) {
	for _, opt := range opts {
		opt(pins)
	}
}

// allocate reserves size bytes the host may write into and returns their address, or 0 when
// the request cannot be satisfied. The memory stays pinned until release.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	ptr, err := pins.allocate(size)
	if err != nil {
		slog.Error("abi: allocate failed", "size", size, "error", err)
		return 0
	}
	return ptr
}

// release unpins a buffer produced by allocate. The host must pass the original capacity; this
// is the one place caller-supplied metadata is trusted without verification.
//
//go:wasmexport release
func release(ptr uint32, capacity uint32) {
	pins.release(ptr, capacity)
}

// Stats returns the number of pinned buffers and their total size.
func Stats() (count, total int) {
	return pins.stats()
}

// FreeAllTracked unpins everything. Intended for tests and module shutdown.
func FreeAllTracked() {
	pins.reset()
}

type linearMemory struct{}

// Linear returns the module's own linear memory.
func Linear() Memory {
	return linearMemory{}
}

func (linearMemory) Allocate(size uint32) (uint32, error) {
	return pins.allocate(size)
}

func (linearMemory) Release(ptr, capacity uint32) {
	pins.release(ptr, capacity)
}

func (linearMemory) Read(ptr, length uint32) ([]byte, bool) {
	if ptr == 0 {
		return nil, false
	}
	//nolint:gosec // G103: Valid unsafe.Pointer use for WASM linear memory access
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length), true
}

func (linearMemory) Write(ptr uint32, data []byte) bool {
	if ptr == 0 {
		return false
	}
	//nolint:gosec // G103: Valid unsafe.Pointer use for WASM linear memory access
	dest := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), len(data))
	copy(dest, data)
	return true
}

func (linearMemory) Extent(ptr uint32) (uint32, bool) {
	return pins.extent(ptr)
}
