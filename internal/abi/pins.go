package abi

import (
	"sync"

	udferrors "github.com/udfkit/udf-go/domain/errors"
)

// DefaultMaxTotalAllocations caps how much memory the bridge keeps pinned for the host.
const DefaultMaxTotalAllocations = 100 * 1024 * 1024 // 100 MB

// pinTable keeps host-visible buffers reachable so the Go GC neither collects nor moves them
// while the host holds their raw pointer. It is the allocate/release bridge's only state.
type pinTable struct {
	mu    sync.Mutex
	bufs  map[uint32][]byte
	total int
	limit int
	addr  func([]byte) uint32
}

func newPinTable(limit int, addr func([]byte) uint32) *pinTable {
	return &pinTable{
		bufs:  make(map[uint32][]byte),
		limit: limit,
		addr:  addr,
	}
}

// allocate pins a fresh size-byte buffer and returns its address. A zero size yields 0.
func (p *pinTable) allocate(size uint32) (uint32, error) {
	if size == 0 {
		return 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total+int(size) > p.limit {
		return 0, &udferrors.AllocationError{
			Requested: uint64(size),
			Reason:    "memory allocation limit exceeded",
			Current:   p.total,
			Limit:     p.limit,
		}
	}

	buf := make([]byte, size)
	ptr := p.addr(buf)
	p.bufs[ptr] = buf
	p.total += int(size)
	return ptr, nil
}

// release unpins the buffer at ptr. capacity is trusted: it must be the size given to allocate,
// and it is what the accounting subtracts. Pointers that were never pinned are ignored.
func (p *pinTable) release(ptr, capacity uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.bufs[ptr]; !ok {
		return
	}
	delete(p.bufs, ptr)
	p.total -= int(capacity)
	if p.total < 0 {
		p.total = 0
	}
}

// extent returns the pinned size of the allocation starting at ptr.
func (p *pinTable) extent(ptr uint32) (uint32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	buf, ok := p.bufs[ptr]
	if !ok {
		return 0, false
	}
	return uint32(len(buf)), true
}

func (p *pinTable) setLimit(limit int) {
	if limit <= 0 {
		return
	}
	p.mu.Lock()
	p.limit = limit
	p.mu.Unlock()
}

func (p *pinTable) stats() (count, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bufs), p.total
}

func (p *pinTable) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.bufs)
	p.total = 0
}
