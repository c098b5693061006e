package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero/api"
)

// guestMemory implements abi.Memory over a module instance: allocation and release go through
// the guest's own exports so the guest allocator stays the single owner of its heap.
type guestMemory struct {
	ctx      context.Context
	mod      api.Module
	allocate api.Function
	release  api.Function
	logger   *slog.Logger
}

func (g *guestMemory) Allocate(size uint32) (uint32, error) {
	results, err := g.allocate.Call(g.ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("guest allocate(%d): %w", size, err)
	}
	return uint32(results[0]), nil
}

func (g *guestMemory) Release(ptr, capacity uint32) {
	if _, err := g.release.Call(g.ctx, uint64(ptr), uint64(capacity)); err != nil {
		g.logger.Warn("guest release failed", "ptr", ptr, "capacity", capacity, "error", err)
	}
}

func (g *guestMemory) Read(ptr, length uint32) ([]byte, bool) {
	return g.mod.Memory().Read(ptr, length)
}

func (g *guestMemory) Write(ptr uint32, data []byte) bool {
	return g.mod.Memory().Write(ptr, data)
}
