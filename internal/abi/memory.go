// Package abi implements the memory side of the calling convention: the allocate/release
// bridge exported to the host, buffer ownership, and sized envelopes.
//
// Every buffer has exactly one owner. Owned is held by the side responsible for freeing a buffer
// and is consumed exactly once, either by Transfer (ownership moves across the boundary and
// nothing is freed) or by Release. View is a borrowed window onto a buffer the other side owns
// and has no way to free it.
package abi

import (
	"errors"
	"fmt"

	udferrors "github.com/udfkit/udf-go/domain/errors"
)

// ErrConsumed is returned when an Owned buffer is transferred or released a second time.
var ErrConsumed = errors.New("abi: buffer already transferred or released")

// Memory is a 32-bit linear memory together with the allocator that manages it.
// Read returns a view into the memory, not a copy; it is only valid until the next Allocate.
type Memory interface {
	Allocate(size uint32) (uint32, error)
	// Release frees a buffer produced by Allocate. capacity must be the size passed to
	// Allocate; a mismatched capacity is a contract violation and is not detected.
	Release(ptr, capacity uint32)
	Read(ptr, length uint32) ([]byte, bool)
	Write(ptr uint32, data []byte) bool
}

// Extent is implemented by memories that know the size of the allocation starting at ptr.
type Extent interface {
	Extent(ptr uint32) (capacity uint32, ok bool)
}

// Buffer is a (pointer, length, capacity) triple in linear memory.
type Buffer struct {
	Ptr uint32
	Len uint32
	Cap uint32
}

// Owned is a buffer this side must either hand over or free, exactly once.
type Owned struct {
	mem  Memory
	buf  Buffer
	done bool
}

// Allocate reserves size bytes in mem and returns the owning handle.
func Allocate(mem Memory, size uint32) (*Owned, error) {
	ptr, err := mem.Allocate(size)
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, &udferrors.AllocationError{Requested: uint64(size), Reason: "allocator returned a null pointer"}
	}
	return &Owned{mem: mem, buf: Buffer{Ptr: ptr, Len: size, Cap: size}}, nil
}

// Adopt takes ownership of a buffer the other side has transferred to us.
func Adopt(mem Memory, buf Buffer) *Owned {
	return &Owned{mem: mem, buf: buf}
}

// Buffer returns the triple this handle owns.
func (o *Owned) Buffer() Buffer {
	return o.buf
}

// Write copies data into the buffer at offset.
func (o *Owned) Write(offset uint32, data []byte) error {
	if o.done {
		return ErrConsumed
	}
	if uint64(offset)+uint64(len(data)) > uint64(o.buf.Len) {
		return fmt.Errorf("abi: write of %d bytes at offset %d overflows %d-byte buffer", len(data), offset, o.buf.Len)
	}
	if !o.mem.Write(o.buf.Ptr+offset, data) {
		return fmt.Errorf("abi: buffer at 0x%x is outside linear memory", o.buf.Ptr)
	}
	return nil
}

// Transfer relinquishes the buffer without freeing it; the other side now owns it.
func (o *Owned) Transfer() (Buffer, error) {
	if o.done {
		return Buffer{}, ErrConsumed
	}
	o.done = true
	return o.buf, nil
}

// Release frees the buffer.
func (o *Owned) Release() error {
	if o.done {
		return ErrConsumed
	}
	o.done = true
	o.mem.Release(o.buf.Ptr, o.buf.Cap)
	return nil
}

// View is a read-only window onto memory owned by the other side. It cannot free what it sees.
type View struct {
	buf  Buffer
	data []byte
}

// Borrow returns a View of length bytes at ptr.
func Borrow(mem Memory, ptr, length uint32) (View, bool) {
	data, ok := mem.Read(ptr, length)
	if !ok {
		return View{}, false
	}
	return View{buf: Buffer{Ptr: ptr, Len: length, Cap: length}, data: data}, true
}

// Bytes returns the viewed bytes. They alias linear memory; copy them to keep them.
func (v View) Bytes() []byte {
	return v.data
}

// Buffer returns the viewed region.
func (v View) Buffer() Buffer {
	return v.buf
}
