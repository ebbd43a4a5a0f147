// Package hostmem implements the device-memory ports on host memory.
// It backs the pure-Go engines; a hardware engine would supply its own
// allocator over real device memory.
package hostmem

import (
	"errors"
	"fmt"

	"github.com/user/framepipe/pkg/ports"
)

// ErrFreed is returned when a buffer is used after Free.
var ErrFreed = errors.New("hostmem: buffer already freed")

// Allocator allocates host-backed device buffers.
type Allocator struct{}

// New creates a new host-memory allocator.
func New() *Allocator {
	return &Allocator{}
}

// Alloc allocates a buffer of n bytes.
func (a *Allocator) Alloc(n int) (ports.DeviceBuffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("hostmem: invalid allocation size %d", n)
	}
	return &Buffer{data: make([]byte, n)}, nil
}

var _ ports.DeviceAllocator = (*Allocator)(nil)

// Buffer is a host-backed device buffer.
type Buffer struct {
	data []byte
}

// Size returns the buffer capacity in bytes.
func (b *Buffer) Size() int { return len(b.data) }

// Bytes exposes the backing storage.
func (b *Buffer) Bytes() []byte { return b.data }

// CopyToHost copies the first n bytes into dst. Host memory needs no
// real stream ordering, but the stream argument is still validated so
// misuse shows up in tests rather than on hardware.
func (b *Buffer) CopyToHost(dst []byte, n int, stream ports.CopyStream) error {
	if b.data == nil {
		return ErrFreed
	}
	if n > len(b.data) {
		return fmt.Errorf("hostmem: copy of %d bytes exceeds buffer size %d", n, len(b.data))
	}
	if n > len(dst) {
		return fmt.Errorf("hostmem: copy of %d bytes exceeds destination size %d", n, len(dst))
	}
	copy(dst[:n], b.data[:n])
	return nil
}

// Free releases the buffer. Double free is an error.
func (b *Buffer) Free() error {
	if b.data == nil {
		return ErrFreed
	}
	b.data = nil
	return nil
}

var _ ports.DeviceBuffer = (*Buffer)(nil)

// Stream is the no-op stream token host copies are ordered on.
type Stream struct{}
