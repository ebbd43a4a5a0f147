package mocks

import (
	"github.com/user/framepipe/pkg/ports"
)

// DeviceAllocator is a mock implementation of ports.DeviceAllocator.
type DeviceAllocator struct {
	AllocFunc func(n int) (ports.DeviceBuffer, error)

	// Recorded calls for verification
	AllocCalls []int
	Buffers    []*DeviceBuffer
}

func (m *DeviceAllocator) Alloc(n int) (ports.DeviceBuffer, error) {
	m.AllocCalls = append(m.AllocCalls, n)
	if m.AllocFunc != nil {
		return m.AllocFunc(n)
	}
	buf := &DeviceBuffer{Data: make([]byte, n)}
	m.Buffers = append(m.Buffers, buf)
	return buf, nil
}

var _ ports.DeviceAllocator = (*DeviceAllocator)(nil)

// DeviceBuffer is a mock implementation of ports.DeviceBuffer.
type DeviceBuffer struct {
	Data []byte

	CopyToHostFunc func(dst []byte, n int, stream ports.CopyStream) error
	FreeFunc       func() error

	// Recorded calls for verification
	CopyToHostCalls int
	Freed           bool
}

func (m *DeviceBuffer) Size() int { return len(m.Data) }

func (m *DeviceBuffer) Bytes() []byte { return m.Data }

func (m *DeviceBuffer) CopyToHost(dst []byte, n int, stream ports.CopyStream) error {
	m.CopyToHostCalls++
	if m.CopyToHostFunc != nil {
		return m.CopyToHostFunc(dst, n, stream)
	}
	copy(dst, m.Data[:n])
	return nil
}

func (m *DeviceBuffer) Free() error {
	m.Freed = true
	if m.FreeFunc != nil {
		return m.FreeFunc()
	}
	return nil
}

var _ ports.DeviceBuffer = (*DeviceBuffer)(nil)
