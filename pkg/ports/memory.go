package ports

// CopyStream is an opaque ordering token for asynchronous copies. Work
// queued on the same stream completes in submission order; Sync on the
// owning converter drains it.
type CopyStream interface{}

// DeviceBuffer is a device-resident scratch buffer. Pure-Go engines back
// it with host memory; the interface still models the device-side copy
// discipline of the original pipeline.
type DeviceBuffer interface {
	// Size returns the buffer capacity in bytes.
	Size() int

	// Bytes exposes a host view of the buffer for in-process converters.
	Bytes() []byte

	// CopyToHost queues a copy of the first n bytes into dst on the
	// given stream.
	CopyToHost(dst []byte, n int, stream CopyStream) error

	// Free releases the buffer.
	Free() error
}

// DeviceAllocator allocates device-resident buffers.
type DeviceAllocator interface {
	Alloc(n int) (DeviceBuffer, error)
}
