package ports

// PixelConverter reorganizes a mapped NV12 frame into packed RGB in a
// device buffer. Conversion and the subsequent host copy share the
// converter's stream, so a single Sync covers both.
type PixelConverter interface {
	// Submit queues conversion of src into dst at the given target
	// geometry. dst must hold at least width*height*3 bytes.
	Submit(src FrameView, width, height int, dst DeviceBuffer) error

	// Stream returns the stream conversion work is queued on.
	Stream() CopyStream

	// Sync blocks until all queued work on the converter's stream is done.
	Sync() error

	// Destroy releases converter resources.
	Destroy() error
}

// ConverterFactory lazily constructs a PixelConverter. The codec calls it
// once, on the first decoded frame that reaches the output stage.
type ConverterFactory func() (PixelConverter, error)
