package ports

// FrameSink receives decoded RGB frames.
type FrameSink interface {
	// SaveFrame stores one packed 24-bit RGB frame.
	SaveFrame(index int, timestampMs int, rgb []byte, width, height int) error
}
