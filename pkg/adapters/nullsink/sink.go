// Package nullsink provides a no-op frame sink implementation.
// It discards decoded frames, which is useful for decode-only timing
// runs and tests.
package nullsink

import (
	"github.com/user/framepipe/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(index int, timestampMs int, rgb []byte, width, height int) error {
	return nil
}

var _ ports.FrameSink = (*Sink)(nil)
