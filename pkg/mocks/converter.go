package mocks

import (
	"github.com/user/framepipe/pkg/ports"
)

// PixelConverter is a mock implementation of ports.PixelConverter.
type PixelConverter struct {
	SubmitFunc func(src ports.FrameView, width, height int, dst ports.DeviceBuffer) error
	SyncFunc   func() error

	// Recorded calls for verification
	SubmitCalls []SubmitCall
	SyncCalls   int
	Destroyed   bool
}

// SubmitCall records a call to Submit.
type SubmitCall struct {
	Width  int
	Height int
}

func (m *PixelConverter) Submit(src ports.FrameView, width, height int, dst ports.DeviceBuffer) error {
	m.SubmitCalls = append(m.SubmitCalls, SubmitCall{Width: width, Height: height})
	if m.SubmitFunc != nil {
		return m.SubmitFunc(src, width, height, dst)
	}
	return nil
}

func (m *PixelConverter) Stream() ports.CopyStream { return nil }

func (m *PixelConverter) Sync() error {
	m.SyncCalls++
	if m.SyncFunc != nil {
		return m.SyncFunc()
	}
	return nil
}

func (m *PixelConverter) Destroy() error {
	m.Destroyed = true
	return nil
}

var _ ports.PixelConverter = (*PixelConverter)(nil)
