// Package mocks provides mock implementations of the ports interfaces
// for testing.
package mocks

import (
	"github.com/user/framepipe/pkg/ports"
)

// DecodeEngine is a mock implementation of ports.DecodeEngine.
type DecodeEngine struct {
	InitializeFunc    func() error
	CreateDecoderFunc func(cfg ports.DecoderConfig) (ports.DecoderInstance, error)
	CreateParserFunc  func(cfg ports.ParserConfig, seq ports.SequenceHandler, pic ports.PictureHandler) (ports.ParserSession, error)

	// Recorded calls for verification
	InitializeCalled   bool
	CreateDecoderCalls []ports.DecoderConfig
	CreateParserCalls  []ports.ParserConfig
}

func (m *DecodeEngine) Initialize() error {
	m.InitializeCalled = true
	if m.InitializeFunc != nil {
		return m.InitializeFunc()
	}
	return nil
}

func (m *DecodeEngine) CreateDecoder(cfg ports.DecoderConfig) (ports.DecoderInstance, error) {
	m.CreateDecoderCalls = append(m.CreateDecoderCalls, cfg)
	if m.CreateDecoderFunc != nil {
		return m.CreateDecoderFunc(cfg)
	}
	return &DecoderInstance{}, nil
}

func (m *DecodeEngine) CreateParser(cfg ports.ParserConfig, seq ports.SequenceHandler, pic ports.PictureHandler) (ports.ParserSession, error) {
	m.CreateParserCalls = append(m.CreateParserCalls, cfg)
	if m.CreateParserFunc != nil {
		return m.CreateParserFunc(cfg, seq, pic)
	}
	return &ParserSession{}, nil
}

var _ ports.DecodeEngine = (*DecodeEngine)(nil)

// DecoderInstance is a mock implementation of ports.DecoderInstance.
type DecoderInstance struct {
	DecodePictureFunc func(info ports.PictureInfo) error
	MapFrameFunc      func(surface int) (ports.FrameView, error)
	UnmapFrameFunc    func(view ports.FrameView) error
	DestroyFunc       func() error

	// Recorded calls for verification
	DecodePictureCalls []ports.PictureInfo
	MapFrameCalls      int
	UnmapFrameCalls    int
	Destroyed          bool
}

func (m *DecoderInstance) DecodePicture(info ports.PictureInfo) error {
	m.DecodePictureCalls = append(m.DecodePictureCalls, info)
	if m.DecodePictureFunc != nil {
		return m.DecodePictureFunc(info)
	}
	return nil
}

func (m *DecoderInstance) MapFrame(surface int) (ports.FrameView, error) {
	m.MapFrameCalls++
	if m.MapFrameFunc != nil {
		return m.MapFrameFunc(surface)
	}
	return ports.FrameView{}, nil
}

func (m *DecoderInstance) UnmapFrame(view ports.FrameView) error {
	m.UnmapFrameCalls++
	if m.UnmapFrameFunc != nil {
		return m.UnmapFrameFunc(view)
	}
	return nil
}

func (m *DecoderInstance) Destroy() error {
	m.Destroyed = true
	if m.DestroyFunc != nil {
		return m.DestroyFunc()
	}
	return nil
}

var _ ports.DecoderInstance = (*DecoderInstance)(nil)

// ParserSession is a mock implementation of ports.ParserSession.
type ParserSession struct {
	ParseFunc   func(packet []byte) error
	DestroyFunc func() error

	// Recorded calls for verification
	ParseCalls int
	Destroyed  bool
}

func (m *ParserSession) Parse(packet []byte) error {
	m.ParseCalls++
	if m.ParseFunc != nil {
		return m.ParseFunc(packet)
	}
	return nil
}

func (m *ParserSession) Destroy() error {
	m.Destroyed = true
	if m.DestroyFunc != nil {
		return m.DestroyFunc()
	}
	return nil
}

var _ ports.ParserSession = (*ParserSession)(nil)
