// Package swengine provides a software reference implementation of the
// decode engine ports. It performs real Annex B parsing and SPS geometry
// discovery, but no entropy decoding: decoded pictures come out as
// neutral gray NV12 surfaces at the configured target geometry. That
// makes it suitable for driving the codec control logic in tests, tools
// and development environments without decode hardware.
package swengine

import (
	"errors"
	"fmt"

	"github.com/user/framepipe/pkg/adapters/logger"
	"github.com/user/framepipe/pkg/ports"
)

// ErrDestroyed is returned when a session or instance is used after
// Destroy.
var ErrDestroyed = errors.New("swengine: destroyed")

// framePitchAlign mirrors the pitch alignment hardware engines apply to
// mapped surfaces, so converter code exercises the pitch path.
const framePitchAlign = 64

// Engine is the software decode engine.
type Engine struct {
	logger ports.Logger
}

// New creates a software engine. A nil log discards output.
func New(log ports.Logger) *Engine {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Engine{logger: log.WithComponent("swengine")}
}

// Initialize is a no-op; the software engine has no device context.
func (e *Engine) Initialize() error { return nil }

// CreateDecoder creates a decoder instance bound to the given geometry.
func (e *Engine) CreateDecoder(cfg ports.DecoderConfig) (ports.DecoderInstance, error) {
	if cfg.Codec != ports.CodecH264 {
		return nil, fmt.Errorf("swengine: unsupported codec %d", cfg.Codec)
	}
	if cfg.Chroma != ports.Chroma420 {
		return nil, fmt.Errorf("swengine: unsupported chroma format %d", cfg.Chroma)
	}
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 || cfg.TargetWidth <= 0 || cfg.TargetHeight <= 0 {
		return nil, fmt.Errorf("swengine: invalid geometry %dx%d -> %dx%d",
			cfg.InputWidth, cfg.InputHeight, cfg.TargetWidth, cfg.TargetHeight)
	}
	if cfg.DecodeSurfaces < 1 || cfg.OutputSurfaces < 1 {
		return nil, fmt.Errorf("swengine: need at least one decode and output surface")
	}
	return &Instance{cfg: cfg}, nil
}

// CreateParser creates a parsing session bound to the two handlers.
func (e *Engine) CreateParser(cfg ports.ParserConfig, seq ports.SequenceHandler, pic ports.PictureHandler) (ports.ParserSession, error) {
	if cfg.Codec != ports.CodecH264 {
		return nil, fmt.Errorf("swengine: unsupported codec %d", cfg.Codec)
	}
	if seq == nil || pic == nil {
		return nil, fmt.Errorf("swengine: both handlers are required")
	}
	return &Parser{cfg: cfg, seq: seq, pic: pic, logger: e.logger}, nil
}

var _ ports.DecodeEngine = (*Engine)(nil)

// Instance is a software decoder instance. It tracks decode state and
// produces neutral surfaces on MapFrame.
type Instance struct {
	cfg       ports.DecoderConfig
	frame     []byte
	decoded   bool
	mapped    bool
	destroyed bool
}

// DecodePicture records the picture as decoded into the single surface.
func (i *Instance) DecodePicture(info ports.PictureInfo) error {
	if i.destroyed {
		return ErrDestroyed
	}
	if info.WidthInMBs <= 0 || info.HeightInMBs <= 0 {
		return fmt.Errorf("swengine: invalid picture size %dx%d MBs", info.WidthInMBs, info.HeightInMBs)
	}
	if info.Surface < 0 || info.Surface >= i.cfg.DecodeSurfaces {
		return fmt.Errorf("swengine: surface %d out of range", info.Surface)
	}
	i.decoded = true
	return nil
}

// MapFrame maps the decoded surface as target-sized NV12.
func (i *Instance) MapFrame(surface int) (ports.FrameView, error) {
	if i.destroyed {
		return ports.FrameView{}, ErrDestroyed
	}
	if surface < 0 || surface >= i.cfg.OutputSurfaces {
		return ports.FrameView{}, fmt.Errorf("swengine: surface %d out of range", surface)
	}
	if !i.decoded {
		return ports.FrameView{}, fmt.Errorf("swengine: no decoded picture to map")
	}
	if i.mapped {
		return ports.FrameView{}, fmt.Errorf("swengine: frame already mapped")
	}

	pitch := (i.cfg.TargetWidth + framePitchAlign - 1) / framePitchAlign * framePitchAlign
	if i.frame == nil {
		// Neutral gray in NV12: mid luma, centered chroma.
		i.frame = make([]byte, pitch*i.cfg.TargetHeight*3/2)
		for p := range i.frame {
			i.frame[p] = 0x80
		}
	}
	i.mapped = true
	return ports.FrameView{Data: i.frame, Pitch: pitch}, nil
}

// UnmapFrame releases the mapped view.
func (i *Instance) UnmapFrame(view ports.FrameView) error {
	if i.destroyed {
		return ErrDestroyed
	}
	if !i.mapped {
		return fmt.Errorf("swengine: frame is not mapped")
	}
	i.mapped = false
	return nil
}

// Destroy releases the instance.
func (i *Instance) Destroy() error {
	if i.destroyed {
		return ErrDestroyed
	}
	i.destroyed = true
	i.frame = nil
	return nil
}

var _ ports.DecoderInstance = (*Instance)(nil)
