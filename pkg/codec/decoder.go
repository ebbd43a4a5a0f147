package codec

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/framepipe/pkg/ports"
)

const (
	// MaxWidth and MaxHeight bound the supported stream geometry. Most
	// engines can go larger for H.264; exceeding these limits is warned
	// about, not rejected.
	MaxWidth  = 4096
	MaxHeight = 4096

	// maxSubmitAttempts bounds packet resubmission within one decode
	// call. Pipeline latency costs one extra submission and each
	// geometry change costs one more; a healthy stream converges within
	// two or three.
	maxSubmitAttempts = 8
)

// Options configures a Decoder. Engine, Allocator and NewConverter are
// required. A nil Logger discards all output.
type Options struct {
	Engine       ports.DecodeEngine
	Allocator    ports.DeviceAllocator
	NewConverter ports.ConverterFactory
	Logger       ports.Logger
}

// Decoder is one decode-side codec object. It owns a parser session, at
// most one decoder instance, and the RGB scratch buffer between them.
//
// A Decoder is not safe for concurrent use; callers must serialize
// access externally. Each Decode call blocks until the frame is fully
// delivered into the caller's buffer.
type Decoder struct {
	engine       ports.DecodeEngine
	alloc        ports.DeviceAllocator
	newConverter ports.ConverterFactory
	logger       ports.Logger

	instance  ports.DecoderInstance
	parser    ports.ParserSession
	converter ports.PixelConverter
	rgb       ports.DeviceBuffer

	dims SizeState

	// lastEmpty remembers that the previous submission surfaced no
	// geometry. Two in a row means the input is metadata only.
	lastEmpty bool
}

// NewDecoder creates a decode-only codec object. The engine's device
// context is initialized here, explicitly, rather than as a hidden
// construction side effect.
func NewDecoder(opts Options) (*Decoder, error) {
	if opts.Engine == nil || opts.Allocator == nil || opts.NewConverter == nil {
		return nil, fmt.Errorf("%w: engine, allocator and converter factory are required", ErrInvalidArgument)
	}
	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}
	if err := opts.Engine.Initialize(); err != nil {
		log.Error("Engine initialization failed: %s", err)
		return nil, fmt.Errorf("%w: engine init: %v", ErrDecode, err)
	}
	return &Decoder{
		engine:       opts.Engine,
		alloc:        opts.Allocator,
		newConverter: opts.NewConverter,
		logger:       log.WithComponent("codec"),
	}, nil
}

// Decode decompresses one packet into dst at the requested geometry.
// dst must hold at least width*height*3 bytes; on success it contains
// the decoded frame as packed row-major RGB. height must be even, since
// 4:2:0 chroma sampling requires it.
//
// A single call may resubmit the packet to the engine internally, to
// ride out pipeline latency or to recreate the decoder after a geometry
// change. Those retries are invisible to the caller.
func (d *Decoder) Decode(ctx context.Context, src, dst []byte, width, height int) error {
	if len(src) == 0 {
		d.logger.Error("Input buffer is empty")
		return fmt.Errorf("%w: empty input buffer", ErrInvalidArgument)
	}
	if width <= 0 || height <= 0 || height%2 != 0 {
		d.logger.Error("Invalid output geometry %dx%d", width, height)
		return fmt.Errorf("%w: output geometry %dx%d", ErrInvalidArgument, width, height)
	}
	if need := width * height * 3; len(dst) < need {
		d.logger.Error("Output buffer too small: %d bytes, need %d", len(dst), need)
		return fmt.Errorf("%w: output buffer holds %d bytes, need %d", ErrInvalidArgument, len(dst), need)
	}

	if err := d.ensureParser(); err != nil {
		return err
	}

	requested := Dimensions{Width: width, Height: height}
	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.dims.ResetObserved()
		if err := d.parser.Parse(src); err != nil {
			// Parse surfaces callback rejections as well as parser
			// failures; keep the class of the former.
			d.logger.Error("Parsing video data failed: %s", err)
			if errors.Is(err, ErrDecode) || errors.Is(err, ErrInvalidArgument) {
				return err
			}
			return fmt.Errorf("%w: parse: %v", ErrDecode, err)
		}

		switch d.dims.Reconcile(requested) {
		case ReconcilePending:
			// A frame of latency means the engine does not always
			// surface a picture for the packet that carries it.
			// Resubmit once; a second empty round means the packet is
			// metadata only and never will.
			if d.lastEmpty {
				d.logger.Error("Input is stream metadata only")
				return ErrMetadataOnly
			}
			d.lastEmpty = true

		case ReconcileResize:
			// Stream geometry changed, the requested output size
			// changed, or both. All four drift cases collapse to the
			// same corrective action: recreate at the new geometry and
			// resubmit the packet.
			d.lastEmpty = false
			if err := d.reinitialize(d.dims.InputObserved, requested); err != nil {
				return err
			}

		case ReconcileStable:
			d.lastEmpty = false
			return d.deliver(dst, requested)
		}
	}

	d.logger.Error("Stream geometry did not stabilize after %d submissions", maxSubmitAttempts)
	return ErrGeometryUnstable
}

// ensureParser lazily creates the parsing session on the first decode
// call. On failure the handle stays nil so the next call retries.
func (d *Decoder) ensureParser() error {
	if d.parser != nil {
		return nil
	}
	sess := geometrySession{d}
	parser, err := d.engine.CreateParser(ports.ParserConfig{
		Codec:             ports.CodecH264,
		MaxDecodeSurfaces: 1,
		MaxDisplayDelay:   0,
		ErrorThreshold:    100,
	}, sess, sess)
	if err != nil {
		d.logger.Error("Failed creating video parser: %s", err)
		return fmt.Errorf("%w: create parser: %v", ErrDecode, err)
	}
	d.parser = parser
	return nil
}

// initialize creates the decoder instance for the given geometry and
// sizes the RGB scratch buffer to the target. Requires that no instance
// exists.
func (d *Decoder) initialize(input, target Dimensions) error {
	if d.instance != nil {
		// Instances are never reconfigured in place; reaching this with
		// a live instance is a programmer error.
		d.logger.Error("Decoder instance already exists")
		return fmt.Errorf("%w: decoder instance already exists", ErrInvalidArgument)
	}

	inst, err := d.engine.CreateDecoder(ports.DecoderConfig{
		Codec:          ports.CodecH264,
		Chroma:         ports.Chroma420,
		Deinterlace:    ports.DeinterlaceAdaptive,
		InputWidth:     input.Width,
		InputHeight:    input.Height,
		TargetWidth:    target.Width,
		TargetHeight:   target.Height,
		DecodeRegion:   ports.Rect{Right: input.Width, Bottom: input.Height},
		DecodeSurfaces: 1,
		OutputSurfaces: 1,
	})
	if err != nil {
		d.logger.Error("Decoder creation failed: %s", err)
		return fmt.Errorf("%w: create decoder: %v", ErrDecode, err)
	}
	d.instance = inst
	d.dims.InputConfigured = input

	if target != d.dims.TargetConfigured {
		// The configured target is only valid while a matching buffer
		// exists. Clear it before touching the buffer so a failure below
		// leaves the state reading "no target", forcing the next call
		// through the resize path instead of a stable delivery into a
		// buffer that is gone.
		d.dims.TargetConfigured = Dimensions{}
		if d.rgb != nil {
			buf := d.rgb
			d.rgb = nil
			if err := buf.Free(); err != nil {
				d.logger.Error("Could not free RGB buffer: %s", err)
				return fmt.Errorf("%w: free buffer: %v", ErrDecode, err)
			}
		}
		// Decoded frames land in NV12; the converter reorganizes them
		// into this buffer before the copy into the caller's memory.
		buf, err := d.alloc.Alloc(target.Width * target.Height * 3)
		if err != nil {
			d.logger.Error("Could not allocate RGB buffer: %s", err)
			return fmt.Errorf("%w: alloc buffer: %v", ErrDecode, err)
		}
		d.rgb = buf
		d.dims.TargetConfigured = target
	}
	return nil
}

// reinitialize destroys the current instance and recreates it at the new
// geometry. Destruction failure is logged only; hardware teardown errors
// are not actionable.
func (d *Decoder) reinitialize(input, target Dimensions) error {
	if d.instance != nil {
		if err := d.instance.Destroy(); err != nil {
			d.logger.Warn("Error destroying decoder: %s", err)
		}
		d.instance = nil
	}
	d.logger.Debug("Recreating decoder: input %dx%d, target %dx%d",
		input.Width, input.Height, target.Width, target.Height)
	return d.initialize(input, target)
}

// deliver maps the decoded picture, converts it to RGB and copies it
// into the caller's buffer. The mapped view is released on every exit
// path, including failures.
func (d *Decoder) deliver(dst []byte, target Dimensions) error {
	view, err := d.instance.MapFrame(0)
	if err != nil {
		d.logger.Error("Failed mapping frame: %s", err)
		return fmt.Errorf("%w: map frame: %v", ErrDecode, err)
	}
	defer func() {
		if err := d.instance.UnmapFrame(view); err != nil {
			d.logger.Warn("Could not unmap frame: %s", err)
		}
	}()

	if d.converter == nil {
		conv, err := d.newConverter()
		if err != nil {
			d.logger.Error("Failed creating pixel converter: %s", err)
			return fmt.Errorf("%w: create converter: %v", ErrDecode, err)
		}
		d.converter = conv
	}

	if err := d.converter.Submit(view, target.Width, target.Height, d.rgb); err != nil {
		d.logger.Error("Pixel conversion failed: %s", err)
		return fmt.Errorf("%w: convert: %v", ErrDecode, err)
	}
	n := target.Width * target.Height * 3
	if err := d.rgb.CopyToHost(dst[:n], n, d.converter.Stream()); err != nil {
		d.logger.Error("Copy to output buffer failed: %s", err)
		return fmt.Errorf("%w: copy: %v", ErrDecode, err)
	}
	if err := d.converter.Sync(); err != nil {
		d.logger.Error("Stream synchronization failed: %s", err)
		return fmt.Errorf("%w: sync: %v", ErrDecode, err)
	}
	return nil
}

// Encode is not available on a decode-only instance; calling it is a
// programmer error, not a runtime condition.
func (d *Decoder) Encode(src []byte, width, height int) ([]byte, error) {
	d.logger.Error("Decoder cannot encode; create an encoder instead")
	return nil, fmt.Errorf("%w: decoder cannot encode", ErrInvalidArgument)
}

// SetBitrate is not available on the decode side; bitrate is a property
// of the incoming stream.
func (d *Decoder) SetBitrate(bitsPerSecond int) error {
	d.logger.Error("Bitrate is encoded into the stream; change it on the encode side")
	return fmt.Errorf("%w: bitrate is set on the encode side", ErrInvalidArgument)
}

// Close releases the decoder instance, parser session, scratch buffer
// and converter. Teardown failures are logged, never returned. Close is
// idempotent.
func (d *Decoder) Close() {
	if d.instance != nil {
		if err := d.instance.Destroy(); err != nil {
			d.logger.Warn("Error destroying decoder: %s", err)
		}
		d.instance = nil
	}
	if d.parser != nil {
		if err := d.parser.Destroy(); err != nil {
			d.logger.Warn("Error destroying parser: %s", err)
		}
		d.parser = nil
	}
	if d.rgb != nil {
		if err := d.rgb.Free(); err != nil {
			d.logger.Warn("Error freeing RGB buffer: %s", err)
		}
		d.rgb = nil
	}
	if d.converter != nil {
		if err := d.converter.Destroy(); err != nil {
			d.logger.Warn("Error destroying converter: %s", err)
		}
		d.converter = nil
	}
}

// noopLogger is the default when Options.Logger is nil.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})      {}
func (noopLogger) Info(string, ...interface{})       {}
func (noopLogger) Warn(string, ...interface{})       {}
func (noopLogger) Error(string, ...interface{})      {}
func (noopLogger) WithComponent(string) ports.Logger { return noopLogger{} }
