// Package ports defines the collaborator interfaces of the decode pipeline.
// The codec core talks only to these interfaces; adapters provide hardware
// or software implementations.
package ports

// Codec identifies the compressed stream format.
type Codec int

const (
	// CodecH264 is the only codec this pipeline currently supports.
	CodecH264 Codec = iota
)

// ChromaFormat identifies the chroma subsampling of a stream or surface.
type ChromaFormat int

const (
	ChromaMonochrome ChromaFormat = iota
	Chroma420
	Chroma422
	Chroma444
)

// DeinterlaceMode selects how interlaced content is handled by the engine.
type DeinterlaceMode int

const (
	DeinterlaceWeave DeinterlaceMode = iota
	DeinterlaceBob
	DeinterlaceAdaptive
)

// Rect is a pixel rectangle, right/bottom exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int { return r.Bottom - r.Top }

// VideoFormat carries the stream geometry and profile the engine determined
// while parsing. Delivered through SequenceHandler.
type VideoFormat struct {
	Codec              Codec
	Chroma             ChromaFormat
	BitDepthLumaMinus8 int
	Progressive        bool
	// DisplayArea is the visible region of the coded picture.
	DisplayArea Rect
	// CodedWidth and CodedHeight are the macroblock-aligned picture
	// dimensions, which may exceed the display area.
	CodedWidth  int
	CodedHeight int
}

// PictureInfo describes one coded picture ready to be decoded. Dimensions
// are in macroblocks, as reported by the bitstream.
type PictureInfo struct {
	WidthInMBs  int
	HeightInMBs int
	// Surface is the decode surface index the picture is assigned to.
	Surface int
	// Keyframe reports whether the picture is intra coded.
	Keyframe bool
}

// DecoderConfig describes the geometry and profile a decoder instance is
// created with. The instance scales decoded pictures from the input
// geometry to the target geometry.
type DecoderConfig struct {
	Codec          Codec
	Chroma         ChromaFormat
	Deinterlace    DeinterlaceMode
	InputWidth     int
	InputHeight    int
	TargetWidth    int
	TargetHeight   int
	DecodeRegion   Rect
	DecodeSurfaces int
	OutputSurfaces int
}

// FrameView is a mapped decoded frame: an NV12 surface plus its row pitch.
// The view is only valid until UnmapFrame is called.
type FrameView struct {
	Data  []byte
	Pitch int
}

// DecoderInstance is one live hardware (or software) decoder bound to a
// fixed input/target geometry. Instances are never resized in place; the
// codec destroys and recreates them.
type DecoderInstance interface {
	// DecodePicture decodes one coded picture into the configured surface.
	DecodePicture(info PictureInfo) error

	// MapFrame maps the decoded surface for reading.
	MapFrame(surface int) (FrameView, error)

	// UnmapFrame releases a mapped view.
	UnmapFrame(view FrameView) error

	// Destroy releases the instance.
	Destroy() error
}

// SequenceHandler receives stream geometry notifications from the engine.
// The engine may invoke it zero or more times per packet submission,
// synchronously within Parse.
type SequenceHandler interface {
	// ReportSequence is called when the engine has determined or changed
	// the stream format. Returning an error rejects the sequence and
	// fails the submission.
	ReportSequence(format VideoFormat) error
}

// PictureHandler receives decoded-picture notifications from the engine,
// synchronously within Parse.
type PictureHandler interface {
	// ReportDecodedPicture is called when the engine has a coded picture
	// ready. Returning an error aborts the packet.
	ReportDecodedPicture(info PictureInfo) error
}

// ParserConfig configures a parsing session.
type ParserConfig struct {
	Codec             Codec
	MaxDecodeSurfaces int
	// MaxDisplayDelay is the number of frames the engine may hold back
	// for reordering. Zero keeps the pipeline latency at the minimum the
	// stream allows.
	MaxDisplayDelay int
	// ErrorThreshold is the percentage of corrupted macroblocks the
	// parser tolerates before failing a picture.
	ErrorThreshold int
}

// ParserSession is one parsing session. Parse ingests a compressed packet
// and synchronously invokes the handlers the session was created with.
type ParserSession interface {
	Parse(packet []byte) error
	Destroy() error
}

// DecodeEngine is the external decode collaborator. It owns decoder
// instances and parsing sessions.
type DecodeEngine interface {
	// Initialize primes the engine's device context. Called once per
	// codec object, never as a construction side effect.
	Initialize() error

	CreateDecoder(cfg DecoderConfig) (DecoderInstance, error)

	CreateParser(cfg ParserConfig, seq SequenceHandler, pic PictureHandler) (ParserSession, error)
}
