package codec

import (
	"fmt"

	"github.com/user/framepipe/pkg/ports"
)

// geometrySession implements the engine's sequence and picture-decoded
// capability interfaces for one codec object. The engine invokes both
// synchronously inside ParserSession.Parse, zero or more times per
// submission.
type geometrySession struct {
	d *Decoder
}

var (
	_ ports.SequenceHandler = geometrySession{}
	_ ports.PictureHandler  = geometrySession{}
)

// ReportSequence handles the engine determining or changing stream
// geometry. The first sequence creates the decoder instance with the
// declared geometry as both input and target; the resubmission logic in
// Decode corrects the target to the caller's actual request afterwards.
func (s geometrySession) ReportSequence(format ports.VideoFormat) error {
	d := s.d
	w := format.DisplayArea.Width()
	h := format.DisplayArea.Height()

	// Warn about oversized streams but attempt them anyway.
	if w > MaxWidth || h > MaxHeight {
		d.logger.Warn("Video stream exceeds %dx%d limits", MaxWidth, MaxHeight)
	}
	if format.BitDepthLumaMinus8 != 0 {
		d.logger.Warn("Unhandled bit depth (%d); was the stream produced by a different pipeline?",
			format.BitDepthLumaMinus8+8)
		return fmt.Errorf("%w: %d-bit depth", ErrUnsupportedStream, format.BitDepthLumaMinus8+8)
	}
	if format.Codec != ports.CodecH264 || format.Chroma != ports.Chroma420 || !format.Progressive {
		return fmt.Errorf("%w: need progressive 4:2:0 H.264", ErrUnsupportedStream)
	}
	// This happens for streams whose display height is not
	// macroblock-aligned; the observed geometry converges on the coded
	// size after one resize round.
	if format.CodedHeight != h {
		d.logger.Debug("Coded height (%d) does not correspond to display height (%d)", format.CodedHeight, h)
	}

	if d.instance == nil {
		return d.initialize(
			Dimensions{Width: w, Height: h},
			Dimensions{Width: w, Height: h},
		)
	}
	return nil
}

// ReportDecodedPicture decodes the picture and records its geometry.
// This is the only writer of InputObserved, and it writes only after a
// successful decode so a failure is never mistaken for progress.
func (s geometrySession) ReportDecodedPicture(info ports.PictureInfo) error {
	d := s.d
	if d.instance == nil {
		return fmt.Errorf("%w: picture reported before sequence", ErrDecode)
	}
	if err := d.instance.DecodePicture(info); err != nil {
		d.logger.Warn("Error decoding frame: %s", err)
		return fmt.Errorf("%w: decode picture: %v", ErrDecode, err)
	}
	d.dims.InputObserved = Dimensions{
		Width:  info.WidthInMBs * 16,
		Height: info.HeightInMBs * 16,
	}
	return nil
}
