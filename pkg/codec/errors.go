package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a caller error: bad sizes, empty
	// input, or an operation the instance does not support.
	ErrInvalidArgument = errors.New("codec: invalid argument")

	// ErrDecode reports an engine, parser or configuration failure.
	ErrDecode = errors.New("codec: decode failed")

	// ErrUnsupportedStream reports a stream outside the supported
	// profile (H.264, 4:2:0 chroma, progressive, 8-bit).
	ErrUnsupportedStream = fmt.Errorf("%w: unsupported stream format", ErrDecode)

	// ErrMetadataOnly reports input that carries stream metadata but no
	// coded picture, so no amount of resubmission will yield a frame.
	ErrMetadataOnly = fmt.Errorf("%w: input is stream metadata only", ErrInvalidArgument)

	// ErrGeometryUnstable reports that stream geometry kept changing
	// across the bounded resubmission attempts of a single call.
	ErrGeometryUnstable = fmt.Errorf("%w: stream geometry did not stabilize", ErrDecode)
)
