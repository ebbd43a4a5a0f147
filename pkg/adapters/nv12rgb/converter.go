// Package nv12rgb converts mapped NV12 frames to packed RGB. It is the
// host-side counterpart of the conversion kernel a hardware engine runs
// on device memory.
package nv12rgb

import (
	"errors"
	"fmt"

	"github.com/user/framepipe/pkg/adapters/hostmem"
	"github.com/user/framepipe/pkg/ports"
)

// ErrDestroyed is returned when the converter is used after Destroy.
var ErrDestroyed = errors.New("nv12rgb: converter destroyed")

// Converter reorganizes NV12 surfaces into packed RGB using BT.601
// limited-range coefficients.
type Converter struct {
	stream    hostmem.Stream
	destroyed bool
}

// New creates a new converter.
func New() *Converter {
	return &Converter{}
}

// Factory is a ports.ConverterFactory for this converter.
func Factory() (ports.PixelConverter, error) {
	return New(), nil
}

// Submit converts src into dst at the given geometry. src must cover a
// full NV12 frame (luma plane of pitch*height bytes followed by an
// interleaved chroma plane of half that), dst must hold width*height*3.
func (c *Converter) Submit(src ports.FrameView, width, height int, dst ports.DeviceBuffer) error {
	if c.destroyed {
		return ErrDestroyed
	}
	if width <= 0 || height <= 0 || height%2 != 0 {
		return fmt.Errorf("nv12rgb: invalid geometry %dx%d", width, height)
	}
	if src.Pitch < width {
		return fmt.Errorf("nv12rgb: pitch %d smaller than width %d", src.Pitch, width)
	}
	if need := src.Pitch * height * 3 / 2; len(src.Data) < need {
		return fmt.Errorf("nv12rgb: source holds %d bytes, need %d", len(src.Data), need)
	}
	if need := width * height * 3; dst.Size() < need {
		return fmt.Errorf("nv12rgb: destination holds %d bytes, need %d", dst.Size(), need)
	}

	out := dst.Bytes()
	luma := src.Data[:src.Pitch*height]
	chroma := src.Data[src.Pitch*height:]

	for row := 0; row < height; row++ {
		yOff := row * src.Pitch
		uvOff := (row / 2) * src.Pitch
		for col := 0; col < width; col++ {
			y := int(luma[yOff+col])
			u := int(chroma[uvOff+(col&^1)])
			v := int(chroma[uvOff+(col&^1)+1])

			yc := 298 * (y - 16)
			d := u - 128
			e := v - 128

			o := (row*width + col) * 3
			out[o] = clamp((yc + 409*e + 128) >> 8)
			out[o+1] = clamp((yc - 100*d - 208*e + 128) >> 8)
			out[o+2] = clamp((yc + 516*d + 128) >> 8)
		}
	}
	return nil
}

// Stream returns the stream conversion work is ordered on.
func (c *Converter) Stream() ports.CopyStream { return c.stream }

// Sync is immediate for host conversion.
func (c *Converter) Sync() error {
	if c.destroyed {
		return ErrDestroyed
	}
	return nil
}

// Destroy releases the converter.
func (c *Converter) Destroy() error {
	c.destroyed = true
	return nil
}

var _ ports.PixelConverter = (*Converter)(nil)

func clamp(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
