// Package pngsink writes decoded RGB frames to PNG files, with
// optional thumbnails and frame annotation for visual inspection of
// decode output.
package pngsink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/framepipe/pkg/ports"
)

// Options controls optional sink output.
type Options struct {
	// ThumbnailWidth writes a scaled-down copy of each frame when
	// positive. Height follows the frame's aspect ratio.
	ThumbnailWidth int

	// Annotate overlays frame number, timestamp and geometry onto the
	// saved frame.
	Annotate bool
}

// Sink saves frames under a base directory.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
	opts    Options
}

// New creates a sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem, opts Options) *Sink {
	return &Sink{baseDir: baseDir, fs: fs, opts: opts}
}

// SaveFrame writes one packed RGB frame as frames/frame-NNNN.png, plus
// a thumbnail when configured.
func (s *Sink) SaveFrame(index int, timestampMs int, rgb []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("pngsink: invalid frame geometry %dx%d", width, height)
	}
	if need := width * height * 3; len(rgb) < need {
		return fmt.Errorf("pngsink: frame holds %d bytes, need %d", len(rgb), need)
	}

	img := packedToImage(rgb, width, height)
	if s.opts.Annotate {
		img = annotate(img, fmt.Sprintf("#%04d  %dms  %dx%d", index, timestampMs, width, height))
	}

	path := filepath.Join(s.baseDir, "frames", fmt.Sprintf("frame-%04d.png", index))
	if err := s.writePNG(path, img); err != nil {
		return err
	}

	if s.opts.ThumbnailWidth > 0 && s.opts.ThumbnailWidth < width {
		thumb := resize(img, s.opts.ThumbnailWidth, s.opts.ThumbnailWidth*height/width)
		path := filepath.Join(s.baseDir, "thumbs", fmt.Sprintf("frame-%04d.png", index))
		if err := s.writePNG(path, thumb); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.FrameSink = (*Sink)(nil)

func (s *Sink) writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("pngsink: encode %s: %w", filepath.Base(path), err)
	}
	if err := s.fs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("pngsink: write %s: %w", path, err)
	}
	return nil
}

// packedToImage wraps packed 24-bit RGB into an image.
func packedToImage(rgb []byte, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: rgb[o], G: rgb[o+1], B: rgb[o+2], A: 255})
		}
	}
	return img
}

// annotate draws a label bar in the top-left corner.
func annotate(img image.Image, label string) image.Image {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(img, 0, 0)

	w, h := dc.MeasureString(label)
	pad := 4.0
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, w+2*pad, h+2*pad)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(label, pad, pad+h)
	return dc.Image()
}

func resize(img image.Image, width, height int) image.Image {
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
