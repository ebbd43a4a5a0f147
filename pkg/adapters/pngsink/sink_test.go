package pngsink

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/user/framepipe/pkg/mocks"
)

func solidRGB(width, height int, r, g, b byte) []byte {
	data := make([]byte, width*height*3)
	for i := 0; i < len(data); i += 3 {
		data[i], data[i+1], data[i+2] = r, g, b
	}
	return data
}

func TestSink_SaveFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("out", fs, Options{})

	if err := sink.SaveFrame(7, 280, solidRGB(8, 4, 200, 10, 10), 8, 4); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join("out", "frames", "frame-0007.png")
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("frame was not written: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("written file is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("decoded size %v, want 8x4", img.Bounds())
	}
	r, g, b, _ := img.At(3, 2).RGBA()
	if r>>8 != 200 || g>>8 != 10 || b>>8 != 10 {
		t.Errorf("pixel = (%d,%d,%d), want (200,10,10)", r>>8, g>>8, b>>8)
	}
}

func TestSink_Thumbnail(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("out", fs, Options{ThumbnailWidth: 4})

	if err := sink.SaveFrame(0, 0, solidRGB(16, 8, 0, 0, 0), 16, 8); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := fs.ReadFile(filepath.Join("out", "thumbs", "frame-0000.png"))
	if err != nil {
		t.Fatalf("thumbnail was not written: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("thumbnail size %v, want 4x2", img.Bounds())
	}
}

func TestSink_ThumbnailSkippedWhenNotSmaller(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("out", fs, Options{ThumbnailWidth: 32})

	if err := sink.SaveFrame(0, 0, solidRGB(16, 8, 0, 0, 0), 16, 8); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := fs.ReadFile(filepath.Join("out", "thumbs", "frame-0000.png")); err == nil {
		t.Error("thumbnail written although wider than the frame")
	}
}

func TestSink_Annotate(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("out", fs, Options{Annotate: true})

	// Solid white frame; the label bar must darken the corner.
	if err := sink.SaveFrame(1, 40, solidRGB(120, 60, 255, 255, 255), 120, 60); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := fs.ReadFile(filepath.Join("out", "frames", "frame-0001.png"))
	if err != nil {
		t.Fatalf("frame was not written: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("frame is not a PNG: %v", err)
	}
	r, _, _, _ := img.At(2, 2).RGBA()
	if r>>8 == 255 {
		t.Error("top-left corner untouched, annotation bar missing")
	}
	r, _, _, _ = img.At(119, 59).RGBA()
	if r>>8 != 255 {
		t.Error("bottom-right corner should be unmodified")
	}
}

func TestSink_Validation(t *testing.T) {
	sink := New("out", mocks.NewFileSystem(), Options{})

	if err := sink.SaveFrame(0, 0, nil, 0, 4); err == nil {
		t.Error("expected error for zero width")
	}
	if err := sink.SaveFrame(0, 0, make([]byte, 10), 8, 4); err == nil {
		t.Error("expected error for short frame data")
	}
}
