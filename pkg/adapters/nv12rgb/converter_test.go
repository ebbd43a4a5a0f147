package nv12rgb

import (
	"testing"

	"github.com/user/framepipe/pkg/adapters/hostmem"
	"github.com/user/framepipe/pkg/ports"
)

// nv12Frame builds a 2x2 NV12 frame from luma values and one shared
// chroma sample.
func nv12Frame(y [4]byte, u, v byte) ports.FrameView {
	return ports.FrameView{
		Data:  []byte{y[0], y[1], y[2], y[3], u, v},
		Pitch: 2,
	}
}

func convert(t *testing.T, view ports.FrameView) []byte {
	t.Helper()
	dst, err := hostmem.New().Alloc(2 * 2 * 3)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	c := New()
	if err := c.Submit(view, 2, 2, dst); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := c.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	return dst.Bytes()
}

func TestConverter_BlackAndWhite(t *testing.T) {
	// Limited-range extremes with neutral chroma.
	out := convert(t, nv12Frame([4]byte{235, 235, 16, 16}, 128, 128))

	for i := 0; i < 6; i++ {
		if out[i] != 255 {
			t.Errorf("top row byte %d = %d, want 255", i, out[i])
		}
	}
	for i := 6; i < 12; i++ {
		if out[i] != 0 {
			t.Errorf("bottom row byte %d = %d, want 0", i, out[i])
		}
	}
}

func TestConverter_Red(t *testing.T) {
	// BT.601 limited-range red.
	out := convert(t, nv12Frame([4]byte{81, 81, 81, 81}, 90, 240))

	for p := 0; p < 4; p++ {
		r, g, b := out[p*3], out[p*3+1], out[p*3+2]
		if r < 250 || g > 5 || b > 5 {
			t.Errorf("pixel %d = (%d,%d,%d), want pure red", p, r, g, b)
		}
	}
}

func TestConverter_RespectsPitch(t *testing.T) {
	// 2x2 picture in a surface with pitch 4; padding bytes are 0xFF and
	// must not leak into the output.
	data := []byte{
		235, 235, 0xFF, 0xFF,
		235, 235, 0xFF, 0xFF,
		128, 128, 0xFF, 0xFF,
	}
	out := convert(t, ports.FrameView{Data: data, Pitch: 4})
	for i := 0; i < 12; i++ {
		if out[i] != 255 {
			t.Errorf("byte %d = %d, want 255", i, out[i])
		}
	}
}

func TestConverter_Validation(t *testing.T) {
	c := New()
	dst, err := hostmem.New().Alloc(2 * 2 * 3)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	if err := c.Submit(ports.FrameView{Data: make([]byte, 6), Pitch: 2}, 2, 3, dst); err == nil {
		t.Error("expected error for odd height")
	}
	if err := c.Submit(ports.FrameView{Data: make([]byte, 2), Pitch: 2}, 2, 2, dst); err == nil {
		t.Error("expected error for short source")
	}
	if err := c.Submit(ports.FrameView{Data: make([]byte, 6), Pitch: 1}, 2, 2, dst); err == nil {
		t.Error("expected error for pitch smaller than width")
	}

	small, err := hostmem.New().Alloc(3)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if err := c.Submit(ports.FrameView{Data: make([]byte, 6), Pitch: 2}, 2, 2, small); err == nil {
		t.Error("expected error for short destination")
	}
}

func TestConverter_UseAfterDestroy(t *testing.T) {
	c := New()
	if err := c.Destroy(); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	dst, err := hostmem.New().Alloc(12)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if err := c.Submit(ports.FrameView{Data: make([]byte, 6), Pitch: 2}, 2, 2, dst); err != ErrDestroyed {
		t.Errorf("expected ErrDestroyed, got %v", err)
	}
}
