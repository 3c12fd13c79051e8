package render

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferBlitUnpacksARGB(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	// A=0xFF, R=0x11, G=0x22, B=0x33 and opaque white.
	fb.Blit(2, 1, []uint32{0xFF112233, 0xFFFFFFFF})

	got := fb.GetPixel(0, 0)
	if got.A != 0xFF || got.R != 0x11 || got.G != 0x22 || got.B != 0x33 {
		t.Fatalf("pixel 0 = %+v, want A=FF R=11 G=22 B=33", got)
	}
	if got := fb.GetPixel(1, 0); got != ColorWhite {
		t.Fatalf("pixel 1 = %+v, want white", got)
	}
}

func TestFramebufferBlitSizeMismatchIsNoop(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Clear(ColorRed)
	fb.Blit(3, 3, make([]uint32, 9))

	if got := fb.GetPixel(0, 0); got != ColorRed {
		t.Fatalf("pixel (0,0) = %+v after mismatched Blit, want untouched red", got)
	}
}

func TestFramebufferDrawLineEndpoints(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.DrawLine(1, 1, 6, 6, ColorGreen)

	if got := fb.GetPixel(1, 1); got != ColorGreen {
		t.Fatalf("line start = %+v, want green", got)
	}
	if got := fb.GetPixel(6, 6); got != ColorGreen {
		t.Fatalf("line end = %+v, want green", got)
	}
	if got := fb.GetPixel(6, 1); got == ColorGreen {
		t.Fatalf("off-line pixel unexpectedly green")
	}
}

func TestFramebufferSavePNGRoundTrip(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(ColorBlue)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat saved png: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("saved png is empty")
	}

	img := fb.ToImage()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("ToImage bounds = %v, want 4x4", img.Bounds())
	}
	if img.RGBAAt(2, 2) != ColorBlue {
		t.Fatalf("ToImage pixel (2,2) = %+v, want blue", img.RGBAAt(2, 2))
	}
}

func TestFramebufferGetPixelOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Clear(ColorWhite)

	if got := fb.GetPixel(-1, 0); got != (Color{}) {
		t.Fatalf("GetPixel(-1,0) = %+v, want zero color", got)
	}
	fb.SetPixel(5, 5, ColorRed) // must not panic
}
