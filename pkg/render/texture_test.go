package render

import (
	"math"
	"testing"

	color "github.com/taigrr/facet/pkg/color"
)

// distinctTexture fills a texture so every pixel has a unique color.
func distinctTexture(w, h int) *Texture {
	tex := NewTexture(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tex.SetPixel(x, y, Color{R: uint8(x*40 + 10), G: uint8(y*40 + 10), B: uint8(x + y), A: 255})
		}
	}
	return tex
}

// Nearest-neighbor sampling at the center of pixel (i, j) must return
// exactly pixel (i, j), for every pixel.
func TestSampleClampedNearestPixelCenters(t *testing.T) {
	const w, h = 5, 3
	tex := distinctTexture(w, h)

	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			u := (float64(i) + 0.5) / w
			v := (float64(j) + 0.5) / h
			got := tex.SampleClamped(u, v, FilterNearest)
			want := color.FromARGB8(tex.clampedPixelARGB8(i, j))
			if got != want {
				t.Fatalf("sample at center of (%d,%d) = %+v, want %+v", i, j, got, want)
			}
		}
	}
}

func TestSampleClampedOutOfRangeUV(t *testing.T) {
	tex := distinctTexture(4, 4)

	corner := color.FromARGB8(tex.clampedPixelARGB8(0, 0))
	if got := tex.SampleClamped(-2, -2, FilterNearest); got != corner {
		t.Fatalf("sample at (-2,-2) = %+v, want clamped corner %+v", got, corner)
	}

	far := color.FromARGB8(tex.clampedPixelARGB8(3, 3))
	if got := tex.SampleClamped(5, 5, FilterNearest); got != far {
		t.Fatalf("sample at (5,5) = %+v, want clamped corner %+v", got, far)
	}
}

// At a pixel center the bilinear weights collapse onto that single pixel,
// so both filters must agree there.
func TestSampleClampedBilinearAtPixelCenter(t *testing.T) {
	const w, h = 4, 4
	tex := distinctTexture(w, h)

	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			u := (float64(i) + 0.5) / w
			v := (float64(j) + 0.5) / h
			near := tex.SampleClamped(u, v, FilterNearest)
			bi := tex.SampleClamped(u, v, FilterBilinear)
			if math.Abs(near.R-bi.R) > 1e-9 || math.Abs(near.G-bi.G) > 1e-9 || math.Abs(near.B-bi.B) > 1e-9 {
				t.Fatalf("filters disagree at center of (%d,%d): nearest %+v, bilinear %+v", i, j, near, bi)
			}
		}
	}
}

func TestSampleClampedBilinearBlendsNeighbors(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, Color{A: 255})                 // black
	tex.SetPixel(1, 0, Color{R: 255, G: 255, B: 255, A: 255}) // white

	// Halfway between the two pixel centers: an even blend.
	got := tex.SampleClamped(0.5, 0.5, FilterBilinear)
	if math.Abs(got.R-0.5) > 0.01 || math.Abs(got.G-0.5) > 0.01 || math.Abs(got.B-0.5) > 0.01 {
		t.Fatalf("midpoint bilinear sample = %+v, want ~0.5 gray", got)
	}
}

func TestSampleWrapModes(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, Color{R: 255, A: 255})
	tex.SetPixel(1, 0, Color{G: 255, A: 255})
	tex.SetPixel(0, 1, Color{B: 255, A: 255})
	tex.SetPixel(1, 1, Color{R: 255, G: 255, A: 255})

	t.Run("repeat tiles", func(t *testing.T) {
		tex.WrapU = WrapRepeat
		if a, b := tex.Sample(0.25, 0.25), tex.Sample(1.25, 0.25); a != b {
			t.Fatalf("repeat wrap: Sample(0.25) = %+v, Sample(1.25) = %+v, want equal", a, b)
		}
	})

	t.Run("clamp pins to edge", func(t *testing.T) {
		tex.WrapU = WrapClamp
		if a, b := tex.Sample(0.99, 0.25), tex.Sample(4.0, 0.25); a != b {
			t.Fatalf("clamp wrap: edge sample %+v != out-of-range sample %+v", a, b)
		}
	})
}

func TestProceduralTextures(t *testing.T) {
	checker := NewCheckerTexture(8, 8, 2, ColorWhite, ColorBlack)
	if got := checker.GetPixel(0, 0); got != ColorWhite {
		t.Fatalf("checker (0,0) = %+v, want white", got)
	}
	if got := checker.GetPixel(2, 0); got != ColorBlack {
		t.Fatalf("checker (2,0) = %+v, want black", got)
	}

	grad := NewGradientTexture(8, 1, ColorBlack, ColorWhite)
	if got := grad.GetPixel(0, 0); got != ColorBlack {
		t.Fatalf("gradient left = %+v, want black", got)
	}
	if got := grad.GetPixel(7, 0); got != ColorWhite {
		t.Fatalf("gradient right = %+v, want white", got)
	}
}
