package render

import (
	"math"
	"math/rand"
	"testing"

	color "github.com/taigrr/facet/pkg/color"
	"github.com/taigrr/facet/pkg/math3d"
)

func newTestRasterizer(w, h int) (*Rasterizer, *Frame[color.FloatColor], *Frame[float64]) {
	cf := NewFrame[color.FloatColor](w, h, color.Black())
	df := NewFrame[float64](w, h, math.Inf(1))
	return NewRasterizer(cf, df), cf, df
}

// ndcTriangle builds a ClipTriangle directly in perspective-divided clip
// space. World positions mirror the NDC positions, normals face the
// camera, and UVs are left zero unless set by the caller.
func ndcTriangle(p0, p1, p2 math3d.Vec4) ClipTriangle {
	tri := ClipTriangle{Clip: [3]math3d.Vec4{p0, p1, p2}}
	for i, p := range tri.Clip {
		tri.World[i] = math3d.V3(p.X, p.Y, p.Z)
		tri.Camera[i] = tri.World[i]
		tri.Normal[i] = math3d.V3(0, 0, 1)
	}
	return tri
}

func solidFrag(c color.FloatColor) FragmentFunc {
	return func(_, _ math3d.Vec3, _ math3d.Vec2) color.FloatColor { return c }
}

func TestDrawTriangleCoversCenterPixel(t *testing.T) {
	r, cf, df := newTestRasterizer(4, 4)
	tri := ndcTriangle(math3d.V4(-1, -1, 0, 1), math3d.V4(1, -1, 0, 1), math3d.V4(0, 1, 0, 1))

	r.DrawTriangle(tri, solidFrag(color.White()))

	if c, _ := cf.At(2, 2); c != color.White() {
		t.Fatalf("pixel (2,2) = %+v, want white", c)
	}
	if d, _ := df.At(2, 2); math.Abs(d-1) > 1e-9 {
		t.Fatalf("depth (2,2) = %v, want 1 (interpolated clip w)", d)
	}
}

func TestDrawTriangleCullsClockwise(t *testing.T) {
	r, cf, df := newTestRasterizer(4, 4)
	// Mirrored winding: clockwise in clip space means back-facing.
	tri := ndcTriangle(math3d.V4(1, -1, 0, 1), math3d.V4(-1, -1, 0, 1), math3d.V4(0, 1, 0, 1))

	r.DrawTriangle(tri, solidFrag(color.White()))
	r.DrawTriangleOpt(tri, solidFrag(color.White()))

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c, _ := cf.At(x, y); c != color.Black() {
				t.Fatalf("pixel (%d,%d) = %+v after back-face cull, want untouched black", x, y, c)
			}
			if d, _ := df.At(x, y); !math.IsInf(d, 1) {
				t.Fatalf("depth (%d,%d) = %v after back-face cull, want +Inf", x, y, d)
			}
		}
	}
}

func TestDrawTriangleDropsDegenerate(t *testing.T) {
	r, cf, _ := newTestRasterizer(4, 4)
	// All three points collinear: zero area.
	tri := ndcTriangle(math3d.V4(-1, -1, 0, 1), math3d.V4(0, 0, 0, 1), math3d.V4(1, 1, 0, 1))

	r.DrawTriangle(tri, solidFrag(color.White()))
	r.DrawTriangleOpt(tri, solidFrag(color.White()))

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c, _ := cf.At(x, y); c != color.Black() {
				t.Fatalf("pixel (%d,%d) = %+v after degenerate triangle, want untouched black", x, y, c)
			}
		}
	}
}

// fullCoverTriangle spans well past the viewport so every pixel center is
// covered, with a uniform clip w so the written depth equals w exactly.
func fullCoverTriangle(w float64) ClipTriangle {
	return ndcTriangle(math3d.V4(-3, -3, 0, w), math3d.V4(3, -3, 0, w), math3d.V4(0, 3, 0, w))
}

func TestDepthTestNearWinsEitherOrder(t *testing.T) {
	red := color.FromRGB(1, 0, 0)
	green := color.FromRGB(0, 1, 0)

	for _, tc := range []struct {
		name   string
		first  float64
		second float64
		cFirst color.FloatColor
		cSecnd color.FloatColor
	}{
		{"far-then-near", 5, 3, red, green},
		{"near-then-far", 3, 5, green, red},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, cf, df := newTestRasterizer(4, 4)
			r.DrawTriangle(fullCoverTriangle(tc.first), solidFrag(tc.cFirst))
			r.DrawTriangle(fullCoverTriangle(tc.second), solidFrag(tc.cSecnd))

			if c, _ := cf.At(2, 2); c != green {
				t.Fatalf("pixel (2,2) = %+v, want green (nearer surface)", c)
			}
			if d, _ := df.At(2, 2); math.Abs(d-3) > 1e-9 {
				t.Fatalf("depth (2,2) = %v, want 3", d)
			}
		})
	}
}

func TestDepthTestEqualDepthFirstWriterWins(t *testing.T) {
	red := color.FromRGB(1, 0, 0)
	green := color.FromRGB(0, 1, 0)

	r, cf, _ := newTestRasterizer(4, 4)
	r.DrawTriangle(fullCoverTriangle(2), solidFrag(red))
	r.DrawTriangle(fullCoverTriangle(2), solidFrag(green))

	if c, _ := cf.At(2, 2); c != red {
		t.Fatalf("pixel (2,2) = %+v, want red (strict < keeps the first writer)", c)
	}
}

// TestAttributeInterpolationMatchesPixelCenter renders a triangle whose
// world positions equal its NDC positions (w=1), so the interpolated
// world position at each pixel must equal that pixel center mapped back
// through the viewport transform. This exercises the partition of unity
// of the attribute blend weights directly.
func TestAttributeInterpolationMatchesPixelCenter(t *testing.T) {
	const size = 16
	r, _, _ := newTestRasterizer(size, size)
	tri := ndcTriangle(math3d.V4(-1, -1, 0, 1), math3d.V4(1, -1, 0, 1), math3d.V4(0, 1, 0, 1))

	covered := 0
	r.DrawTriangle(tri, func(worldPos, _ math3d.Vec3, _ math3d.Vec2) color.FloatColor {
		covered++
		// Invert the viewport mapping for the pixel this fragment must be at.
		sx := (worldPos.X + 1) / 2 * size
		sy := (1 - worldPos.Y) / 2 * size
		fx := math.Mod(sx, 1)
		fy := math.Mod(sy, 1)
		if math.Abs(fx-0.5) > 1e-5 || math.Abs(fy-0.5) > 1e-5 {
			t.Errorf("interpolated world position %v does not map back to a pixel center (screen %.6f, %.6f)", worldPos, sx, sy)
		}
		return color.White()
	})

	if covered == 0 {
		t.Fatalf("no fragments produced for a front-facing triangle")
	}
}

// TestPerspectiveCorrectInterpolation renders a screen-filling quad whose
// left edge is at clip w=1 and right edge at w=4, with u varying 0 to 1.
// Perspective-correct interpolation of u over both triangles reduces to a
// closed form in the screen-linear parameter s = (ndcX+1)/2:
//
//	u(s) = (s/wr) / ((1-s)/wl + s/wr)
//
// The seam between the two triangles carries no special case, so this
// also checks that interpolated UVs agree at shared-edge pixels.
func TestPerspectiveCorrectInterpolation(t *testing.T) {
	const size = 32
	const wl, wr = 1.0, 4.0

	bl := ndcVertex(math3d.V4(-1, -1, 0, wl), math3d.V2(0, 0))
	br := ndcVertex(math3d.V4(1, -1, 0, wr), math3d.V2(1, 0))
	tr := ndcVertex(math3d.V4(1, 1, 0, wr), math3d.V2(1, 1))
	tl := ndcVertex(math3d.V4(-1, 1, 0, wl), math3d.V2(0, 1))

	tris := []ClipTriangle{
		quadTriangle(bl, br, tr),
		quadTriangle(bl, tr, tl),
	}

	// Encode the interpolated u in the red channel and read it back from
	// the color buffer; covered pixels are the ones with a finite depth.
	r, cf, df := newTestRasterizer(size, size)
	uFrag := func(_, _ math3d.Vec3, uv math3d.Vec2) color.FloatColor {
		return color.New(1, uv.X, 0, 0)
	}
	for _, tri := range tris {
		r.DrawTriangle(tri, uFrag)
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if d, _ := df.At(x, y); math.IsInf(d, 1) {
				continue
			}
			c, _ := cf.At(x, y)
			s := (float64(x) + 0.5) / size
			want := (s / wr) / ((1-s)/wl + s/wr)
			if math.Abs(c.R-want) > 1e-4 {
				t.Fatalf("u at (%d,%d) = %.6f, want %.6f (perspective-correct)", x, y, c.R, want)
			}
		}
	}
}

type quadVertex struct {
	pos math3d.Vec4
	uv  math3d.Vec2
}

func ndcVertex(pos math3d.Vec4, uv math3d.Vec2) quadVertex {
	return quadVertex{pos: pos, uv: uv}
}

func quadTriangle(a, b, c quadVertex) ClipTriangle {
	tri := ndcTriangle(a.pos, b.pos, c.pos)
	tri.UV = [3]math3d.Vec2{a.uv, b.uv, c.uv}
	return tri
}

// TestOptMatchesReference renders random triangles of either winding
// (back faces are culled by both paths) through both scan paths and requires identical coverage and matching colors.
func TestOptMatchesReference(t *testing.T) {
	const size = 24
	rng := rand.New(rand.NewSource(7))

	uvFrag := func(_, _ math3d.Vec3, uv math3d.Vec2) color.FloatColor {
		return color.FromRGB(uv.X, uv.Y, 0.5)
	}

	for i := 0; i < 50; i++ {
		var pts [3]math3d.Vec4
		for j := range pts {
			pts[j] = math3d.V4(
				rng.Float64()*2-1,
				rng.Float64()*2-1,
				0,
				0.5+rng.Float64()*2.5,
			)
		}
		tri := ndcTriangle(pts[0], pts[1], pts[2])
		tri.UV = [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1)}

		ref, refColor, _ := newTestRasterizer(size, size)
		opt, optColor, _ := newTestRasterizer(size, size)
		ref.DrawTriangle(tri, uvFrag)
		opt.DrawTriangleOpt(tri, uvFrag)

		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				a, _ := refColor.At(x, y)
				b, _ := optColor.At(x, y)
				if math.Abs(a.R-b.R) > 1e-6 || math.Abs(a.G-b.G) > 1e-6 || math.Abs(a.B-b.B) > 1e-6 {
					t.Fatalf("triangle %d: pixel (%d,%d) differs between scan paths: ref %+v, opt %+v", i, x, y, a, b)
				}
			}
		}
	}
}

func TestScanlineSpan(t *testing.T) {
	s := [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(4, 0), math3d.V2(0, 4)}

	for _, tc := range []struct {
		name   string
		yc     float64
		xl, xr float64
		ok     bool
	}{
		{"mid", 1, 0, 3, true},
		{"near-apex", 3.5, 0, 0.5, true},
		{"on-base", 0, 0, 4, true},
		{"above", -1, 0, 0, false},
		{"below", 5, 0, 0, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			xl, xr, ok := scanlineSpan(s, tc.yc)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if math.Abs(xl-tc.xl) > 1e-9 || math.Abs(xr-tc.xr) > 1e-9 {
				t.Fatalf("span = [%v, %v], want [%v, %v]", xl, xr, tc.xl, tc.xr)
			}
		})
	}
}

func BenchmarkDrawTriangleOpt(b *testing.B) {
	r, _, df := newTestRasterizer(128, 128)
	tri := fullCoverTriangle(2)
	frag := solidFrag(color.White())

	for b.Loop() {
		df.Fill(math.Inf(1))
		r.DrawTriangleOpt(tri, frag)
	}
}

func BenchmarkDrawTriangleReference(b *testing.B) {
	r, _, df := newTestRasterizer(128, 128)
	tri := fullCoverTriangle(2)
	frag := solidFrag(color.White())

	for b.Loop() {
		df.Fill(math.Inf(1))
		r.DrawTriangle(tri, frag)
	}
}
