// Package render provides the software rendering pipeline for Facet.
package render

import (
	"math"

	color "github.com/taigrr/facet/pkg/color"
	"github.com/taigrr/facet/pkg/math3d"
)

// FragmentFunc computes a final pixel color from interpolated world
// position, world normal, and UV.
type FragmentFunc func(worldPos, normal math3d.Vec3, uv math3d.Vec2) color.FloatColor

// ClipTriangle is one triangle ready for scan conversion: the same three
// vertices expressed in world space, camera space, and perspective-divided
// clip space (x, y, z divided by w; the original w preserved for
// perspective-correct interpolation), plus per-vertex normals and UVs.
type ClipTriangle struct {
	World  [3]math3d.Vec3
	Camera [3]math3d.Vec3
	Clip   [3]math3d.Vec4
	Normal [3]math3d.Vec3
	UV     [3]math3d.Vec2
}

// Rasterizer scan-converts triangles into a color frame and depth frame,
// invoking a fragment function per covered pixel. It writes through the
// frames it was constructed with; Renderer owns those frames and shares
// them with its rasterizer.
type Rasterizer struct {
	color *Frame[color.FloatColor]
	depth *Frame[float64]
}

// NewRasterizer creates a rasterizer writing into the given frames. Both
// frames must have the same dimensions.
func NewRasterizer(colorBuf *Frame[color.FloatColor], depthBuf *Frame[float64]) *Rasterizer {
	return &Rasterizer{color: colorBuf, depth: depthBuf}
}

// Width returns the target frame width in pixels.
func (r *Rasterizer) Width() int { return r.color.Width() }

// Height returns the target frame height in pixels.
func (r *Rasterizer) Height() int { return r.color.Height() }

// cullBackface reports whether tri faces away from the camera. Winding is
// tested in clip space before the viewport y-flip: triangles are authored
// counter-clockwise front-facing, so a non-positive 2D cross product of
// (S1-S0) x (S2-S0) means back-facing (or degenerate, dropped the same
// way).
func cullBackface(tri ClipTriangle) bool {
	e1x := tri.Clip[1].X - tri.Clip[0].X
	e1y := tri.Clip[1].Y - tri.Clip[0].Y
	e2x := tri.Clip[2].X - tri.Clip[0].X
	e2y := tri.Clip[2].Y - tri.Clip[0].Y
	return e1x*e2y-e1y*e2x <= 0
}

// toScreen maps a perspective-divided clip position onto the pixel grid.
// Clip +y is up, pixel +y is down, hence the y-flip.
func toScreen(c math3d.Vec4, w, h float64) math3d.Vec2 {
	return math3d.V2((c.X+1)/2*w, (1-c.Y)/2*h)
}

// signedArea2D returns twice the signed area of triangle (a, b, c).
func signedArea2D(a, b, c math3d.Vec2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// scanlineSpan intersects the horizontal line at yc with the triangle's
// three edges (treated as segments, not rays) and returns the min/max
// intersection x. ok is false when the line misses the triangle entirely.
func scanlineSpan(s [3]math3d.Vec2, yc float64) (xl, xr float64, ok bool) {
	xl = math.Inf(1)
	xr = math.Inf(-1)
	for i := 0; i < 3; i++ {
		a := s[i]
		b := s[(i+1)%3]
		if (yc < a.Y && yc < b.Y) || (yc > a.Y && yc > b.Y) {
			continue
		}
		if a.Y == b.Y {
			xl = math.Min(xl, math.Min(a.X, b.X))
			xr = math.Max(xr, math.Max(a.X, b.X))
			ok = true
			continue
		}
		x := a.X + (yc-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		xl = math.Min(xl, x)
		xr = math.Max(xr, x)
		ok = true
	}
	return xl, xr, ok
}

// DrawTriangle is the reference scanline implementation: back-face cull,
// viewport mapping, per-scanline edge-intersection bounds, and per-pixel
// perspective-correct attribute interpolation with a strict-less-than
// depth test. DrawTriangleOpt produces identical output via incremental
// edge functions and is the path Renderer uses per frame.
func (r *Rasterizer) DrawTriangle(tri ClipTriangle, frag FragmentFunc) {
	if cullBackface(tri) {
		return
	}

	w := float64(r.Width())
	h := float64(r.Height())
	var screen [3]math3d.Vec2
	for i := range tri.Clip {
		screen[i] = toScreen(tri.Clip[i], w, h)
	}

	// The y-flip reverses apparent winding, so a front-facing triangle
	// has negative signed area on screen; the sign divides out of the
	// barycentric ratios below.
	area := signedArea2D(screen[0], screen[1], screen[2])
	if area == 0 {
		return
	}

	minY := clampI(int(math.Floor(math.Min(screen[0].Y, math.Min(screen[1].Y, screen[2].Y)))), 0, r.Height()-1)
	maxY := clampI(int(math.Ceil(math.Max(screen[0].Y, math.Max(screen[1].Y, screen[2].Y)))), 0, r.Height()-1)

	for y := minY; y <= maxY; y++ {
		yc := float64(y) + 0.5
		xl, xr, ok := scanlineSpan(screen, yc)
		if !ok {
			continue
		}
		xStart := clampI(int(math.Ceil(xl-0.5)), 0, r.Width()-1)
		xEnd := clampI(int(math.Floor(xr-0.5)), 0, r.Width()-1)
		if float64(xStart)+0.5 < xl || float64(xEnd)+0.5 > xr {
			continue
		}

		for x := xStart; x <= xEnd; x++ {
			p := math3d.V2(float64(x)+0.5, yc)
			b0 := signedArea2D(p, screen[1], screen[2]) / area
			b1 := signedArea2D(screen[0], p, screen[2]) / area
			b2 := 1 - b0 - b1
			r.shade(tri, x, y, b0, b1, b2, frag)
		}
	}
}

// shade runs the shared per-pixel tail of both scan paths: perspective
// weights from the 2D barycentrics, the depth test, attribute
// interpolation, the fragment call, and the buffer writes.
func (r *Rasterizer) shade(tri ClipTriangle, x, y int, b0, b1, b2 float64, frag FragmentFunc) {
	w0 := b0 / tri.Clip[0].W
	w1 := b1 / tri.Clip[1].W
	w2 := b2 / tri.Clip[2].W
	zRecip := w0 + w1 + w2
	if zRecip == 0 {
		return
	}
	z := 1 / zRecip
	if z <= 0 {
		return
	}

	if d, ok := r.depth.At(x, y); !ok || z >= d {
		return
	}

	// Attribute blend weights; a0+a1+a2 = 1 up to floating-point error.
	a0 := z * w0
	a1 := z * w1
	a2 := z * w2

	worldPos := tri.World[0].Scale(a0).Add(tri.World[1].Scale(a1)).Add(tri.World[2].Scale(a2))
	normal := tri.Normal[0].Scale(a0).Add(tri.Normal[1].Scale(a1)).Add(tri.Normal[2].Scale(a2))
	uv := math3d.V2(
		tri.UV[0].X*a0+tri.UV[1].X*a1+tri.UV[2].X*a2,
		tri.UV[0].Y*a0+tri.UV[1].Y*a1+tri.UV[2].Y*a2,
	)

	c := frag(worldPos, normal, uv)
	r.color.Set(x, y, c)
	r.depth.Set(x, y, z)
}
