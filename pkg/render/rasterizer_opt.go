package render

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// edgeCoeffs returns A, B, C for the edge function
// edge(x, y) = A*x + B*y + C over the directed edge (x0,y0) -> (x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// edgeFunc evaluates an edge function at (x, y).
func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

// DrawTriangleOpt is the optimized scan path: identical inputs, fragment
// contract, and output as DrawTriangle, but the inner loop steps three
// edge functions incrementally instead of intersecting scanlines and
// recomputing signed areas per pixel.
func (r *Rasterizer) DrawTriangleOpt(tri ClipTriangle, frag FragmentFunc) {
	if cullBackface(tri) {
		return
	}

	w := float64(r.Width())
	h := float64(r.Height())
	var screen [3]math3d.Vec2
	for i := range tri.Clip {
		screen[i] = toScreen(tri.Clip[i], w, h)
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1.
	A0, B0, C0 := edgeCoeffs(screen[1].X, screen[1].Y, screen[2].X, screen[2].Y)
	A1, B1, C1 := edgeCoeffs(screen[2].X, screen[2].Y, screen[0].X, screen[0].Y)
	A2, B2, C2 := edgeCoeffs(screen[0].X, screen[0].Y, screen[1].X, screen[1].Y)

	area2 := signedArea2D(screen[0], screen[1], screen[2])
	if area2 == 0 {
		return
	}
	// Front faces wind clockwise on screen after the viewport y-flip, so
	// the signed area is negative; negate everything so the inside test
	// stays "all edge functions >= 0".
	if area2 < 0 {
		A0, B0, C0 = -A0, -B0, -C0
		A1, B1, C1 = -A1, -B1, -C1
		A2, B2, C2 = -A2, -B2, -C2
		area2 = -area2
	}
	invArea := 1.0 / area2

	minX := clampI(int(math.Floor(math.Min(screen[0].X, math.Min(screen[1].X, screen[2].X)))), 0, r.Width()-1)
	maxX := clampI(int(math.Ceil(math.Max(screen[0].X, math.Max(screen[1].X, screen[2].X)))), 0, r.Width()-1)
	minY := clampI(int(math.Floor(math.Min(screen[0].Y, math.Min(screen[1].Y, screen[2].Y)))), 0, r.Height()-1)
	maxY := clampI(int(math.Ceil(math.Max(screen[0].Y, math.Max(screen[1].Y, screen[2].Y)))), 0, r.Height()-1)
	if minX > maxX || minY > maxY {
		return
	}

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	for y := minY; y <= maxY; y++ {
		w0 := w0Row
		w1 := w1Row
		w2 := w2Row

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				r.shade(tri, x, y, w0*invArea, w1*invArea, w2*invArea, frag)
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}
