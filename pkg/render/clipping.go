package render

import (
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Vertex4 is a homogeneous vertex used post-projection, before the
// perspective divide. Normal is kept 4D (w typically 1) purely so the
// same lerp/clip code handles position, normal, and UV uniformly.
type Vertex4 struct {
	Position math3d.Vec4
	UV       math3d.Vec2
	Normal   math3d.Vec4
}

// vertex4FromVertex3 promotes a world-space vertex to homogeneous form
// with the given w (1 for positions).
func vertex4FromVertex3(v models.MeshVertex, w float64) Vertex4 {
	return Vertex4{
		Position: math3d.V4FromV3(v.Position, w),
		UV:       v.UV,
		Normal:   math3d.V4FromV3(v.Normal, 1),
	}
}

// transformed applies m to Position only. Normal and UV are carried
// through untouched: clipping only needs Position in clip space to
// evaluate plane membership, and transforming a normal by a
// perspective projection matrix (rather than leaving it in world space,
// or applying the proper inverse-transpose of a rigid transform) would
// corrupt it. Both attributes still interpolate correctly across a clip
// intersection because lerpVertex4 blends them directly.
func (v Vertex4) transformed(m math3d.Mat4) Vertex4 {
	return Vertex4{
		Position: m.MulVec4(v.Position),
		UV:       v.UV,
		Normal:   v.Normal,
	}
}

// lerpVertex4 linearly blends the full vertex record (position, UV,
// normal) by t, in homogeneous space (no perspective divide).
func lerpVertex4(a, b Vertex4, t float64) Vertex4 {
	return Vertex4{
		Position: a.Position.Lerp(b.Position, t),
		UV:       a.UV.Lerp(b.UV, t),
		Normal:   a.Normal.Lerp(b.Normal, t),
	}
}

// clipPlane is a signed-distance function over clip-space points;
// d(p) >= 0 means p is on the inside of the half-space.
type clipPlane func(p math3d.Vec4) float64

// the six frustum planes in clip space: -w <= x,y,z <= w.
var frustumPlanes = [6]clipPlane{
	func(p math3d.Vec4) float64 { return p.W + p.X },
	func(p math3d.Vec4) float64 { return p.W - p.X },
	func(p math3d.Vec4) float64 { return p.W + p.Y },
	func(p math3d.Vec4) float64 { return p.W - p.Y },
	func(p math3d.Vec4) float64 { return p.W + p.Z },
	func(p math3d.Vec4) float64 { return p.W - p.Z },
}

// clipAgainstPlane runs one Sutherland-Hodgman pass of poly against a
// single half-space, walking edges (poly[k], poly[k+1]).
func clipAgainstPlane(poly []Vertex4, plane clipPlane) []Vertex4 {
	if len(poly) == 0 {
		return nil
	}
	out := make([]Vertex4, 0, len(poly)+1)
	n := len(poly)
	for k := 0; k < n; k++ {
		cur := poly[k]
		next := poly[(k+1)%n]
		dCur := plane(cur.Position)
		dNext := plane(next.Position)
		curIn := dCur >= 0
		nextIn := dNext >= 0

		switch {
		case curIn && nextIn:
			out = append(out, next)
		case curIn && !nextIn:
			t := dCur / (dCur - dNext)
			out = append(out, lerpVertex4(cur, next, t))
		case !curIn && nextIn:
			t := dCur / (dCur - dNext)
			out = append(out, lerpVertex4(cur, next, t), next)
		default:
			// both outside: emit nothing
		}
	}
	return out
}

// clipPolygon clips a polygon against all six frustum half-spaces in
// sequence, returning the (possibly empty) convex remainder. Clipping
// happens in homogeneous space so intersections can be computed without
// the discontinuities a perspective divide against a negative w would
// introduce.
func clipPolygon(poly []Vertex4) []Vertex4 {
	for _, plane := range frustumPlanes {
		if len(poly) == 0 {
			return poly
		}
		poly = clipAgainstPlane(poly, plane)
	}
	return poly
}

// fanTriangulate decomposes a convex polygon (p0...pn-1) into triangles
// (p0, pi-1, pi) for i = 2..n-1, all sharing p0. Polygons smaller than a
// triangle yield no triangles.
func fanTriangulate(poly []Vertex4) [][3]Vertex4 {
	if len(poly) < 3 {
		return nil
	}
	tris := make([][3]Vertex4, 0, len(poly)-2)
	for i := 2; i < len(poly); i++ {
		tris = append(tris, [3]Vertex4{poly[0], poly[i-1], poly[i]})
	}
	return tris
}
