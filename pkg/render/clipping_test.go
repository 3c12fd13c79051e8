package render

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

func v4p(x, y, z, w float64) Vertex4 {
	return Vertex4{Position: math3d.V4(x, y, z, w)}
}

func TestClipAgainstPlaneAllInside(t *testing.T) {
	poly := []Vertex4{v4p(-0.5, -0.5, 0, 1), v4p(0.5, -0.5, 0, 1), v4p(0, 0.5, 0, 1)}
	plane := frustumPlanes[0] // w + x >= 0
	out := clipAgainstPlane(poly, plane)
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3 (fully inside triangle kept whole)", len(out))
	}
	// Each edge emits its second endpoint, so one pass over an n-gon
	// rotates the vertex list by one; cyclic order is what's preserved.
	for i := range out {
		if out[i].Position != poly[(i+1)%3].Position {
			t.Fatalf("vertex %d = %v, want %v (cyclic order preserved)", i, out[i].Position, poly[(i+1)%3].Position)
		}
	}
}

func TestClipPolygonFullyOutside(t *testing.T) {
	// entirely beyond the +x frustum edge: w - x < 0 everywhere (x > w)
	poly := []Vertex4{v4p(5, 0, 0, 1), v4p(6, 0, 0, 1), v4p(5, 1, 0, 1)}
	out := clipPolygon(poly)
	if len(out) != 0 {
		t.Fatalf("len(out) = %d, want 0 (fully outside triangle removed)", len(out))
	}
}

func TestClipPolygonPreservesConvexity(t *testing.T) {
	// straddles the near plane (w + z >= 0): one vertex behind, two in front
	poly := []Vertex4{v4p(0, 0, -2, 1), v4p(1, 0, 0.5, 1), v4p(-1, 0, 0.5, 1)}
	out := clipPolygon(poly)
	if len(out) < 3 {
		t.Fatalf("len(out) = %d, want >= 3 after clipping a straddling triangle", len(out))
	}
	// A convex polygon's fan triangulation must cover every vertex exactly once
	// as either the fixed apex or a rim vertex; just assert we can fan it.
	tris := fanTriangulate(out)
	if len(tris) != len(out)-2 {
		t.Fatalf("fanTriangulate produced %d triangles for %d-gon, want %d", len(tris), len(out), len(out)-2)
	}
}

func TestFanTriangulateTooSmall(t *testing.T) {
	if got := fanTriangulate(nil); got != nil {
		t.Fatalf("fanTriangulate(nil) = %v, want nil", got)
	}
	if got := fanTriangulate([]Vertex4{v4p(0, 0, 0, 1), v4p(1, 0, 0, 1)}); got != nil {
		t.Fatalf("fanTriangulate(2 verts) = %v, want nil", got)
	}
}

func TestFanTriangulateQuad(t *testing.T) {
	poly := []Vertex4{v4p(0, 0, 0, 1), v4p(1, 0, 0, 1), v4p(1, 1, 0, 1), v4p(0, 1, 0, 1)}
	tris := fanTriangulate(poly)
	if len(tris) != 2 {
		t.Fatalf("len(tris) = %d, want 2", len(tris))
	}
	if tris[0][0] != poly[0] || tris[1][0] != poly[0] {
		t.Fatalf("every fan triangle must share apex poly[0]")
	}
}

func TestLerpVertex4Midpoint(t *testing.T) {
	a := Vertex4{Position: math3d.V4(0, 0, 0, 1), UV: math3d.V2(0, 0)}
	b := Vertex4{Position: math3d.V4(2, 2, 2, 1), UV: math3d.V2(1, 1)}
	m := lerpVertex4(a, b, 0.5)
	want := math3d.V4(1, 1, 1, 1)
	if math.Abs(m.Position.X-want.X) > 1e-9 || math.Abs(m.Position.Y-want.Y) > 1e-9 {
		t.Fatalf("midpoint = %v, want %v", m.Position, want)
	}
	if math.Abs(m.UV.X-0.5) > 1e-9 || math.Abs(m.UV.Y-0.5) > 1e-9 {
		t.Fatalf("midpoint UV = %v, want (0.5, 0.5)", m.UV)
	}
}

func TestClipPolygonAgainstAllSixPlanes(t *testing.T) {
	// A triangle entirely inside the unit frustum (w=1, all coords in
	// [-1,1]) must survive all six planes with the same three vertices in
	// the same order: each pass rotates a triangle by one, and six
	// rotations bring it back around.
	poly := []Vertex4{v4p(-0.2, -0.2, -0.2, 1), v4p(0.2, -0.2, -0.2, 1), v4p(0, 0.2, -0.2, 1)}
	out := clipPolygon(poly)
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3 (already inside every half-space)", len(out))
	}
	for i := range out {
		if out[i].Position != poly[i].Position {
			t.Fatalf("vertex %d = %v, want %v", i, out[i].Position, poly[i].Position)
		}
	}
}
