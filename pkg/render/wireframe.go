package render

import (
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Wireframe draws mesh edges and reference geometry as screen-space
// lines through the same camera as the solid pipeline, without depth
// testing or shading. The viewer's x-ray mode runs on it.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe renderer drawing into fb.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// wMin keeps line endpoints strictly in front of the projection plane so
// the perspective divide below stays finite.
const wMin = 1e-4

// DrawLine3D projects a world-space segment and draws it. Segments
// crossing behind the camera are clipped against w = wMin in homogeneous
// space rather than dropped, so a line with one visible endpoint still
// renders up to w = wMin, just in front of the camera (not the near plane).
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, c Color) {
	vp := w.camera.ViewProjectionMatrix()
	a := vp.MulVec4(math3d.V4FromV3(p1, 1))
	b := vp.MulVec4(math3d.V4FromV3(p2, 1))

	if a.W < wMin && b.W < wMin {
		return
	}
	if a.W < wMin {
		a = clipLineEndpoint(a, b)
	} else if b.W < wMin {
		b = clipLineEndpoint(b, a)
	}

	x0, y0 := w.project(a)
	x1, y1 := w.project(b)
	w.fb.DrawLine(x0, y0, x1, y1, c)
}

// clipLineEndpoint slides the endpoint with w < wMin along the segment
// toward the in-front endpoint until it sits on w = wMin.
func clipLineEndpoint(out, in math3d.Vec4) math3d.Vec4 {
	t := (wMin - out.W) / (in.W - out.W)
	return out.Lerp(in, t)
}

// project maps a clip-space point to pixel coordinates.
func (w *Wireframe) project(p math3d.Vec4) (int, int) {
	ndcX := p.X / p.W
	ndcY := p.Y / p.W
	x := int((ndcX + 1) * 0.5 * float64(w.fb.Width))
	y := int((1 - ndcY) * 0.5 * float64(w.fb.Height))
	return x, y
}

// DrawMeshEdges draws the three edges of every face in the mesh after
// applying transform.
func (w *Wireframe) DrawMeshEdges(mesh *models.Mesh, transform math3d.Mat4, c Color) {
	for _, f := range mesh.Faces {
		v0 := transform.MulVec3(mesh.Vertices[f.V[0]].Position)
		v1 := transform.MulVec3(mesh.Vertices[f.V[1]].Position)
		v2 := transform.MulVec3(mesh.Vertices[f.V[2]].Position)

		w.DrawLine3D(v0, v1, c)
		w.DrawLine3D(v1, v2, c)
		w.DrawLine3D(v2, v0, c)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float64, c Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), c)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), c)
	}
}
