package render

import (
	"math"

	color "github.com/taigrr/facet/pkg/color"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Surface is the external collaborator Present hands the finished frame
// to. Blit receives width, height, and a row-major slice of packed
// ARGB8888 pixels (A in the most significant byte, B in the least).
// *Framebuffer is the concrete implementation; terminal output
// (terminal.go) and PNG snapshotting both read from a Framebuffer. The
// renderer itself is agnostic to how the pixels are displayed.
type Surface interface {
	Blit(width, height int, pixels []uint32)
}

// Renderer owns the color/depth buffers, camera-derived matrices,
// texture table, and lighting state for a single-threaded render loop.
// Callers submit meshes with Mesh and flush a completed frame with
// Present; no operation blocks except Present's delegation to the
// surface collaborator.
type Renderer struct {
	color  *Frame[color.FloatColor]
	depth  *Frame[float64]
	raster *Rasterizer

	worldToView math3d.Mat4
	projection  math3d.Mat4
	invProj     math3d.Mat4
	invWorld    math3d.Mat4

	textures map[int]*Texture
	material Material
	ambient  color.FloatColor
	lights   []Light

	clearColor color.FloatColor
}

// NewRenderer allocates a width x height renderer with an identity
// world-to-view matrix, a default perspective projection, a default
// white material, and a single white point light above the origin.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{
		color:       NewFrame[color.FloatColor](width, height, color.Black()),
		depth:       NewFrame[float64](width, height, math.Inf(1)),
		worldToView: math3d.Identity(),
		projection:  math3d.Perspective(math.Pi/3, float64(width)/float64(height), 0.1, 1000),
		textures:    make(map[int]*Texture),
		material:    DefaultMaterial(),
		ambient:     color.New(1, 0.1, 0.1, 0.1),
		lights:      []Light{NewPointLightWhite(math3d.V3(0, 10, 0))},
		clearColor:  color.Black(),
	}
	r.raster = NewRasterizer(r.color, r.depth)
	r.invProj = r.projection.Inverse()
	r.invWorld = r.worldToView.Inverse()
	return r
}

// SetFromCamera sets the world-to-view matrix to the inverse of the
// camera's eye (camera-to-world) matrix and adopts the camera's
// projection matrix directly.
func (r *Renderer) SetFromCamera(cam *Camera) {
	r.worldToView = cam.Eye().Inverse()
	r.projection = cam.ProjectionMatrix()
	if r.projection.Determinant() == 0 {
		panic("render: camera projection matrix is not invertible")
	}
	r.invProj = r.projection.Inverse()
	r.invWorld = r.worldToView.Inverse()
}

// SetTexture inserts or replaces the texture at id. Inserting an id
// that already exists replaces the prior texture.
func (r *Renderer) SetTexture(id int, tex *Texture) {
	r.textures[id] = tex
}

// SetMaterial sets the active material applied to triangles submitted
// by subsequent calls to Mesh.
func (r *Renderer) SetMaterial(m Material) {
	r.material = m
}

// SetAmbient sets the ambient light color.
func (r *Renderer) SetAmbient(c color.FloatColor) {
	r.ambient = c
}

// SetClearColor sets the color the color buffer is cleared to by
// Present. Defaults to opaque black.
func (r *Renderer) SetClearColor(c color.FloatColor) {
	r.clearColor = c
}

// AddLight appends a light to the active light list.
func (r *Renderer) AddLight(l Light) {
	r.lights = append(r.lights, l)
}

// ClearLights removes all active lights.
func (r *Renderer) ClearLights() {
	r.lights = r.lights[:0]
}

// Width returns the renderer's frame width in pixels.
func (r *Renderer) Width() int { return r.color.Width() }

// Height returns the renderer's frame height in pixels.
func (r *Renderer) Height() int { return r.color.Height() }

// Mesh submits every face of mesh through the clip -> fan-triangulate
// -> rasterize pipeline, resolving each face's material (if any) into
// a render.Material for the duration of that face's fragment calls.
func (r *Renderer) Mesh(mesh *models.Mesh) {
	clipProj := r.projection.Mul(r.worldToView)

	frustum := NewFrustumFromMatrix(clipProj)
	box := NewAABB(mesh.BoundsMin, mesh.BoundsMax)
	if !frustum.IntersectAABB(box) {
		return
	}

	savedMaterial := r.material

	for fi := range mesh.Faces {
		face := mesh.Faces[fi]
		if mat := mesh.GetMaterial(face.Material); mat != nil {
			r.material = materialFromModel(*mat)
		}
		frag := r.makeFragment()

		tri := [3]Vertex4{
			vertex4FromVertex3(mesh.Vertices[face.V[0]], 1).transformed(clipProj),
			vertex4FromVertex3(mesh.Vertices[face.V[1]], 1).transformed(clipProj),
			vertex4FromVertex3(mesh.Vertices[face.V[2]], 1).transformed(clipProj),
		}
		clipped := clipPolygon(tri[:])
		for _, t := range fanTriangulate(clipped) {
			r.rasterizeClipTriangle(t, frag)
		}

		r.material = savedMaterial
	}
}

// materialFromModel resolves a mesh-level material (glTF-style) into the
// renderer's active-material shape.
func materialFromModel(m models.Material) Material {
	return Material{
		Diffuse:    color.New(m.BaseColor[3], m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]),
		Ambient:    color.New(m.BaseColor[3], m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]),
		TextureID:  m.TextureID,
		HasTexture: m.HasTexture,
	}
}

// rasterizeClipTriangle back-transforms a clipped, still-homogeneous
// triangle to world/camera space, perspective-divides it, and hands the
// resulting triangle to the rasterizer along with a fragment closure
// bound to current state.
func (r *Renderer) rasterizeClipTriangle(tri [3]Vertex4, frag FragmentFunc) {
	var ct ClipTriangle

	for i, v := range tri {
		camPos4 := r.invProj.MulVec4(v.Position)
		ct.Camera[i] = camPos4.PerspectiveDivide()
		worldPos4 := r.invWorld.MulVec4(camPos4)
		ct.World[i] = worldPos4.PerspectiveDivide()

		ct.Clip[i] = math3d.V4(v.Position.X/v.Position.W, v.Position.Y/v.Position.W, v.Position.Z/v.Position.W, v.Position.W)

		ct.Normal[i] = math3d.V3(v.Normal.X, v.Normal.Y, v.Normal.Z)
		ct.UV[i] = v.UV
	}

	r.raster.DrawTriangleOpt(ct, frag)
}

// makeFragment closes over the renderer's current texture table,
// material, ambient color, and lights, implementing the default
// fragment routine: texture sample modulated by ambient plus the sum
// of per-light contributions.
func (r *Renderer) makeFragment() FragmentFunc {
	mat := r.material
	ambient := r.ambient
	lights := r.lights
	var tex *Texture
	if mat.HasTexture {
		tex = r.textures[mat.TextureID]
	}

	return func(worldPos, normal math3d.Vec3, uv math3d.Vec2) color.FloatColor {
		sample := color.White()
		if tex != nil {
			sample = tex.SampleClamped(uv.X, uv.Y, FilterBilinear)
		}

		n := normal.Normalize()
		total := ambient.Mul(mat.Ambient)
		for _, l := range lights {
			switch l.Kind {
			case LightKindDirectional:
				// Direction is the ray's travel direction; the surface-facing
				// term is the dot of the reversed ray with the normal.
				intensity := math.Max(0, l.Direction.Negate().Dot(n))
				total = total.Add(mat.Diffuse.Mul(l.Color).Scale(intensity))
			case LightKindPoint:
				ray := l.Position.Sub(worldPos)
				d := ray.Len()
				if d > 0 {
					intensity := math.Max(0, ray.Scale(1/d).Dot(n)) / (d * d)
					total = total.Add(mat.Diffuse.Mul(l.Color).Scale(intensity))
				}
			}
		}

		return sample.Mul(total).Clamp()
	}
}

// Present hands the color buffer to surface as packed ARGB8888 pixels
// (A in the most significant byte, B in the least), then clears both
// the color and depth buffers for the next frame.
func (r *Renderer) Present(surface Surface) {
	raw := r.color.Raw()
	pixels := make([]uint32, len(raw))
	for i, c := range raw {
		pixels[i] = c.ToARGB8()
	}
	surface.Blit(r.Width(), r.Height(), pixels)

	r.color.Fill(r.clearColor)
	r.depth.Fill(math.Inf(1))
}
