package render

import (
	color "github.com/taigrr/facet/pkg/color"
)

// Material is the Renderer's single active material, set with SetMaterial
// and applied to every triangle submitted afterward. It is distinct from
// models.Material, which models a per-face material table carried on a
// loaded mesh; Renderer.Mesh resolves a mesh face's models.Material to a
// render.Material itself.
type Material struct {
	Diffuse  color.FloatColor
	Ambient  color.FloatColor
	Specular color.FloatColor // reserved, not read by the default fragment routine

	// TextureID indexes into the Renderer's texture table. HasTexture
	// distinguishes "no texture" from "texture id 0".
	TextureID  int
	HasTexture bool
}

// DefaultMaterial is a plain white diffuse/ambient material with no texture.
func DefaultMaterial() Material {
	return Material{
		Diffuse: color.White(),
		Ambient: color.White(),
	}
}
