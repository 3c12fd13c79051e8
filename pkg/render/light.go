package render

import (
	color "github.com/taigrr/facet/pkg/color"
	"github.com/taigrr/facet/pkg/math3d"
)

// LightKind distinguishes the two light variants the fragment routine
// understands. The set is closed and small, so a tagged struct is
// preferred here over an interface with per-kind implementations.
type LightKind int

const (
	// LightKindPoint attenuates by inverse-square distance from Position.
	LightKindPoint LightKind = iota
	// LightKindDirectional has no position, only a direction all rays share.
	LightKindDirectional
)

// Light is a point or directional light source.
type Light struct {
	Kind      LightKind
	Position  math3d.Vec3 // used when Kind == LightKindPoint
	Direction math3d.Vec3 // used when Kind == LightKindDirectional: the direction rays travel, e.g. (0,0,-1) for light heading in -z
	Color     color.FloatColor
}

// NewPointLight creates a point light at pos with the given color.
func NewPointLight(pos math3d.Vec3, c color.FloatColor) Light {
	return Light{Kind: LightKindPoint, Position: pos, Color: c}
}

// NewDirectionalLight creates a directional light along dir with the given color.
func NewDirectionalLight(dir math3d.Vec3, c color.FloatColor) Light {
	return Light{Kind: LightKindDirectional, Direction: dir.Normalize(), Color: c}
}

// NewPointLightWhite creates a white point light at pos.
func NewPointLightWhite(pos math3d.Vec3) Light {
	return NewPointLight(pos, color.White())
}

// NewDirectionalLightWhite creates a white directional light along dir.
func NewDirectionalLightWhite(dir math3d.Vec3) Light {
	return NewDirectionalLight(dir, color.White())
}
