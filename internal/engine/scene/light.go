package scene

import "github.com/Faultbox/atlasrp/pkg/math"

// LightType distinguishes light sources.
type LightType int

const (
	Directional LightType = iota
	Point
	Spot
)

func (t LightType) String() string {
	switch t {
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	default:
		return "unknown"
	}
}

// ShadowMode selects how a light casts shadows.
type ShadowMode int

const (
	ShadowsNone ShadowMode = iota
	ShadowsHard
	ShadowsSoft
)

// Light is a light source in the scene.
// Directional lights shine along the +Z axis of their rotation.
type Light struct {
	Name           string
	Type           LightType
	Color          math.Vec3 // linear RGB
	Intensity      float32
	Shadows        ShadowMode
	ShadowStrength float32 // 0..1
	Position       math.Vec3
	Rotation       math.Quat
	Range          float32 // point and spot only
	Disabled       bool
}

// NewDirectionalLight creates a shadow-casting directional light.
func NewDirectionalLight(name string, color math.Vec3, intensity float32, rotation math.Quat) *Light {
	return &Light{
		Name:           name,
		Type:           Directional,
		Color:          color,
		Intensity:      intensity,
		Shadows:        ShadowsHard,
		ShadowStrength: 1,
		Rotation:       rotation,
	}
}

// LocalToWorld returns the light's transform.
func (l *Light) LocalToWorld() math.Mat4 {
	return math.Translate(l.Position.X, l.Position.Y, l.Position.Z).Mul(l.Rotation.ToMat4())
}

// FinalColor returns color scaled by intensity.
func (l *Light) FinalColor() math.Vec4 {
	return math.Vec4From(l.Color.Scale(l.Intensity), 1)
}
