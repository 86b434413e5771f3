package camera

import (
	gomath "math"

	"github.com/Faultbox/atlasrp/pkg/math"
)

// ClearFlags says what a viewpoint clears before drawing. Each value clears
// no more than the one before it.
type ClearFlags int

const (
	ClearBackground ClearFlags = iota + 1 // color and depth, background drawn over
	ClearColor                            // color and depth
	ClearDepth                            // depth only
	ClearNothing
)

// Viewpoint is a perspective eye a frame is rendered for.
type Viewpoint struct {
	Name       string
	Position   math.Vec3
	Target     math.Vec3
	Up         math.Vec3
	FovY       float32 // radians
	Near       float32
	Far        float32
	Width      int
	Height     int
	ClearFlags ClearFlags
	Background math.Vec4 // linear RGBA
}

// NewViewpoint returns a viewpoint with a 60 degree field of view looking
// down -Z from the origin.
func NewViewpoint(name string, width, height int) *Viewpoint {
	return &Viewpoint{
		Name:       name,
		Target:     math.Vec3{Z: -1},
		Up:         math.Vec3{Y: 1},
		FovY:       float32(gomath.Pi / 3),
		Near:       0.3,
		Far:        1000,
		Width:      width,
		Height:     height,
		ClearFlags: ClearBackground,
		Background: math.Vec4{0.1, 0.1, 0.15, 1},
	}
}

// Aspect returns width / height.
func (v *Viewpoint) Aspect() float32 {
	if v.Height == 0 {
		return 0
	}
	return float32(v.Width) / float32(v.Height)
}

// Forward returns the normalized viewing direction.
func (v *Viewpoint) Forward() math.Vec3 {
	return v.Target.Sub(v.Position).Normalize()
}

// ViewMatrix returns the world to view transform.
func (v *Viewpoint) ViewMatrix() math.Mat4 {
	return math.LookAt(v.Position, v.Target, v.Up)
}

// ProjectionMatrix returns the view to clip transform.
func (v *Viewpoint) ProjectionMatrix() math.Mat4 {
	return math.Perspective(v.FovY, v.Aspect(), v.Near, v.Far)
}

// CullingParameters describes the volume a visibility query runs against.
type CullingParameters struct {
	Position       math.Vec3
	Forward        math.Vec3
	Up             math.Vec3
	FovY           float32
	Aspect         float32
	Near           float32
	Far            float32
	View           math.Mat4
	Projection     math.Mat4
	ShadowDistance float32
}

// CullingParameters returns the culling volume for the viewpoint. It fails
// for degenerate viewpoints: an empty viewport, a collapsed or inverted depth
// range, an unusable field of view, or a zero viewing direction.
func (v *Viewpoint) CullingParameters() (CullingParameters, bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return CullingParameters{}, false
	}
	if !(v.Near > 0) || !(v.Far > v.Near) {
		return CullingParameters{}, false
	}
	if !(v.FovY > 0) || v.FovY >= gomath.Pi {
		return CullingParameters{}, false
	}
	forward := v.Forward()
	if forward.Length() == 0 {
		return CullingParameters{}, false
	}
	up := forward.Cross(v.Up).Cross(forward).Normalize()
	if up.Length() == 0 {
		return CullingParameters{}, false
	}

	return CullingParameters{
		Position:       v.Position,
		Forward:        forward,
		Up:             up,
		FovY:           v.FovY,
		Aspect:         v.Aspect(),
		Near:           v.Near,
		Far:            v.Far,
		View:           v.ViewMatrix(),
		Projection:     v.ProjectionMatrix(),
		ShadowDistance: v.Far,
	}, true
}
