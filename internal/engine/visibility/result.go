// Package visibility defines the visibility query the render pipeline runs
// per viewpoint, and a reference implementation over a scene.Scene.
package visibility

import (
	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// VisibleLight is a light that affects the current viewpoint.
type VisibleLight struct {
	Type         scene.LightType
	FinalColor   math.Vec4 // linear color * intensity
	LocalToWorld math.Mat4
	Light        *scene.Light
}

// SplitData describes the world-space coverage of one shadow cascade.
type SplitData struct {
	CullingSphere math.Vec4 // center xyz, radius w
}

// Result is the output of one visibility query. Light order is stable for
// the lifetime of the result.
type Result interface {
	// VisibleLights returns the lights affecting the viewpoint.
	VisibleLights() []VisibleLight

	// ShadowCasterBounds reports the bounds of the shadow casters a visible
	// light can project into the shadowed volume, and false if there are none.
	ShadowCasterBounds(lightIndex int) (scene.AABB, bool)

	// ComputeDirectionalShadowMatrices fits the view and projection of one
	// cascade of a directional light. splitRatios are fractions of the
	// shadow distance where cascades end.
	ComputeDirectionalShadowMatrices(lightIndex, cascadeIndex, cascadeCount int,
		splitRatios [3]float32, tileSize int, nearPlaneOffset float32) (view, proj math.Mat4, split SplitData)

	// ShadowCasters returns the casters a light projects into one cascade.
	ShadowCasters(lightIndex int, split SplitData) []*scene.Object

	// Objects returns the visible objects of one draw queue.
	Objects(queue scene.Queue) []*scene.Object
}

// Culler runs visibility queries. Cull fails when the parameters describe
// an empty volume.
type Culler interface {
	Cull(p camera.CullingParameters) (Result, bool)
}
