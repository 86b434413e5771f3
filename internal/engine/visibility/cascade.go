package visibility

import (
	gomath "math"

	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// minCascadeDepth keeps every cascade slice non-empty.
const minCascadeDepth = 0.001

// lightForward returns the direction a light shines in: the +Z axis of its
// transform.
func lightForward(localToWorld math.Mat4) math.Vec3 {
	return localToWorld.Column(2).XYZ().Normalize()
}

// cascadeRange returns the view-space depth range of one cascade. Cascade i
// ends at splitRatios[i] * shadow distance; the last one ends at the shadow
// distance itself.
func cascadeRange(p camera.CullingParameters, cascadeIndex, cascadeCount int, splitRatios [3]float32) (near, far float32) {
	cascadeCount = min(max(cascadeCount, 1), len(splitRatios)+1)
	cascadeIndex = min(max(cascadeIndex, 0), cascadeCount-1)

	end := func(i int) float32 {
		if i >= cascadeCount-1 {
			return p.ShadowDistance
		}
		return splitRatios[i] * p.ShadowDistance
	}

	near = p.Near
	if cascadeIndex > 0 {
		near = max(end(cascadeIndex-1), p.Near)
	}
	far = max(end(cascadeIndex), near+minCascadeDepth)
	return near, far
}

// sliceSphere returns the smallest sphere centered on the view axis that
// contains the frustum slice between near and far.
func sliceSphere(p camera.CullingParameters, near, far float32) math.Vec4 {
	tanHalf := float32(gomath.Tan(float64(p.FovY) / 2))
	// Half diagonal of the slice per unit of depth.
	k := tanHalf * sqrt32(1+p.Aspect*p.Aspect)
	k2 := k * k

	z := min(0.5*(far+near)*(1+k2), far)
	rNear := sqrt32((z-near)*(z-near) + near*near*k2)
	rFar := sqrt32((far-z)*(far-z) + far*far*k2)

	center := p.Position.Add(p.Forward.Scale(z))
	return math.Vec4From(center, max(rNear, rFar))
}

// fitCascade builds the orthographic light view and projection covering
// sphere. The view origin is snapped to whole texels of a tileSize shadow
// map so the cascade does not shimmer as the viewpoint moves, and pulled
// back toward the light far enough to include every caster.
func fitCascade(localToWorld math.Mat4, sphere math.Vec4, casters scene.AABB, hasCasters bool,
	tileSize int, nearPlaneOffset float32) (view, proj math.Mat4) {
	right := localToWorld.Column(0).XYZ().Normalize()
	up := localToWorld.Column(1).XYZ().Normalize()
	forward := lightForward(localToWorld)

	center, radius := sphere.XYZ(), sphere.W()
	if tileSize > 0 && radius > 0 {
		texel := 2 * radius / float32(tileSize)
		cx := floor32(center.Dot(right)/texel) * texel
		cy := floor32(center.Dot(up)/texel) * texel
		cz := center.Dot(forward)
		center = right.Scale(cx).Add(up.Scale(cy)).Add(forward.Scale(cz))
	}

	back := radius
	if hasCasters {
		for _, c := range casters.Corners() {
			if t := -c.Sub(center).Dot(forward); t > back {
				back = t
			}
		}
	}

	eye := center.Sub(forward.Scale(back))
	view = math.LookAt(eye, center, up)
	proj = math.Ortho(-radius, radius, -radius, radius, -nearPlaneOffset, back+radius)
	return view, proj
}

func sqrt32(x float32) float32 {
	return float32(gomath.Sqrt(float64(x)))
}

func floor32(x float32) float32 {
	return float32(gomath.Floor(float64(x)))
}
