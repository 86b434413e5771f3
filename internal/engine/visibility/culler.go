package visibility

import (
	"go.uber.org/zap"

	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/logger"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// SceneCuller answers visibility queries against an in-memory scene.
type SceneCuller struct {
	Scene *scene.Scene
}

// NewSceneCuller creates a culler for s.
func NewSceneCuller(s *scene.Scene) *SceneCuller {
	return &SceneCuller{Scene: s}
}

// Cull collects the lights and objects visible from p.
func (c *SceneCuller) Cull(p camera.CullingParameters) (Result, bool) {
	if c.Scene == nil || !(p.Far > p.Near) {
		return nil, false
	}

	frustum := ExtractFrustum(p.Projection.Mul(p.View))
	res := &sceneResult{params: p}

	for _, l := range c.Scene.Lights {
		if l.Disabled {
			continue
		}
		if l.Type != scene.Directional && !frustum.IntersectsSphere(l.Position, l.Range) {
			continue
		}
		res.lights = append(res.lights, VisibleLight{
			Type:         l.Type,
			FinalColor:   l.FinalColor(),
			LocalToWorld: l.LocalToWorld(),
			Light:        l,
		})
	}

	for _, o := range c.Scene.Objects {
		if o.CastShadows {
			res.casters = append(res.casters, o)
		}
		if frustum.IntersectsAABB(o.Bounds) {
			res.visible = append(res.visible, o)
		}
	}

	logger.Debug("visibility query",
		zap.Int("lights", len(res.lights)),
		zap.Int("objects", len(res.visible)),
		zap.Int("casters", len(res.casters)),
		zap.Float32("shadowDistance", p.ShadowDistance),
	)
	return res, true
}

type sceneResult struct {
	params  camera.CullingParameters
	lights  []VisibleLight
	visible []*scene.Object
	casters []*scene.Object
}

func (r *sceneResult) VisibleLights() []VisibleLight {
	return r.lights
}

func (r *sceneResult) directional(lightIndex int) (VisibleLight, bool) {
	if lightIndex < 0 || lightIndex >= len(r.lights) {
		return VisibleLight{}, false
	}
	l := r.lights[lightIndex]
	return l, l.Type == scene.Directional
}

// shadowSphere bounds the part of the view frustum that receives shadows.
func (r *sceneResult) shadowSphere() math.Vec4 {
	return sliceSphere(r.params, r.params.Near, max(r.params.ShadowDistance, r.params.Near))
}

func (r *sceneResult) ShadowCasterBounds(lightIndex int) (scene.AABB, bool) {
	l, ok := r.directional(lightIndex)
	if !ok {
		return scene.AABB{}, false
	}
	casters := castersToward(r.casters, r.shadowSphere(), lightForward(l.LocalToWorld))
	if len(casters) == 0 {
		return scene.AABB{}, false
	}
	b := casters[0].Bounds
	for _, o := range casters[1:] {
		b = b.Union(o.Bounds)
	}
	return b, true
}

func (r *sceneResult) ComputeDirectionalShadowMatrices(lightIndex, cascadeIndex, cascadeCount int,
	splitRatios [3]float32, tileSize int, nearPlaneOffset float32) (view, proj math.Mat4, split SplitData) {
	l, ok := r.directional(lightIndex)
	if !ok {
		return math.Identity(), math.Identity(), SplitData{}
	}
	near, far := cascadeRange(r.params, cascadeIndex, cascadeCount, splitRatios)
	sphere := sliceSphere(r.params, near, far)

	casterBounds, hasCasters := r.ShadowCasterBounds(lightIndex)
	view, proj = fitCascade(l.LocalToWorld, sphere, casterBounds, hasCasters, tileSize, nearPlaneOffset)
	return view, proj, SplitData{CullingSphere: sphere}
}

func (r *sceneResult) ShadowCasters(lightIndex int, split SplitData) []*scene.Object {
	l, ok := r.directional(lightIndex)
	if !ok {
		return nil
	}
	return castersToward(r.casters, split.CullingSphere, lightForward(l.LocalToWorld))
}

func (r *sceneResult) Objects(queue scene.Queue) []*scene.Object {
	var out []*scene.Object
	for _, o := range r.visible {
		if o.Queue == queue {
			out = append(out, o)
		}
	}
	return out
}

// castersToward returns the casters that can throw a shadow into sphere when
// lit along forward: anything touching the sphere swept back toward the light.
func castersToward(casters []*scene.Object, sphere math.Vec4, forward math.Vec3) []*scene.Object {
	var out []*scene.Object
	center, radius := sphere.XYZ(), sphere.W()
	for _, o := range casters {
		d := o.Bounds.Center().Sub(center)
		// Distance along the direction pointing at the light.
		t := -d.Dot(forward)
		if t > 0 {
			d = d.Add(forward.Scale(t))
		}
		if d.Length() <= radius+o.Bounds.Radius() {
			out = append(out, o)
		}
	}
	return out
}
