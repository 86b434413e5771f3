package lighting

import (
	"testing"

	"github.com/Faultbox/atlasrp/internal/config"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
	"github.com/Faultbox/atlasrp/pkg/math"
)

type stubResult struct {
	lights    []visibility.VisibleLight
	noCasters bool
}

func (r *stubResult) VisibleLights() []visibility.VisibleLight { return r.lights }

func (r *stubResult) ShadowCasterBounds(int) (scene.AABB, bool) {
	return scene.NewAABB(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}), !r.noCasters
}

func (r *stubResult) ComputeDirectionalShadowMatrices(lightIndex, cascadeIndex, cascadeCount int,
	splitRatios [3]float32, tileSize int, nearPlaneOffset float32) (math.Mat4, math.Mat4, visibility.SplitData) {
	return math.Identity(), math.Ortho(-5, 5, -5, 5, 0.1, 20), visibility.SplitData{CullingSphere: math.Vec4{0, 0, 0, 5}}
}

func (r *stubResult) ShadowCasters(int, visibility.SplitData) []*scene.Object { return nil }

func (r *stubResult) Objects(scene.Queue) []*scene.Object { return nil }

func visible(l *scene.Light) visibility.VisibleLight {
	return visibility.VisibleLight{
		Type:         l.Type,
		FinalColor:   l.FinalColor(),
		LocalToWorld: l.LocalToWorld(),
		Light:        l,
	}
}

func sun(intensity float32) visibility.VisibleLight {
	return visible(scene.NewDirectionalLight("sun", math.Vec3{X: 1, Y: 0.5, Z: 0.25}, intensity, SunRotation(45, 60)))
}

func pointLight() visibility.VisibleLight {
	return visible(&scene.Light{Name: "lamp", Type: scene.Point, Color: math.Vec3{X: 1}, Intensity: 1, Range: 10})
}

func setup(res *stubResult) (*Collector, *render.Recorder, *uniform.Standard) {
	u := uniform.NewStandard(uniform.NewTable())
	c := New(u, false)
	rec := render.NewRecorder(render.Capabilities{})
	c.Setup(rec, res, config.DefaultShadows())
	return c, rec, u
}

func TestSetupPublishesDirectionalLights(t *testing.T) {
	res := &stubResult{lights: []visibility.VisibleLight{pointLight(), sun(2), sun(1)}}
	c, rec, u := setup(res)

	if c.Count() != 2 {
		t.Fatalf("count = %d, want 2", c.Count())
	}
	if n, _ := rec.Int(u.DirLightCount); n != 2 {
		t.Errorf("published count = %d, want 2", n)
	}

	colors := rec.Vectors(u.DirLightColors)
	if len(colors) != MaxDirectionalLights {
		t.Fatalf("colors published = %d, want %d", len(colors), MaxDirectionalLights)
	}
	if colors[0] != (math.Vec4{2, 1, 0.5, 1}) {
		t.Errorf("color 0 = %v", colors[0])
	}

	dir := rec.Vectors(u.DirLightDirections)[0].XYZ()
	want := SunDirection(45, 60)
	if !near3(dir, want) {
		t.Errorf("direction = %v, want %v", dir, want)
	}

	data := rec.Vectors(u.DirLightShadowData)
	if data[0] != (math.Vec4{1, 0, 0, 0}) || data[1] != (math.Vec4{1, 4, 0, 0}) {
		t.Errorf("shadow data = %v", data[:2])
	}

	draws := rec.EventsOf(render.EventDrawShadows)
	if len(draws) != 8 {
		t.Fatalf("shadow draws = %d, want 8", len(draws))
	}
	// Visible index, not collector slot, identifies the light.
	if draws[0].Shadows.LightIndex != 1 || draws[4].Shadows.LightIndex != 2 {
		t.Errorf("light indices = %d, %d, want 1, 2", draws[0].Shadows.LightIndex, draws[4].Shadows.LightIndex)
	}
	c.Cleanup()
	if rec.LiveTextures() != 0 || len(rec.Faults) != 0 {
		t.Errorf("live = %d faults = %v", rec.LiveTextures(), rec.Faults)
	}
}

func TestSetupCapsDirectionalLights(t *testing.T) {
	res := &stubResult{}
	for i := 0; i < 6; i++ {
		res.lights = append(res.lights, sun(float32(i+1)))
	}
	c, rec, u := setup(res)

	if c.Count() != MaxDirectionalLights {
		t.Errorf("count = %d, want %d", c.Count(), MaxDirectionalLights)
	}
	if n, _ := rec.Int(u.DirLightCount); n != MaxDirectionalLights {
		t.Errorf("published count = %d", n)
	}
	if c.Shadows().ReservedCount() != 4 {
		t.Errorf("reserved = %d, want 4", c.Shadows().ReservedCount())
	}
	if c.Color(3)[0] != 4 {
		t.Errorf("slot 3 color = %v, want the fourth light", c.Color(3))
	}
}

func TestSetupWithoutCasters(t *testing.T) {
	res := &stubResult{noCasters: true}
	for i := 0; i < 4; i++ {
		res.lights = append(res.lights, sun(1))
	}
	c, rec, u := setup(res)

	if n, _ := rec.Int(u.DirLightCount); n != 4 {
		t.Errorf("published count = %d, want 4", n)
	}
	for i := 0; i < 4; i++ {
		if c.ShadowData(i) != (math.Vec4{}) {
			t.Errorf("light %d shadow data = %v, want zero", i, c.ShadowData(i))
		}
	}
	if rec.Acquired() != 0 {
		t.Errorf("atlas acquired without reservations")
	}

	c.Cleanup()
	if rec.Released() != 0 || len(rec.Faults) != 0 {
		t.Errorf("released = %d faults = %v", rec.Released(), rec.Faults)
	}
}

func TestSetupNoLights(t *testing.T) {
	c, rec, u := setup(&stubResult{})

	if c.Count() != 0 {
		t.Errorf("count = %d, want 0", c.Count())
	}
	if n, ok := rec.Int(u.DirLightCount); !ok || n != 0 {
		t.Errorf("published count = %d (%v), want 0", n, ok)
	}
}

func TestSetupSampleNesting(t *testing.T) {
	_, rec, _ := setup(&stubResult{lights: []visibility.VisibleLight{sun(1)}})

	execs := rec.EventsOf(render.EventExecute)
	last := execs[len(execs)-1]
	if last.Buffer != bufferName {
		t.Fatalf("last buffer = %q, want %q", last.Buffer, bufferName)
	}
	cmds := last.Commands
	if cmds[0].Op != render.OpBeginSample || cmds[len(cmds)-1].Op != render.OpEndSample {
		t.Errorf("lighting buffer not wrapped in a sample: %v ... %v", cmds[0].Op, cmds[len(cmds)-1].Op)
	}
}

func TestSunRotationFacesAwayFromSun(t *testing.T) {
	for _, a := range [][2]float32{{0, 45}, {90, 30}, {200, 80}, {315, 10}} {
		fwd := SunRotation(a[0], a[1]).ToMat4().Column(2).XYZ()
		want := SunDirection(a[0], a[1]).Neg()
		if !near3(fwd, want) {
			t.Errorf("SunRotation(%v, %v) forward = %v, want %v", a[0], a[1], fwd, want)
		}
	}
}

func near3(a, b math.Vec3) bool {
	const eps = 1e-4
	d := a.Sub(b)
	return d.X > -eps && d.X < eps && d.Y > -eps && d.Y < eps && d.Z > -eps && d.Z < eps
}
