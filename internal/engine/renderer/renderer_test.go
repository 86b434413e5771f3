package renderer

import (
	"slices"
	"testing"

	"github.com/Faultbox/atlasrp/internal/config"
	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/lighting"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
	"github.com/Faultbox/atlasrp/pkg/math"
)

func testScene() *scene.Scene {
	s := scene.New()
	s.AddLight(scene.NewDirectionalLight("sun", math.Vec3{X: 1, Y: 1, Z: 1}, 1, lighting.SunRotation(30, 50)))
	s.AddObject(&scene.Object{
		Name:   "ground",
		Bounds: scene.NewAABB(math.Vec3{Y: -0.5}, math.Vec3{X: 20, Y: 0.5, Z: 20}),
		Queue:  scene.QueueOpaque,
	})
	s.AddObject(&scene.Object{
		Name:        "crate",
		Bounds:      scene.NewAABB(math.Vec3{Y: 1}, math.Vec3{X: 1, Y: 1, Z: 1}),
		Queue:       scene.QueueOpaque,
		CastShadows: true,
	})
	s.AddObject(&scene.Object{
		Name:   "glass",
		Bounds: scene.NewAABB(math.Vec3{X: 3, Y: 1}, math.Vec3{X: 1, Y: 1, Z: 0.1}),
		Queue:  scene.QueueTransparent,
	})
	return s
}

func testViewpoint() *camera.Viewpoint {
	vp := camera.NewViewpoint("main", 640, 480)
	vp.Position = math.Vec3{Y: 8, Z: 15}
	vp.Target = math.Vec3{}
	return vp
}

func newTestRenderer(culler visibility.Culler) (*ViewpointRenderer, *uniform.Standard) {
	u := uniform.NewStandard(uniform.NewTable())
	return NewViewpointRenderer(culler, u, Settings{DynamicBatching: true}, false), u
}

func TestRenderOrder(t *testing.T) {
	r, _ := newTestRenderer(visibility.NewSceneCuller(testScene()))
	rec := render.NewRecorder(render.Capabilities{})
	r.Render(rec, testViewpoint(), config.DefaultShadows())

	kinds := rec.Kinds()
	if len(kinds) == 0 || kinds[len(kinds)-1] != render.EventSubmit {
		t.Fatalf("events = %v, want to end with Submit", kinds)
	}

	lastShadow := -1
	for i, k := range kinds {
		if k == render.EventDrawShadows {
			lastShadow = i
		}
	}
	if lastShadow < 0 {
		t.Fatal("no shadow draws")
	}

	setup := slices.Index(kinds, render.EventSetupViewpoint)
	if setup < lastShadow {
		t.Errorf("viewpoint setup at %d before last shadow draw at %d", setup, lastShadow)
	}

	var passes []render.EventKind
	for _, k := range kinds[setup:] {
		if k == render.EventDrawGeometry || k == render.EventDrawBackground {
			passes = append(passes, k)
		}
	}
	want := []render.EventKind{render.EventDrawGeometry, render.EventDrawBackground, render.EventDrawGeometry}
	if !slices.Equal(passes, want) {
		t.Errorf("passes = %v, want %v", passes, want)
	}

	geo := rec.EventsOf(render.EventDrawGeometry)
	if geo[0].Geometry.Queue != scene.QueueOpaque || geo[1].Geometry.Queue != scene.QueueTransparent {
		t.Errorf("queues = %v, %v", geo[0].Geometry.Queue, geo[1].Geometry.Queue)
	}
	if geo[0].Geometry.Sort != render.SortFrontToBack || geo[1].Geometry.Sort != render.SortBackToFront {
		t.Error("unexpected sort criteria")
	}
	if !geo[0].Geometry.DynamicBatching || geo[0].Geometry.Instancing {
		t.Error("settings not passed to geometry passes")
	}

	if rec.LiveTextures() != 0 {
		t.Errorf("live textures = %d after render", rec.LiveTextures())
	}
	if len(rec.Faults) != 0 {
		t.Errorf("faults: %v", rec.Faults)
	}
}

func TestRenderPublishesLighting(t *testing.T) {
	r, u := newTestRenderer(visibility.NewSceneCuller(testScene()))
	rec := render.NewRecorder(render.Capabilities{})
	r.Render(rec, testViewpoint(), config.DefaultShadows())

	if n, _ := rec.Int(u.DirLightCount); n != 1 {
		t.Errorf("light count = %d, want 1", n)
	}
	data := rec.Vectors(u.DirLightShadowData)
	if len(data) == 0 || data[0][0] != 1 {
		t.Errorf("shadow data = %v, want strength 1", data)
	}
	if n, _ := rec.Int(u.CascadeCount); n != 4 {
		t.Errorf("cascade count = %d, want 4", n)
	}
	pos := rec.Vectors(u.CameraPosition)
	if len(pos) != 1 || pos[0] != (math.Vec4{0, 8, 15, 1}) {
		t.Errorf("camera position = %v", pos)
	}
}

func TestRenderClampsShadowDistanceToFarPlane(t *testing.T) {
	var got camera.CullingParameters
	culler := cullerFunc(func(p camera.CullingParameters) (visibility.Result, bool) {
		got = p
		return nil, false
	})
	r, _ := newTestRenderer(culler)
	vp := testViewpoint()
	vp.Far = 40

	r.Render(render.NewRecorder(render.Capabilities{}), vp, config.DefaultShadows())
	if got.ShadowDistance != 40 {
		t.Errorf("shadow distance = %f, want 40", got.ShadowDistance)
	}

	vp.Far = 1000
	r.Render(render.NewRecorder(render.Capabilities{}), vp, config.DefaultShadows())
	if got.ShadowDistance != 100 {
		t.Errorf("shadow distance = %f, want 100", got.ShadowDistance)
	}
}

func TestRenderSkipsDegenerateViewpoint(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*camera.Viewpoint)
	}{
		{"zero width", func(vp *camera.Viewpoint) { vp.Width = 0 }},
		{"inverted depth", func(vp *camera.Viewpoint) { vp.Near, vp.Far = 10, 1 }},
		{"no direction", func(vp *camera.Viewpoint) { vp.Target = vp.Position }},
	}

	for _, tt := range tests {
		r, _ := newTestRenderer(visibility.NewSceneCuller(testScene()))
		rec := render.NewRecorder(render.Capabilities{})
		vp := testViewpoint()
		tt.mutate(vp)

		r.Render(rec, vp, config.DefaultShadows())
		if len(rec.Events) != 0 {
			t.Errorf("%s: events = %v, want none", tt.name, rec.Kinds())
		}
	}
}

func TestRenderSkipsFailedCull(t *testing.T) {
	culler := cullerFunc(func(camera.CullingParameters) (visibility.Result, bool) { return nil, false })
	r, _ := newTestRenderer(culler)
	rec := render.NewRecorder(render.Capabilities{})

	r.Render(rec, testViewpoint(), config.DefaultShadows())
	if len(rec.Events) != 0 {
		t.Errorf("events = %v, want none", rec.Kinds())
	}

	// The renderer recovers on the next frame.
	r2, _ := newTestRenderer(visibility.NewSceneCuller(testScene()))
	r2.Render(rec, testViewpoint(), config.DefaultShadows())
	if len(rec.EventsOf(render.EventSubmit)) != 1 {
		t.Error("next frame not submitted")
	}
}

func TestRenderClearFlags(t *testing.T) {
	tests := []struct {
		flags        camera.ClearFlags
		depth, color bool
	}{
		{camera.ClearBackground, true, false},
		{camera.ClearColor, true, true},
		{camera.ClearDepth, true, false},
		{camera.ClearNothing, false, false},
	}

	for _, tt := range tests {
		r, _ := newTestRenderer(visibility.NewSceneCuller(testScene()))
		rec := render.NewRecorder(render.Capabilities{})
		vp := testViewpoint()
		vp.ClearFlags = tt.flags
		r.Render(rec, vp, config.DefaultShadows())

		clear, ok := viewpointClear(rec)
		if !ok {
			t.Errorf("flags %d: no clear after viewpoint setup", tt.flags)
			continue
		}
		if clear.ClearDepth != tt.depth || clear.ClearColor != tt.color {
			t.Errorf("flags %d: clear depth=%v color=%v, want %v %v",
				tt.flags, clear.ClearDepth, clear.ClearColor, tt.depth, tt.color)
		}
		if tt.color && clear.Color != vp.Background {
			t.Errorf("flags %d: clear color = %v, want background", tt.flags, clear.Color)
		}
	}
}

func TestRenderWithoutLights(t *testing.T) {
	s := testScene()
	s.Lights = nil
	r, u := newTestRenderer(visibility.NewSceneCuller(s))
	rec := render.NewRecorder(render.Capabilities{})
	r.Render(rec, testViewpoint(), config.DefaultShadows())

	if rec.Acquired() != 0 {
		t.Errorf("atlas acquired without lights")
	}
	if n, ok := rec.Int(u.DirLightCount); !ok || n != 0 {
		t.Errorf("light count = %d (%v), want 0", n, ok)
	}
	if len(rec.EventsOf(render.EventSubmit)) != 1 {
		t.Error("frame not submitted")
	}
}

func TestPipelineRendersSequentially(t *testing.T) {
	cfg := config.Default()
	cfg.Shadows.CascadeCount = 9
	u := uniform.NewStandard(uniform.NewTable())
	p := NewPipeline(cfg, visibility.NewSceneCuller(testScene()), u, render.Capabilities{})

	if p.Shadows().CascadeCount != config.MaxCascades {
		t.Errorf("cascades = %d, want clamped to %d", p.Shadows().CascadeCount, config.MaxCascades)
	}

	a := testViewpoint()
	b := testViewpoint()
	b.Name = "minimap"
	b.Position = math.Vec3{Y: 30, Z: 1}

	rec := render.NewRecorder(render.Capabilities{})
	p.Render(rec, []*camera.Viewpoint{a, b})

	setups := rec.EventsOf(render.EventSetupViewpoint)
	if len(setups) != 2 || setups[0].Viewpoint != a || setups[1].Viewpoint != b {
		t.Fatalf("viewpoints rendered out of order")
	}
	if len(rec.EventsOf(render.EventSubmit)) != 2 {
		t.Errorf("submits = %d, want 2", len(rec.EventsOf(render.EventSubmit)))
	}
	if rec.Acquired() != rec.Released() || len(rec.Faults) != 0 {
		t.Errorf("acquired = %d released = %d faults = %v", rec.Acquired(), rec.Released(), rec.Faults)
	}
}

func TestPipelineDepthConvention(t *testing.T) {
	cfg := config.Default()
	cfg.Shadows.CascadeCount = 1
	cfg.Pipeline.DepthConvention = config.DepthReversed
	u := uniform.NewStandard(uniform.NewTable())
	p := NewPipeline(cfg, visibility.NewSceneCuller(testScene()), u, render.Capabilities{})

	rec := render.NewRecorder(render.Capabilities{})
	p.Render(rec, []*camera.Viewpoint{testViewpoint()})

	m := rec.Matrices(u.DirShadowMatrices)
	if len(m) == 0 {
		t.Fatal("no shadow matrices published")
	}
	// Reversed depth maps the light's near plane to 1: a point right in
	// front of the light lands deeper than one behind the scene.
	sunDir := lighting.SunDirection(30, 50)
	nearPt := m[0].TransformPoint(sunDir.Scale(20))
	farPt := m[0].TransformPoint(sunDir.Scale(-20))
	if !(nearPt.Z > farPt.Z) {
		t.Errorf("near depth %f not above far depth %f", nearPt.Z, farPt.Z)
	}
}

type cullerFunc func(camera.CullingParameters) (visibility.Result, bool)

func (f cullerFunc) Cull(p camera.CullingParameters) (visibility.Result, bool) { return f(p) }

// viewpointClear returns the clear recorded after the viewpoint was set up.
func viewpointClear(rec *render.Recorder) (render.Command, bool) {
	seen := false
	for _, e := range rec.Events {
		if e.Kind == render.EventSetupViewpoint {
			seen = true
			continue
		}
		if !seen || e.Kind != render.EventExecute {
			continue
		}
		for _, c := range e.Commands {
			if c.Op == render.OpClearRenderTarget {
				return c, true
			}
		}
	}
	return render.Command{}, false
}
