package render

import (
	"testing"

	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/pkg/math"
)

func TestRecorderTracksGlobals(t *testing.T) {
	r := NewRecorder(Capabilities{})
	b := NewBuffer("globals")
	b.SetGlobalInt(1, 4)
	b.SetGlobalFloat(2, 0.5)
	b.SetGlobalVector(3, math.Vec4{1, 2, 3, 4})
	b.SetGlobalMatrixArray(4, []math.Mat4{math.Identity(), math.Identity()})
	Execute(r, b)

	if b.Len() != 0 {
		t.Error("Execute did not clear the buffer")
	}
	if v, ok := r.Int(1); !ok || v != 4 {
		t.Errorf("int = %d, %v", v, ok)
	}
	if v, ok := r.Float(2); !ok || v != 0.5 {
		t.Errorf("float = %f, %v", v, ok)
	}
	if v := r.Vectors(3); len(v) != 1 || v[0] != (math.Vec4{1, 2, 3, 4}) {
		t.Errorf("vector = %v", v)
	}
	if m := r.Matrices(4); len(m) != 2 {
		t.Errorf("matrices = %d, want 2", len(m))
	}
	if _, ok := r.Int(9); ok {
		t.Error("unpublished int reported")
	}
}

func TestRecorderTemporaryTextures(t *testing.T) {
	r := NewRecorder(Capabilities{})
	b := NewBuffer("atlas")
	b.GetTemporaryDepth(7, DepthTextureDesc{Size: 512, DepthBits: 32})
	b.SetRenderTarget(7)
	Execute(r, b)

	r.DrawShadows(ShadowDrawing{})
	if ev := r.EventsOf(EventDrawShadows); len(ev) != 1 || ev[0].Viewport != (Rect{Width: 512, Height: 512}) {
		t.Errorf("shadow draw viewport = %+v", ev)
	}

	b.ReleaseTemporary(7)
	Execute(r, b)
	if r.LiveTextures() != 0 || r.Acquired() != 1 || r.Released() != 1 {
		t.Errorf("live=%d acquired=%d released=%d", r.LiveTextures(), r.Acquired(), r.Released())
	}
	if len(r.Faults) != 0 {
		t.Errorf("faults: %v", r.Faults)
	}
}

func TestRecorderFaults(t *testing.T) {
	r := NewRecorder(Capabilities{})
	b := NewBuffer("bad")
	b.ReleaseTemporary(3)
	b.SetRenderTarget(4)
	b.GetTemporaryDepth(5, DepthTextureDesc{Size: 256})
	b.GetTemporaryDepth(5, DepthTextureDesc{Size: 256})
	Execute(r, b)
	r.DrawShadows(ShadowDrawing{})

	if len(r.Faults) != 4 {
		t.Errorf("faults = %v, want 4", r.Faults)
	}

	r.Reset()
	if len(r.Faults) != 0 || len(r.Events) != 0 {
		t.Error("Reset kept events")
	}
}

func TestRecorderViewpointResetsTarget(t *testing.T) {
	r := NewRecorder(Capabilities{ReversedZ: true})
	if !r.Capabilities().ReversedZ {
		t.Error("capabilities not reported")
	}

	b := NewBuffer("atlas")
	b.GetTemporaryDepth(1, DepthTextureDesc{Size: 256})
	b.SetRenderTarget(1)
	Execute(r, b)

	vp := camera.NewViewpoint("main", 320, 200)
	r.SetupViewpoint(vp)
	r.DrawGeometry(GeometryDrawing{Viewpoint: vp})
	r.DrawShadows(ShadowDrawing{})

	geo := r.EventsOf(EventDrawGeometry)
	if geo[0].Viewport != (Rect{Width: 320, Height: 200}) {
		t.Errorf("geometry viewport = %+v", geo[0].Viewport)
	}
	if len(r.Faults) != 1 {
		t.Errorf("faults = %v, want shadow draw without target", r.Faults)
	}
	want := []EventKind{EventExecute, EventSetupViewpoint, EventDrawGeometry, EventDrawShadows}
	got := r.Kinds()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}
