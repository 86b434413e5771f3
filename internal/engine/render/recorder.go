package render

import (
	"fmt"

	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// EventKind is the kind of a Context call seen by a Recorder.
type EventKind int

const (
	EventExecute EventKind = iota
	EventSetupViewpoint
	EventDrawShadows
	EventDrawGeometry
	EventDrawBackground
	EventSubmit
)

func (k EventKind) String() string {
	switch k {
	case EventExecute:
		return "Execute"
	case EventSetupViewpoint:
		return "SetupViewpoint"
	case EventDrawShadows:
		return "DrawShadows"
	case EventDrawGeometry:
		return "DrawGeometry"
	case EventDrawBackground:
		return "DrawBackground"
	case EventSubmit:
		return "Submit"
	default:
		return "Unknown"
	}
}

// Event is one recorded Context call.
type Event struct {
	Kind      EventKind
	Buffer    string
	Commands  []Command
	Viewpoint *camera.Viewpoint
	Shadows   ShadowDrawing
	Geometry  GeometryDrawing
	Viewport  Rect // active viewport for draw events
}

// Recorder is a Context that keeps every call and tracks the global state
// the commands would leave on a GPU: published uniforms, live temporary
// textures and the active viewport. Invalid operations are collected in
// Faults instead of failing.
type Recorder struct {
	Caps   Capabilities
	Events []Event
	Faults []string

	ints     map[uniform.ID]int
	floats   map[uniform.ID]float32
	vectors  map[uniform.ID][]math.Vec4
	matrices map[uniform.ID][]math.Mat4
	live     map[uniform.ID]DepthTextureDesc

	acquired int
	released int
	target   uniform.ID
	viewport Rect
}

// NewRecorder creates an empty recorder.
func NewRecorder(caps Capabilities) *Recorder {
	return &Recorder{
		Caps:     caps,
		ints:     make(map[uniform.ID]int),
		floats:   make(map[uniform.ID]float32),
		vectors:  make(map[uniform.ID][]math.Vec4),
		matrices: make(map[uniform.ID][]math.Mat4),
		live:     make(map[uniform.ID]DepthTextureDesc),
	}
}

// Capabilities implements Context.
func (r *Recorder) Capabilities() Capabilities { return r.Caps }

// ExecuteCommandBuffer implements Context.
func (r *Recorder) ExecuteCommandBuffer(buf *Buffer) {
	cmds := append([]Command(nil), buf.Commands()...)
	r.Events = append(r.Events, Event{Kind: EventExecute, Buffer: buf.Name(), Commands: cmds})
	for _, c := range cmds {
		r.apply(c)
	}
}

func (r *Recorder) apply(c Command) {
	switch c.Op {
	case OpGetTemporaryDepth:
		if _, ok := r.live[c.ID]; ok {
			r.fault("texture %d acquired twice", c.ID)
		}
		r.live[c.ID] = c.Depth
		r.acquired++
	case OpReleaseTemporary:
		if _, ok := r.live[c.ID]; !ok {
			r.fault("release of unallocated texture %d", c.ID)
			return
		}
		delete(r.live, c.ID)
		r.released++
		if r.target == c.ID {
			r.target = 0
		}
	case OpSetRenderTarget:
		desc, ok := r.live[c.ID]
		if !ok {
			r.fault("render target %d not allocated", c.ID)
			return
		}
		r.target = c.ID
		r.viewport = Rect{Width: desc.Size, Height: desc.Size}
	case OpSetViewport:
		r.viewport = c.Rect
	case OpSetGlobalInt:
		r.ints[c.ID] = c.Int
	case OpSetGlobalFloat:
		r.floats[c.ID] = c.Float
	case OpSetGlobalVector, OpSetGlobalVectorArray:
		r.vectors[c.ID] = c.Vectors
	case OpSetGlobalMatrixArray:
		r.matrices[c.ID] = c.Matrices
	}
}

func (r *Recorder) fault(format string, args ...any) {
	r.Faults = append(r.Faults, fmt.Sprintf(format, args...))
}

// SetupViewpoint implements Context.
func (r *Recorder) SetupViewpoint(vp *camera.Viewpoint) {
	r.target = 0
	r.viewport = Rect{Width: vp.Width, Height: vp.Height}
	r.Events = append(r.Events, Event{Kind: EventSetupViewpoint, Viewpoint: vp, Viewport: r.viewport})
}

// DrawShadows implements Context.
func (r *Recorder) DrawShadows(d ShadowDrawing) {
	if r.target == 0 {
		r.fault("shadow draw without a depth target")
	}
	r.Events = append(r.Events, Event{Kind: EventDrawShadows, Shadows: d, Viewport: r.viewport})
}

// DrawGeometry implements Context.
func (r *Recorder) DrawGeometry(d GeometryDrawing) {
	r.Events = append(r.Events, Event{Kind: EventDrawGeometry, Geometry: d, Viewport: r.viewport})
}

// DrawBackground implements Context.
func (r *Recorder) DrawBackground(vp *camera.Viewpoint) {
	r.Events = append(r.Events, Event{Kind: EventDrawBackground, Viewpoint: vp, Viewport: r.viewport})
}

// Submit implements Context.
func (r *Recorder) Submit() {
	r.Events = append(r.Events, Event{Kind: EventSubmit})
}

// Reset forgets recorded events and faults but keeps published state.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
	r.Faults = r.Faults[:0]
}

// Int returns a published integer uniform.
func (r *Recorder) Int(id uniform.ID) (int, bool) {
	v, ok := r.ints[id]
	return v, ok
}

// Float returns a published float uniform.
func (r *Recorder) Float(id uniform.ID) (float32, bool) {
	v, ok := r.floats[id]
	return v, ok
}

// Vectors returns a published vector or vector array uniform.
func (r *Recorder) Vectors(id uniform.ID) []math.Vec4 {
	return r.vectors[id]
}

// Matrices returns a published matrix array uniform.
func (r *Recorder) Matrices(id uniform.ID) []math.Mat4 {
	return r.matrices[id]
}

// LiveTextures returns the number of temporary textures not yet released.
func (r *Recorder) LiveTextures() int { return len(r.live) }

// Acquired returns how many temporary textures were ever acquired.
func (r *Recorder) Acquired() int { return r.acquired }

// Released returns how many temporary textures were released.
func (r *Recorder) Released() int { return r.released }

// Kinds lists the kinds of every recorded event in order.
func (r *Recorder) Kinds() []EventKind {
	out := make([]EventKind, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Kind
	}
	return out
}

// EventsOf returns the recorded events of one kind.
func (r *Recorder) EventsOf(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
