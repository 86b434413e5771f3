package render

import (
	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
)

// Capabilities are backend properties resolved once per platform.
type Capabilities struct {
	// ReversedZ is set when the depth buffer maps near to 1 and far to 0.
	ReversedZ bool
}

// ShadowDrawing selects the casters of one light cascade.
type ShadowDrawing struct {
	Result     visibility.Result
	LightIndex int
	Split      visibility.SplitData
}

// SortCriteria orders objects inside a geometry pass.
type SortCriteria int

const (
	SortFrontToBack SortCriteria = iota // opaque
	SortBackToFront                     // transparent
)

// GeometryDrawing selects one queue of visible objects.
type GeometryDrawing struct {
	Result          visibility.Result
	Viewpoint       *camera.Viewpoint
	Queue           scene.Queue
	Sort            SortCriteria
	DynamicBatching bool
	Instancing      bool
}

// Context is a rendering backend. Calls are recorded or issued in order;
// Submit flushes everything recorded since the previous Submit.
type Context interface {
	Capabilities() Capabilities
	ExecuteCommandBuffer(buf *Buffer)
	SetupViewpoint(vp *camera.Viewpoint)
	DrawShadows(d ShadowDrawing)
	DrawGeometry(d GeometryDrawing)
	DrawBackground(vp *camera.Viewpoint)
	Submit()
}

// Execute runs buf on ctx and clears it for reuse.
func Execute(ctx Context, buf *Buffer) {
	ctx.ExecuteCommandBuffer(buf)
	buf.Clear()
}
