package render

import (
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// Op is the kind of a recorded command.
type Op int

const (
	OpGetTemporaryDepth Op = iota
	OpReleaseTemporary
	OpSetRenderTarget
	OpClearRenderTarget
	OpSetViewport
	OpSetViewProjection
	OpSetGlobalInt
	OpSetGlobalFloat
	OpSetGlobalVector
	OpSetGlobalVectorArray
	OpSetGlobalMatrixArray
	OpBeginSample
	OpEndSample
)

var opNames = [...]string{
	OpGetTemporaryDepth:    "GetTemporaryDepth",
	OpReleaseTemporary:     "ReleaseTemporary",
	OpSetRenderTarget:      "SetRenderTarget",
	OpClearRenderTarget:    "ClearRenderTarget",
	OpSetViewport:          "SetViewport",
	OpSetViewProjection:    "SetViewProjection",
	OpSetGlobalInt:         "SetGlobalInt",
	OpSetGlobalFloat:       "SetGlobalFloat",
	OpSetGlobalVector:      "SetGlobalVector",
	OpSetGlobalVectorArray: "SetGlobalVectorArray",
	OpSetGlobalMatrixArray: "SetGlobalMatrixArray",
	OpBeginSample:          "BeginSample",
	OpEndSample:            "EndSample",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "Unknown"
	}
	return opNames[o]
}

// Rect is a pixel rectangle with its origin at the bottom-left.
type Rect struct {
	X, Y, Width, Height int
}

// Overlaps reports whether r and other share any pixel.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width && other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height && other.Y < r.Y+r.Height
}

// FilterMode selects texture filtering.
type FilterMode int

const (
	FilterPoint FilterMode = iota
	FilterBilinear
)

// DepthTextureDesc describes a square depth-only render texture sampled
// with comparison filtering.
type DepthTextureDesc struct {
	Size      int
	DepthBits int
	Filter    FilterMode
}

// Command is one recorded operation. Only the fields used by Op are set.
type Command struct {
	Op         Op
	ID         uniform.ID
	Name       string
	Depth      DepthTextureDesc
	Rect       Rect
	ClearDepth bool
	ClearColor bool
	Color      math.Vec4
	View       math.Mat4
	Projection math.Mat4
	Int        int
	Float      float32
	Vectors    []math.Vec4
	Matrices   []math.Mat4
}
