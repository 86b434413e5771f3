// Package render defines the command recording model the pipeline drives:
// named command buffers executed against a backend Context.
package render

import (
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// Buffer records commands until it is executed and cleared. Array payloads
// are copied at record time, so callers may reuse their arrays immediately.
type Buffer struct {
	name string
	cmds []Command
}

// NewBuffer creates an empty buffer.
func NewBuffer(name string) *Buffer {
	return &Buffer{name: name}
}

// Name returns the buffer name.
func (b *Buffer) Name() string { return b.name }

// SetName renames the buffer.
func (b *Buffer) SetName(name string) { b.name = name }

// Commands returns the recorded commands. The slice is valid until Clear.
func (b *Buffer) Commands() []Command { return b.cmds }

// Len returns the number of recorded commands.
func (b *Buffer) Len() int { return len(b.cmds) }

// Clear drops every recorded command and keeps the storage.
func (b *Buffer) Clear() { b.cmds = b.cmds[:0] }

func (b *Buffer) add(c Command) { b.cmds = append(b.cmds, c) }

// GetTemporaryDepth allocates a transient depth texture bound to id.
func (b *Buffer) GetTemporaryDepth(id uniform.ID, desc DepthTextureDesc) {
	b.add(Command{Op: OpGetTemporaryDepth, ID: id, Depth: desc})
}

// ReleaseTemporary returns the transient texture bound to id.
func (b *Buffer) ReleaseTemporary(id uniform.ID) {
	b.add(Command{Op: OpReleaseTemporary, ID: id})
}

// SetRenderTarget makes the texture bound to id the sole render target.
func (b *Buffer) SetRenderTarget(id uniform.ID) {
	b.add(Command{Op: OpSetRenderTarget, ID: id})
}

// ClearRenderTarget clears depth and/or color of the current target.
func (b *Buffer) ClearRenderTarget(depth, color bool, c math.Vec4) {
	b.add(Command{Op: OpClearRenderTarget, ClearDepth: depth, ClearColor: color, Color: c})
}

// SetViewport restricts drawing to r.
func (b *Buffer) SetViewport(r Rect) {
	b.add(Command{Op: OpSetViewport, Rect: r})
}

// SetViewProjection sets the active view and projection matrices.
func (b *Buffer) SetViewProjection(view, proj math.Mat4) {
	b.add(Command{Op: OpSetViewProjection, View: view, Projection: proj})
}

// SetGlobalInt publishes an integer uniform.
func (b *Buffer) SetGlobalInt(id uniform.ID, v int) {
	b.add(Command{Op: OpSetGlobalInt, ID: id, Int: v})
}

// SetGlobalFloat publishes a float uniform.
func (b *Buffer) SetGlobalFloat(id uniform.ID, v float32) {
	b.add(Command{Op: OpSetGlobalFloat, ID: id, Float: v})
}

// SetGlobalVector publishes a vector uniform.
func (b *Buffer) SetGlobalVector(id uniform.ID, v math.Vec4) {
	b.add(Command{Op: OpSetGlobalVector, ID: id, Vectors: []math.Vec4{v}})
}

// SetGlobalVectorArray publishes a vector array uniform.
func (b *Buffer) SetGlobalVectorArray(id uniform.ID, v []math.Vec4) {
	b.add(Command{Op: OpSetGlobalVectorArray, ID: id, Vectors: append([]math.Vec4(nil), v...)})
}

// SetGlobalMatrixArray publishes a matrix array uniform.
func (b *Buffer) SetGlobalMatrixArray(id uniform.ID, m []math.Mat4) {
	b.add(Command{Op: OpSetGlobalMatrixArray, ID: id, Matrices: append([]math.Mat4(nil), m...)})
}

// BeginSample opens a named profiling scope.
func (b *Buffer) BeginSample(name string) {
	b.add(Command{Op: OpBeginSample, Name: name})
}

// EndSample closes a named profiling scope.
func (b *Buffer) EndSample(name string) {
	b.add(Command{Op: OpEndSample, Name: name})
}
