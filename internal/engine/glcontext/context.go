// Package glcontext implements render.Context on OpenGL 4.1 core. Scene
// objects are drawn as boxes; the shadow atlas is a pooled depth texture
// sampled with hardware comparison.
package glcontext

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/framebuffer"
	"github.com/Faultbox/atlasrp/internal/engine/glcontext/shaders"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/engine/shader"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/logger"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// Per-draw uniforms private to the backend shaders.
const (
	uniformModel      = "uModel"
	uniformColor      = "uColor"
	uniformBackground = "uBackground"
)

// atlasUnit is the texture unit the shadow atlas is bound to.
const atlasUnit = 1

type liveTexture struct {
	target *framebuffer.DepthTarget
	desc   render.DepthTextureDesc
}

// Context issues pipeline commands to the current OpenGL context.
// IMPORTANT: Must be created AFTER the OpenGL context exists, and used
// from the thread owning it.
type Context struct {
	uniforms *uniform.Standard
	log      *zap.Logger

	model      uniform.ID
	color      uniform.ID
	background uniform.ID

	lit   *shader.Program
	depth *shader.Program
	bg    *shader.Program
	box   *boxMesh
	empty uint32 // VAO for attribute-less draws

	live map[uniform.ID]liveTexture
	free map[render.DepthTextureDesc][]*framebuffer.DepthTarget
	last *framebuffer.DepthTarget // most recently released shadow atlas

	ints     map[uniform.ID]int32
	floats   map[uniform.ID]float32
	vectors  map[uniform.ID][]math.Vec4
	matrices map[uniform.ID][]math.Mat4

	view math.Mat4
	proj math.Mat4
}

// New initializes OpenGL and compiles the backend programs.
func New(table *uniform.Table, uniforms *uniform.Standard) (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	c := &Context{
		uniforms:   uniforms,
		log:        logger.Named("gl"),
		model:      table.Resolve(uniformModel),
		color:      table.Resolve(uniformColor),
		background: table.Resolve(uniformBackground),
		live:       make(map[uniform.ID]liveTexture),
		free:       make(map[render.DepthTextureDesc][]*framebuffer.DepthTarget),
		ints:       make(map[uniform.ID]int32),
		floats:     make(map[uniform.ID]float32),
		vectors:    make(map[uniform.ID][]math.Vec4),
		matrices:   make(map[uniform.ID][]math.Mat4),
		view:       math.Identity(),
		proj:       math.Identity(),
	}

	c.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	if c.lit, err = shader.NewProgram(shaders.LitVertexShader, shaders.LitFragmentShader, table); err != nil {
		c.Close()
		return nil, fmt.Errorf("lit program: %w", err)
	}
	if c.depth, err = shader.NewProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader, table); err != nil {
		c.Close()
		return nil, fmt.Errorf("depth program: %w", err)
	}
	if c.bg, err = shader.NewProgram(shaders.BackgroundVertexShader, shaders.BackgroundFragmentShader, table); err != nil {
		c.Close()
		return nil, fmt.Errorf("background program: %w", err)
	}

	c.box = newBoxMesh()
	gl.GenVertexArrays(1, &c.empty)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	return c, nil
}

// Close releases every GPU resource owned by the context.
func (c *Context) Close() {
	for id, t := range c.live {
		t.target.Destroy()
		delete(c.live, id)
	}
	for desc, targets := range c.free {
		for _, t := range targets {
			t.Destroy()
		}
		delete(c.free, desc)
	}
	for _, p := range []*shader.Program{c.lit, c.depth, c.bg} {
		if p != nil {
			p.Delete()
		}
	}
	if c.box != nil {
		c.box.destroy()
	}
	if c.empty != 0 {
		gl.DeleteVertexArrays(1, &c.empty)
		c.empty = 0
	}
}

// Capabilities implements render.Context. Default GL clip control maps
// depth to [-1, 1] with near at -1.
func (c *Context) Capabilities() render.Capabilities {
	return render.Capabilities{ReversedZ: false}
}

// ExecuteCommandBuffer implements render.Context.
func (c *Context) ExecuteCommandBuffer(buf *render.Buffer) {
	for _, cmd := range buf.Commands() {
		c.apply(cmd)
	}
}

func (c *Context) apply(cmd render.Command) {
	switch cmd.Op {
	case render.OpGetTemporaryDepth:
		c.acquire(cmd.ID, cmd.Depth)
	case render.OpReleaseTemporary:
		c.release(cmd.ID)
	case render.OpSetRenderTarget:
		t, ok := c.live[cmd.ID]
		if !ok {
			c.log.Warn("render target not allocated", zap.Int32("id", int32(cmd.ID)))
			return
		}
		t.target.Bind()
	case render.OpClearRenderTarget:
		var mask uint32
		if cmd.ClearDepth {
			gl.DepthMask(true)
			mask |= gl.DEPTH_BUFFER_BIT
		}
		if cmd.ClearColor {
			gl.ClearColor(cmd.Color[0], cmd.Color[1], cmd.Color[2], cmd.Color[3])
			mask |= gl.COLOR_BUFFER_BIT
		}
		if mask != 0 {
			gl.Clear(mask)
		}
	case render.OpSetViewport:
		r := cmd.Rect
		gl.Viewport(int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height))
	case render.OpSetViewProjection:
		c.view, c.proj = cmd.View, cmd.Projection
	case render.OpSetGlobalInt:
		c.ints[cmd.ID] = int32(cmd.Int)
	case render.OpSetGlobalFloat:
		c.floats[cmd.ID] = cmd.Float
	case render.OpSetGlobalVector, render.OpSetGlobalVectorArray:
		c.vectors[cmd.ID] = cmd.Vectors
	case render.OpSetGlobalMatrixArray:
		c.matrices[cmd.ID] = cmd.Matrices
	case render.OpBeginSample, render.OpEndSample:
		// GL 4.1 core has no debug groups
	}
}

func (c *Context) acquire(id uniform.ID, desc render.DepthTextureDesc) {
	if old, ok := c.live[id]; ok {
		c.log.Warn("temporary texture acquired twice", zap.Int32("id", int32(id)))
		c.free[old.desc] = append(c.free[old.desc], old.target)
	}

	if pool := c.free[desc]; len(pool) > 0 {
		c.live[id] = liveTexture{target: pool[len(pool)-1], desc: desc}
		c.free[desc] = pool[:len(pool)-1]
		return
	}

	t, err := framebuffer.NewDepth(int32(desc.Size), desc.DepthBits, desc.Filter == render.FilterBilinear)
	if err != nil {
		c.log.Error("failed to allocate depth texture", zap.Int("size", desc.Size), zap.Error(err))
		return
	}
	c.log.Debug("depth texture allocated", zap.Int("size", desc.Size), zap.Int("bits", desc.DepthBits))
	c.live[id] = liveTexture{target: t, desc: desc}
}

func (c *Context) release(id uniform.ID) {
	t, ok := c.live[id]
	if !ok {
		c.log.Warn("release of unallocated texture", zap.Int32("id", int32(id)))
		return
	}
	delete(c.live, id)
	c.free[t.desc] = append(c.free[t.desc], t.target)
	if id == c.uniforms.DirShadowAtlas {
		c.last = t.target
	}
	framebuffer.Unbind()
}

// ReadAtlas reads back the shadow atlas of the last rendered viewpoint.
// The pooled texture keeps its contents until the next frame reuses it.
func (c *Context) ReadAtlas() (depth []float32, size int, ok bool) {
	if c.last == nil {
		return nil, 0, false
	}
	return c.last.ReadDepth(), int(c.last.Size()), true
}

// SetupViewpoint implements render.Context.
func (c *Context) SetupViewpoint(vp *camera.Viewpoint) {
	framebuffer.Unbind()
	gl.Viewport(0, 0, int32(vp.Width), int32(vp.Height))
	c.view = vp.ViewMatrix()
	c.proj = vp.ProjectionMatrix()
}

// DrawShadows implements render.Context.
func (c *Context) DrawShadows(d render.ShadowDrawing) {
	casters := d.Result.ShadowCasters(d.LightIndex, d.Split)
	if len(casters) == 0 {
		return
	}

	c.depth.Use()
	c.depth.SetMat4(c.uniforms.ViewProjection, c.proj.Mul(c.view))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	// Front-face culling to reduce shadow acne
	gl.CullFace(gl.FRONT)

	for _, o := range casters {
		c.depth.SetMat4(c.model, boxModel(o.Bounds))
		c.box.draw()
	}

	gl.CullFace(gl.BACK)
}

// DrawGeometry implements render.Context. Boxes are drawn one by one; the
// batching flags have no effect on this backend.
func (c *Context) DrawGeometry(d render.GeometryDrawing) {
	objs := render.SortObjects(d.Result.Objects(d.Queue), d.Viewpoint.Position, d.Sort)
	if len(objs) == 0 {
		return
	}

	c.lit.Use()
	c.uploadGlobals(c.lit)
	c.lit.SetMat4(c.uniforms.ViewProjection, c.proj.Mul(c.view))
	c.lit.SetVec4s(c.uniforms.CameraPosition, []math.Vec4{math.Vec4From(d.Viewpoint.Position, 1)})
	if t, ok := c.live[c.uniforms.DirShadowAtlas]; ok {
		t.target.BindTexture(gl.TEXTURE0 + atlasUnit)
		c.lit.SetInt(c.uniforms.DirShadowAtlas, atlasUnit)
	}

	transparent := d.Queue == scene.QueueTransparent
	if transparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	}

	for _, o := range objs {
		c.lit.SetMat4(c.model, boxModel(o.Bounds))
		c.lit.SetVec4s(c.color, []math.Vec4{o.Color})
		c.box.draw()
	}

	if transparent {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
}

func (c *Context) uploadGlobals(p *shader.Program) {
	for id, v := range c.ints {
		p.SetInt(id, v)
	}
	for id, v := range c.floats {
		p.SetFloat(id, v)
	}
	for id, v := range c.vectors {
		p.SetVec4s(id, v)
	}
	for id, m := range c.matrices {
		p.SetMat4s(id, m)
	}
}

// DrawBackground implements render.Context. Only viewpoints clearing to
// background get one; it fills every pixel still at the far plane.
func (c *Context) DrawBackground(vp *camera.Viewpoint) {
	if vp.ClearFlags != camera.ClearBackground {
		return
	}

	c.bg.Use()
	c.bg.SetVec4s(c.background, []math.Vec4{vp.Background})

	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	gl.BindVertexArray(c.empty)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

// Submit implements render.Context.
func (c *Context) Submit() {
	gl.Flush()
}
