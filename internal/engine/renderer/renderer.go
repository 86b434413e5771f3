// Package renderer renders viewpoints: visibility, lighting and shadows,
// then the geometry passes.
package renderer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/atlasrp/internal/config"
	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/lighting"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
	"github.com/Faultbox/atlasrp/internal/logger"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// Settings are pipeline-wide draw flags passed to every geometry pass.
type Settings struct {
	DynamicBatching bool
	Instancing      bool
}

// ViewpointRenderer renders one viewpoint at a time. It is not safe for
// concurrent use.
type ViewpointRenderer struct {
	uniforms *uniform.Standard
	culler   visibility.Culler
	settings Settings
	lighting *lighting.Collector
	buf      *render.Buffer
	log      *zap.Logger

	ctx    render.Context
	vp     *camera.Viewpoint
	result visibility.Result
}

// NewViewpointRenderer creates a renderer. reversedZ is the resolved depth
// convention of the backend.
func NewViewpointRenderer(culler visibility.Culler, uniforms *uniform.Standard, settings Settings, reversedZ bool) *ViewpointRenderer {
	return &ViewpointRenderer{
		uniforms: uniforms,
		culler:   culler,
		settings: settings,
		lighting: lighting.New(uniforms, reversedZ),
		buf:      render.NewBuffer(""),
		log:      logger.Named("renderer"),
	}
}

// Render draws vp into ctx. Degenerate viewpoints and failed visibility
// queries skip the frame without output.
func (r *ViewpointRenderer) Render(ctx render.Context, vp *camera.Viewpoint, shadows config.ShadowConfig) {
	r.ctx = ctx
	r.vp = vp
	defer r.reset()

	r.buf.SetName(vp.Name)
	if !r.cull(shadows.MaxDistance) {
		r.log.Debug("viewpoint skipped", zap.String("viewpoint", vp.Name))
		return
	}

	r.buf.BeginSample(vp.Name)
	render.Execute(ctx, r.buf)
	r.lighting.Setup(ctx, r.result, shadows)
	r.buf.EndSample(vp.Name)

	r.setup()
	r.drawVisibleGeometry()
	r.lighting.Cleanup()
	r.submit()
}

func (r *ViewpointRenderer) cull(maxShadowDistance float32) bool {
	p, ok := r.vp.CullingParameters()
	if !ok {
		return false
	}
	p.ShadowDistance = min(maxShadowDistance, r.vp.Far)
	r.result, ok = r.culler.Cull(p)
	return ok
}

func (r *ViewpointRenderer) setup() {
	r.ctx.SetupViewpoint(r.vp)
	flags := r.vp.ClearFlags
	clearColor := flags == camera.ClearColor
	var color math.Vec4
	if clearColor {
		color = r.vp.Background
	}
	r.buf.ClearRenderTarget(flags <= camera.ClearDepth, clearColor, color)
	r.buf.SetViewProjection(r.vp.ViewMatrix(), r.vp.ProjectionMatrix())
	r.buf.SetGlobalVector(r.uniforms.CameraPosition, math.Vec4From(r.vp.Position, 1))
	r.buf.BeginSample(r.vp.Name)
	render.Execute(r.ctx, r.buf)
}

func (r *ViewpointRenderer) drawVisibleGeometry() {
	r.ctx.DrawGeometry(render.GeometryDrawing{
		Result:          r.result,
		Viewpoint:       r.vp,
		Queue:           scene.QueueOpaque,
		Sort:            render.SortFrontToBack,
		DynamicBatching: r.settings.DynamicBatching,
		Instancing:      r.settings.Instancing,
	})

	r.ctx.DrawBackground(r.vp)

	r.ctx.DrawGeometry(render.GeometryDrawing{
		Result:          r.result,
		Viewpoint:       r.vp,
		Queue:           scene.QueueTransparent,
		Sort:            render.SortBackToFront,
		DynamicBatching: r.settings.DynamicBatching,
		Instancing:      r.settings.Instancing,
	})
}

func (r *ViewpointRenderer) submit() {
	r.buf.EndSample(r.vp.Name)
	render.Execute(r.ctx, r.buf)
	r.ctx.Submit()
}

func (r *ViewpointRenderer) reset() {
	r.buf.Clear()
	r.ctx = nil
	r.vp = nil
	r.result = nil
}

// Lighting returns the renderer's light collector.
func (r *ViewpointRenderer) Lighting() *lighting.Collector { return r.lighting }
