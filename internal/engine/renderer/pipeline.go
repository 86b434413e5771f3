package renderer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/atlasrp/internal/config"
	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
	"github.com/Faultbox/atlasrp/internal/logger"
)

// Pipeline renders a list of viewpoints with one shared renderer.
type Pipeline struct {
	renderer  *ViewpointRenderer
	shadows   config.ShadowConfig
	reversedZ bool
}

// NewPipeline builds a pipeline for a backend with the given capabilities.
// The depth convention is resolved here, once.
func NewPipeline(cfg *config.Config, culler visibility.Culler, uniforms *uniform.Standard, caps render.Capabilities) *Pipeline {
	reversedZ := cfg.Pipeline.ReversedZ(caps.ReversedZ)
	shadows := cfg.Shadows.Sanitize()

	logger.Info("render pipeline created",
		zap.Bool("reversedZ", reversedZ),
		zap.Int("atlas", shadows.AtlasResolution),
		zap.Int("cascades", shadows.CascadeCount),
		zap.Float32("maxDistance", shadows.MaxDistance),
	)

	settings := Settings{
		DynamicBatching: cfg.Pipeline.DynamicBatching,
		Instancing:      cfg.Pipeline.Instancing,
	}
	return &Pipeline{
		renderer:  NewViewpointRenderer(culler, uniforms, settings, reversedZ),
		shadows:   shadows,
		reversedZ: reversedZ,
	}
}

// Render renders every viewpoint in order.
func (p *Pipeline) Render(ctx render.Context, viewpoints []*camera.Viewpoint) {
	for _, vp := range viewpoints {
		p.renderer.Render(ctx, vp, p.shadows)
	}
}

// Renderer returns the shared viewpoint renderer.
func (p *Pipeline) Renderer() *ViewpointRenderer { return p.renderer }

// Shadows returns the sanitized shadow settings in use.
func (p *Pipeline) Shadows() config.ShadowConfig { return p.shadows }

// ReversedZ reports the resolved depth convention.
func (p *Pipeline) ReversedZ() bool { return p.reversedZ }
