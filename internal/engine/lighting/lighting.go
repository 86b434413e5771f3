// Package lighting collects the visible directional lights of a viewpoint
// and publishes them, with their shadow data, to the lit shader.
package lighting

import (
	"go.uber.org/zap"

	"github.com/Faultbox/atlasrp/internal/config"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/engine/shadow"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
	"github.com/Faultbox/atlasrp/internal/logger"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// MaxDirectionalLights is the number of directional lights the shader reads.
// Extra lights are ignored.
const MaxDirectionalLights = 4

const bufferName = "Lighting"

// Collector gathers directional lights and drives the shadow engine.
type Collector struct {
	uniforms *uniform.Standard
	buf      *render.Buffer
	shadows  *shadow.Engine
	log      *zap.Logger

	count      int
	colors     [MaxDirectionalLights]math.Vec4
	directions [MaxDirectionalLights]math.Vec4
	shadowData [MaxDirectionalLights]math.Vec4
}

// New creates a collector with its own shadow engine.
func New(uniforms *uniform.Standard, reversedZ bool) *Collector {
	return &Collector{
		uniforms: uniforms,
		buf:      render.NewBuffer(bufferName),
		shadows:  shadow.New(uniforms, reversedZ),
		log:      logger.Named("lighting"),
	}
}

// Setup collects the lights of result, renders the shadow atlas and
// publishes the light uniforms.
func (c *Collector) Setup(ctx render.Context, result visibility.Result, cfg config.ShadowConfig) {
	c.buf.BeginSample(bufferName)
	c.shadows.Setup(ctx, result, cfg)
	c.setupLights(result)
	c.shadows.Render()
	c.buf.EndSample(bufferName)
	render.Execute(ctx, c.buf)
}

// Cleanup releases the frame's shadow resources.
func (c *Collector) Cleanup() {
	c.shadows.Cleanup()
}

func (c *Collector) setupLights(result visibility.Result) {
	c.count = 0
	for i, vl := range result.VisibleLights() {
		if vl.Type != scene.Directional {
			continue
		}
		c.setupDirectionalLight(c.count, i, vl)
		c.count++
		if c.count >= MaxDirectionalLights {
			break
		}
	}

	c.log.Debug("directional lights collected",
		zap.Int("count", c.count),
		zap.Int("reserved", c.shadows.ReservedCount()),
	)

	c.buf.SetGlobalInt(c.uniforms.DirLightCount, c.count)
	c.buf.SetGlobalVectorArray(c.uniforms.DirLightColors, c.colors[:])
	c.buf.SetGlobalVectorArray(c.uniforms.DirLightDirections, c.directions[:])
	c.buf.SetGlobalVectorArray(c.uniforms.DirLightShadowData, c.shadowData[:])
}

func (c *Collector) setupDirectionalLight(slot, visibleIndex int, vl visibility.VisibleLight) {
	c.colors[slot] = vl.FinalColor
	// Lights shine along +Z; the shader wants the direction towards the light.
	c.directions[slot] = vl.LocalToWorld.Column(2).Neg()
	c.shadowData[slot] = c.shadows.Reserve(vl, visibleIndex).Vec4()
}

// Count returns how many directional lights were published this frame.
func (c *Collector) Count() int { return c.count }

// Color returns the published color of a light slot.
func (c *Collector) Color(slot int) math.Vec4 { return c.colors[slot] }

// Direction returns the published direction of a light slot.
func (c *Collector) Direction(slot int) math.Vec4 { return c.directions[slot] }

// ShadowData returns the published shadow data of a light slot.
func (c *Collector) ShadowData(slot int) math.Vec4 { return c.shadowData[slot] }

// Shadows returns the collector's shadow engine.
func (c *Collector) Shadows() *shadow.Engine { return c.shadows }
