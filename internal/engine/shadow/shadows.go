// Package shadow reserves directional shadow slots and renders their
// cascades into a single shadow atlas.
package shadow

import (
	"go.uber.org/zap"

	"github.com/Faultbox/atlasrp/internal/config"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
	"github.com/Faultbox/atlasrp/internal/logger"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// Fixed capacities of the atlas.
const (
	MaxShadowedDirectionalLights = 4
	MaxCascades                  = 4
	MaxTiles                     = MaxShadowedDirectionalLights * MaxCascades
)

// AtlasDepthBits is the depth precision of the atlas texture.
const AtlasDepthBits = 32

const bufferName = "Shadows"

// State is the per-frame lifecycle of an Engine.
type State int

const (
	StateIdle      State = iota // before Setup and after Cleanup
	StateReserving              // accepting Reserve calls
	StateRendered               // atlas drawn, waiting for Cleanup
	StateSkipped                // nothing reserved, no atlas
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReserving:
		return "reserving"
	case StateRendered:
		return "rendered"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Data is the shadow payload published per directional light.
type Data struct {
	Strength   float32
	TileOffset int // index of the light's first cascade tile
}

// Vec4 packs d as (strength, tile offset, 0, 0).
func (d Data) Vec4() math.Vec4 {
	return math.Vec4{d.Strength, float32(d.TileOffset), 0, 0}
}

type reservedLight struct {
	visibleIndex int
}

// Engine owns the shadow atlas of one viewpoint render. All storage is
// fixed size and reused across frames; the published count says how much
// of it is current.
type Engine struct {
	uniforms  *uniform.Standard
	reversedZ bool
	buf       *render.Buffer
	log       *zap.Logger

	ctx    render.Context
	result visibility.Result
	cfg    config.ShadowConfig

	state         State
	lights        [MaxShadowedDirectionalLights]reservedLight
	count         int
	atlasAcquired bool

	matrices [MaxTiles]math.Mat4
	spheres  [MaxCascades]math.Vec4
}

// New creates an engine publishing into the given uniforms. reversedZ is the
// platform depth convention, resolved once by the caller.
func New(uniforms *uniform.Standard, reversedZ bool) *Engine {
	return &Engine{
		uniforms:  uniforms,
		reversedZ: reversedZ,
		buf:       render.NewBuffer(bufferName),
		log:       logger.Named("shadows"),
	}
}

// Setup starts a frame: it forgets every reservation of the previous one.
// An atlas still held from a frame that skipped Cleanup is released first.
func (e *Engine) Setup(ctx render.Context, result visibility.Result, cfg config.ShadowConfig) {
	if e.atlasAcquired {
		e.log.Warn("setup before cleanup, releasing previous atlas")
		e.buf.ReleaseTemporary(e.uniforms.DirShadowAtlas)
		render.Execute(e.ctx, e.buf)
	}
	e.ctx = ctx
	e.result = result
	e.cfg = cfg
	e.count = 0
	e.atlasAcquired = false
	e.state = StateReserving
}

// Reserve claims an atlas slot for a directional light. It returns zero data
// when the light gets no shadow: all slots are taken, the light does not
// cast shadows, its strength is zero, or no caster can reach the shadowed
// volume. Failures are not errors; the light simply renders unshadowed.
func (e *Engine) Reserve(light visibility.VisibleLight, visibleIndex int) Data {
	if e.state != StateReserving {
		e.log.Debug("reserve outside of setup", zap.Stringer("state", e.state))
		return Data{}
	}
	if e.count >= MaxShadowedDirectionalLights {
		e.reject(visibleIndex, "no free slot")
		return Data{}
	}
	if light.Light == nil || light.Light.Shadows == scene.ShadowsNone {
		e.reject(visibleIndex, "shadows disabled")
		return Data{}
	}
	if !(light.Light.ShadowStrength > 0) {
		e.reject(visibleIndex, "zero strength")
		return Data{}
	}
	if _, ok := e.result.ShadowCasterBounds(visibleIndex); !ok {
		e.reject(visibleIndex, "no casters in range")
		return Data{}
	}

	e.lights[e.count] = reservedLight{visibleIndex: visibleIndex}
	d := Data{
		Strength:   light.Light.ShadowStrength,
		TileOffset: e.cascadeCount() * e.count,
	}
	e.count++
	return d
}

func (e *Engine) reject(visibleIndex int, reason string) {
	e.log.Debug("shadow reservation rejected",
		zap.Int("light", visibleIndex),
		zap.String("reason", reason),
	)
}

// Render draws every reserved light into the atlas and publishes the atlas
// uniforms. With nothing reserved no atlas is allocated and nothing is
// published.
func (e *Engine) Render() {
	if e.state != StateReserving {
		e.log.Debug("render outside of setup", zap.Stringer("state", e.state))
		return
	}
	if e.count == 0 {
		e.state = StateSkipped
		return
	}
	e.renderDirectional()
	e.state = StateRendered
}

// Cleanup releases the atlas if this frame allocated one and returns the
// engine to idle. It is safe to call in any state.
func (e *Engine) Cleanup() {
	if e.atlasAcquired {
		e.buf.ReleaseTemporary(e.uniforms.DirShadowAtlas)
		render.Execute(e.ctx, e.buf)
		e.atlasAcquired = false
	}
	e.ctx = nil
	e.result = nil
	e.state = StateIdle
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// ReservedCount returns how many lights hold a slot this frame.
func (e *Engine) ReservedCount() int { return e.count }

// Split returns the atlas grid split of the current or last frame.
func (e *Engine) Split() int { return Split(e.count * e.cascadeCount()) }

// AtlasMatrix returns the stored world to atlas matrix of a tile.
func (e *Engine) AtlasMatrix(tileIndex int) math.Mat4 { return e.matrices[tileIndex] }

// CullingSphere returns the stored culling sphere of a cascade, radius squared.
func (e *Engine) CullingSphere(cascade int) math.Vec4 { return e.spheres[cascade] }

// cascadeCount clamps the configured cascade count to the atlas capacity.
func (e *Engine) cascadeCount() int {
	return min(max(e.cfg.CascadeCount, 1), MaxCascades)
}

func (e *Engine) renderDirectional() {
	atlasSize := e.cfg.AtlasResolution
	e.buf.GetTemporaryDepth(e.uniforms.DirShadowAtlas, render.DepthTextureDesc{
		Size:      atlasSize,
		DepthBits: AtlasDepthBits,
		Filter:    render.FilterBilinear,
	})
	e.atlasAcquired = true
	e.buf.SetRenderTarget(e.uniforms.DirShadowAtlas)
	e.buf.ClearRenderTarget(true, false, math.Vec4{})
	e.buf.BeginSample(bufferName)
	render.Execute(e.ctx, e.buf)

	tiles := e.count * e.cascadeCount()
	split := Split(tiles)
	tileSize := atlasSize / split

	e.log.Debug("rendering shadow atlas",
		zap.Int("lights", e.count),
		zap.Int("tiles", tiles),
		zap.Int("split", split),
		zap.Int("tileSize", tileSize),
	)

	for i := 0; i < e.count; i++ {
		e.renderDirectionalLight(i, split, tileSize)
	}

	cascadeFade := 1 - e.cfg.CascadeFade
	e.buf.SetGlobalInt(e.uniforms.CascadeCount, e.cascadeCount())
	e.buf.SetGlobalVectorArray(e.uniforms.CascadeCullSpheres, e.spheres[:])
	e.buf.SetGlobalMatrixArray(e.uniforms.DirShadowMatrices, e.matrices[:])
	e.buf.SetGlobalFloat(e.uniforms.ShadowDistance, e.cfg.MaxDistance)
	e.buf.SetGlobalVector(e.uniforms.ShadowDistanceFade, math.Vec4{
		1 / e.cfg.MaxDistance,
		1 / e.cfg.DistanceFade,
		1 / (1 - cascadeFade*cascadeFade),
		0,
	})
	e.buf.EndSample(bufferName)
	render.Execute(e.ctx, e.buf)
}

func (e *Engine) renderDirectionalLight(slot, split, tileSize int) {
	light := e.lights[slot]
	cascadeCount := e.cascadeCount()
	tileOffset := slot * cascadeCount
	ratios := e.cfg.Ratios()

	for c := 0; c < cascadeCount; c++ {
		view, proj, splitData := e.result.ComputeDirectionalShadowMatrices(
			light.visibleIndex, c, cascadeCount, ratios, tileSize, 0,
		)

		// The first light's cascades stand in for every light's.
		if slot == 0 {
			sphere := splitData.CullingSphere
			sphere[3] *= sphere[3]
			e.spheres[c] = sphere
		}

		tileIndex := tileOffset + c
		e.buf.SetViewport(TileViewport(tileIndex, split, tileSize))
		e.matrices[tileIndex] = ConvertToAtlasMatrix(
			proj.Mul(view), TileOffset(tileIndex, split), split, e.reversedZ,
		)
		e.buf.SetViewProjection(view, proj)
		render.Execute(e.ctx, e.buf)

		e.ctx.DrawShadows(render.ShadowDrawing{
			Result:     e.result,
			LightIndex: light.visibleIndex,
			Split:      splitData,
		})
	}
}
