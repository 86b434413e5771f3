package uniform

// Uniform names shared with the lit shader.
const (
	DirLightCount      = "_DirectionalLightCount"
	DirLightColors     = "_DirectionalLightColors"
	DirLightDirections = "_DirectionalLightDirections"
	DirLightShadowData = "_DirectionalLightShadowData"
	DirShadowAtlas     = "_DirectionalShadowAtlas"
	DirShadowMatrices  = "_DirectionalShadowMatrices"
	CascadeCount       = "_CascadeCount"
	CascadeCullSpheres = "_CascadeCullingSpheres"
	ShadowDistance     = "_ShadowDistance"
	ShadowDistanceFade = "_ShadowDistanceFade"
	ViewProjection     = "_ViewProjection"
	CameraPosition     = "_CameraPosition"
)

// Standard holds the IDs of every uniform the pipeline publishes.
type Standard struct {
	DirLightCount      ID
	DirLightColors     ID
	DirLightDirections ID
	DirLightShadowData ID
	DirShadowAtlas     ID
	DirShadowMatrices  ID
	CascadeCount       ID
	CascadeCullSpheres ID
	ShadowDistance     ID
	ShadowDistanceFade ID
	ViewProjection     ID
	CameraPosition     ID
}

// NewStandard resolves the pipeline uniforms in t.
func NewStandard(t *Table) *Standard {
	return &Standard{
		DirLightCount:      t.Resolve(DirLightCount),
		DirLightColors:     t.Resolve(DirLightColors),
		DirLightDirections: t.Resolve(DirLightDirections),
		DirLightShadowData: t.Resolve(DirLightShadowData),
		DirShadowAtlas:     t.Resolve(DirShadowAtlas),
		DirShadowMatrices:  t.Resolve(DirShadowMatrices),
		CascadeCount:       t.Resolve(CascadeCount),
		CascadeCullSpheres: t.Resolve(CascadeCullSpheres),
		ShadowDistance:     t.Resolve(ShadowDistance),
		ShadowDistanceFade: t.Resolve(ShadowDistanceFade),
		ViewProjection:     t.Resolve(ViewProjection),
		CameraPosition:     t.Resolve(CameraPosition),
	}
}
