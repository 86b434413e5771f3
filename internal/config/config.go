// Package config handles pipeline configuration loading and management.
package config

// Config holds all pipeline settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Shadows  ShadowConfig   `yaml:"shadows"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// Depth buffer conventions accepted by PipelineConfig.DepthConvention.
const (
	DepthAuto     = "auto"     // ask the backend
	DepthStandard = "standard" // near = 0 (or -1), far = 1
	DepthReversed = "reversed" // near = 1, far = 0
)

// PipelineConfig holds per-pipeline draw settings.
type PipelineConfig struct {
	DynamicBatching bool   `yaml:"dynamic_batching"`
	Instancing      bool   `yaml:"instancing"`
	DepthConvention string `yaml:"depth_convention"`
}

// ShadowConfig holds directional shadow settings. It is read once per frame
// and never mutated by the render pipeline.
type ShadowConfig struct {
	AtlasResolution int       `yaml:"atlas_resolution"` // side of the square atlas in texels
	CascadeCount    int       `yaml:"cascade_count"`    // cascades per light, 1..4
	SplitRatios     []float32 `yaml:"split_ratios"`     // up to 3 ratios of MaxDistance
	CascadeFade     float32   `yaml:"cascade_fade"`
	MaxDistance     float32   `yaml:"max_distance"` // world units
	DistanceFade    float32   `yaml:"distance_fade"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// AtlasResolutions lists the supported shadow atlas sizes.
var AtlasResolutions = []int{256, 512, 1024, 2048, 4096, 8192}

// Shadow configuration limits.
const (
	MaxCascades    = 4
	MaxSplitRatios = MaxCascades - 1
	MinFade        = 0.001
	MinMaxDistance = 0.001
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Pipeline: PipelineConfig{
			DynamicBatching: true,
			Instancing:      true,
			DepthConvention: DepthAuto,
		},
		Shadows: DefaultShadows(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultShadows returns the default directional shadow settings.
func DefaultShadows() ShadowConfig {
	return ShadowConfig{
		AtlasResolution: 1024,
		CascadeCount:    4,
		SplitRatios:     []float32{0.1, 0.25, 0.5},
		CascadeFade:     0.1,
		MaxDistance:     100,
		DistanceFade:    0.1,
	}
}

// Ratios returns the split ratios as a fixed triple. Missing entries are 0.
func (s ShadowConfig) Ratios() [MaxSplitRatios]float32 {
	var r [MaxSplitRatios]float32
	copy(r[:], s.SplitRatios)
	return r
}

// ReversedZ resolves the depth convention once for the target platform.
// backendReversed is what the backend reports when the convention is "auto".
func (p PipelineConfig) ReversedZ(backendReversed bool) bool {
	switch p.DepthConvention {
	case DepthReversed:
		return true
	case DepthStandard:
		return false
	default:
		return backendReversed
	}
}
