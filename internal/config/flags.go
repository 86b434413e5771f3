package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagAtlas       = flag.Int("atlas", 0, "Shadow atlas resolution (256..8192)")
	flagCascades    = flag.Int("cascades", 0, "Shadow cascades per directional light (1..4)")
	flagMaxDistance = flag.Float64("max-distance", 0, "Maximum shadow distance in world units")
	flagReversedZ   = flag.Bool("reversed-z", false, "Force the reversed depth convention")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAtlas > 0 {
		cfg.Shadows.AtlasResolution = *flagAtlas
	}
	if *flagCascades > 0 {
		cfg.Shadows.CascadeCount = *flagCascades
	}
	if *flagMaxDistance > 0 {
		cfg.Shadows.MaxDistance = float32(*flagMaxDistance)
	}
	if *flagReversedZ {
		cfg.Pipeline.DepthConvention = DepthReversed
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
