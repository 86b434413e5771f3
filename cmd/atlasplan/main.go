// Package main renders the demo scene against a recording backend and
// prints the resulting shadow atlas plan as YAML.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/atlasrp/internal/config"
	"github.com/Faultbox/atlasrp/internal/demo"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/renderer"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
	"github.com/Faultbox/atlasrp/internal/logger"
	"github.com/Faultbox/atlasrp/internal/plan"
)

func main() {
	out := flag.String("out", "", "Write the plan to this file instead of stdout")
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	s := demo.Scene()
	u := uniform.NewStandard(uniform.NewTable())
	caps := render.Capabilities{}
	p := renderer.NewPipeline(cfg, visibility.NewSceneCuller(s), u, caps)

	report := plan.Build(p, u, caps, demo.Viewpoints(s, cfg.Graphics.Width, cfg.Graphics.Height))
	for _, vp := range report.Viewpoints {
		logger.Info("viewpoint planned",
			zap.String("name", vp.Name),
			zap.Bool("rendered", vp.Rendered),
			zap.Int("lights", len(vp.Lights)),
			zap.Int("tiles", len(vp.Tiles)),
			zap.Int("faults", len(vp.Faults)),
		)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		logger.Error("failed to encode plan", zap.Error(err))
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("failed to write plan", zap.String("path", *out), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("plan written", zap.String("path", *out))
}
