package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate reports every setting outside its supported range.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	switch c.Pipeline.DepthConvention {
	case DepthAuto, DepthStandard, DepthReversed:
	default:
		errs = append(errs, fmt.Errorf("pipeline: unknown depth convention %q", c.Pipeline.DepthConvention))
	}
	if err := c.Shadows.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("shadows: %w", err))
	}
	return errors.Join(errs...)
}

// Validate reports every shadow setting outside its supported range.
func (s ShadowConfig) Validate() error {
	var errs []error
	if !slices.Contains(AtlasResolutions, s.AtlasResolution) {
		errs = append(errs, fmt.Errorf("atlas resolution %d not one of %v", s.AtlasResolution, AtlasResolutions))
	}
	if s.CascadeCount < 1 || s.CascadeCount > MaxCascades {
		errs = append(errs, fmt.Errorf("cascade count %d outside [1, %d]", s.CascadeCount, MaxCascades))
	}
	if len(s.SplitRatios) > MaxSplitRatios {
		errs = append(errs, fmt.Errorf("%d split ratios, at most %d allowed", len(s.SplitRatios), MaxSplitRatios))
	}
	for i, r := range s.SplitRatios {
		if r < 0 || r > 1 {
			errs = append(errs, fmt.Errorf("split ratio %d = %g outside [0, 1]", i, r))
		}
	}
	if s.CascadeFade < MinFade || s.CascadeFade > 1 {
		errs = append(errs, fmt.Errorf("cascade fade %g outside [%g, 1]", s.CascadeFade, MinFade))
	}
	if s.MaxDistance < MinMaxDistance {
		errs = append(errs, fmt.Errorf("max distance %g below %g", s.MaxDistance, MinMaxDistance))
	}
	if s.DistanceFade < MinFade || s.DistanceFade > 1 {
		errs = append(errs, fmt.Errorf("distance fade %g outside [%g, 1]", s.DistanceFade, MinFade))
	}
	return errors.Join(errs...)
}

// Sanitize clamps every shadow setting into its supported range.
// Atlas resolutions snap down to the nearest supported size.
func (s ShadowConfig) Sanitize() ShadowConfig {
	out := s
	out.AtlasResolution = AtlasResolutions[0]
	for _, r := range AtlasResolutions {
		if r <= s.AtlasResolution {
			out.AtlasResolution = r
		}
	}
	out.CascadeCount = min(max(s.CascadeCount, 1), MaxCascades)

	ratios := s.SplitRatios
	if len(ratios) > MaxSplitRatios {
		ratios = ratios[:MaxSplitRatios]
	}
	out.SplitRatios = make([]float32, len(ratios))
	for i, r := range ratios {
		out.SplitRatios[i] = min(max(r, 0), 1)
	}

	out.CascadeFade = min(max(s.CascadeFade, MinFade), 1)
	out.MaxDistance = max(s.MaxDistance, MinMaxDistance)
	out.DistanceFade = min(max(s.DistanceFade, MinFade), 1)
	return out
}
