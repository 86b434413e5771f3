// Package plan renders viewpoints against a recording backend and reports
// how the shadow atlas was packed and what was published to the shader.
package plan

import (
	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/internal/engine/renderer"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
)

// Tile is one cascade drawn into the atlas.
type Tile struct {
	Light    int    `yaml:"light"` // visible light index
	Viewport [4]int `yaml:"viewport"`
	Casters  int    `yaml:"casters"`
}

// Light is the data published for one directional light.
type Light struct {
	Color      [4]float32 `yaml:"color"`
	Direction  [4]float32 `yaml:"direction"`
	Strength   float32    `yaml:"shadow_strength"`
	TileOffset int        `yaml:"tile_offset"`
}

// Viewpoint is the report of one rendered viewpoint.
type Viewpoint struct {
	Name           string       `yaml:"name"`
	Rendered       bool         `yaml:"rendered"`
	AtlasSize      int          `yaml:"atlas_size,omitempty"`
	Lights         []Light      `yaml:"lights,omitempty"`
	Tiles          []Tile       `yaml:"tiles,omitempty"`
	CascadeCount   int          `yaml:"cascade_count,omitempty"`
	CullingSpheres [][4]float32 `yaml:"culling_spheres,omitempty"`
	Faults         []string     `yaml:"faults,omitempty"`
}

// Report covers every viewpoint in render order.
type Report struct {
	ReversedZ  bool        `yaml:"reversed_z"`
	Viewpoints []Viewpoint `yaml:"viewpoints"`
}

// Build renders each viewpoint on its own recorder and collects the report.
func Build(p *renderer.Pipeline, u *uniform.Standard, caps render.Capabilities, viewpoints []*camera.Viewpoint) Report {
	var r Report
	for _, vp := range viewpoints {
		rec := render.NewRecorder(caps)
		p.Render(rec, []*camera.Viewpoint{vp})
		r.Viewpoints = append(r.Viewpoints, viewpoint(rec, u, vp.Name))
	}
	r.ReversedZ = p.ReversedZ()
	return r
}

func viewpoint(rec *render.Recorder, u *uniform.Standard, name string) Viewpoint {
	v := Viewpoint{
		Name:     name,
		Rendered: len(rec.EventsOf(render.EventSubmit)) > 0,
		Faults:   rec.Faults,
	}
	if !v.Rendered {
		return v
	}

	for _, e := range rec.EventsOf(render.EventExecute) {
		for _, c := range e.Commands {
			if c.Op == render.OpGetTemporaryDepth && c.ID == u.DirShadowAtlas {
				v.AtlasSize = c.Depth.Size
			}
		}
	}

	count, _ := rec.Int(u.DirLightCount)
	colors := rec.Vectors(u.DirLightColors)
	dirs := rec.Vectors(u.DirLightDirections)
	data := rec.Vectors(u.DirLightShadowData)
	for i := 0; i < count; i++ {
		v.Lights = append(v.Lights, Light{
			Color:      [4]float32(colors[i]),
			Direction:  [4]float32(dirs[i]),
			Strength:   data[i][0],
			TileOffset: int(data[i][1]),
		})
	}

	for _, e := range rec.EventsOf(render.EventDrawShadows) {
		vr := e.Viewport
		v.Tiles = append(v.Tiles, Tile{
			Light:    e.Shadows.LightIndex,
			Viewport: [4]int{vr.X, vr.Y, vr.Width, vr.Height},
			Casters:  len(e.Shadows.Result.ShadowCasters(e.Shadows.LightIndex, e.Shadows.Split)),
		})
	}

	if len(v.Tiles) > 0 {
		v.CascadeCount, _ = rec.Int(u.CascadeCount)
		spheres := rec.Vectors(u.CascadeCullSpheres)
		for c := 0; c < v.CascadeCount && c < len(spheres); c++ {
			v.CullingSpheres = append(v.CullingSpheres, [4]float32(spheres[c]))
		}
	}
	return v
}
