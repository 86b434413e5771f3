// Package demo builds the sample scene shown by the command line tools.
package demo

import (
	"fmt"

	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/lighting"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// GridSize is the number of crates along each side of the crate grid.
const GridSize = 5

// Scene returns a ground plane with a grid of shadow-casting crates, a glass
// panel, a warm sun, a cool fill light and a point lamp.
func Scene() *scene.Scene {
	s := scene.New()

	s.AddLight(scene.NewDirectionalLight("sun", math.Vec3{X: 1, Y: 0.95, Z: 0.85}, 1.2, lighting.SunRotation(35, 50)))

	fill := s.AddLight(scene.NewDirectionalLight("fill", math.Vec3{X: 0.55, Y: 0.65, Z: 1}, 0.35, lighting.SunRotation(215, 25)))
	fill.Shadows = scene.ShadowsSoft
	fill.ShadowStrength = 0.5

	s.AddLight(&scene.Light{
		Name:      "lamp",
		Type:      scene.Point,
		Color:     math.Vec3{X: 1, Y: 0.7, Z: 0.4},
		Intensity: 2,
		Position:  math.Vec3{Y: 3},
		Range:     8,
	})

	s.AddObject(&scene.Object{
		Name:   "ground",
		Bounds: scene.NewAABB(math.Vec3{Y: -0.25}, math.Vec3{X: 60, Y: 0.25, Z: 60}),
		Queue:  scene.QueueOpaque,
		Color:  math.Vec4{0.55, 0.55, 0.5, 1},
	})

	const spacing = 6
	half := float32(GridSize-1) * spacing / 2
	for z := 0; z < GridSize; z++ {
		for x := 0; x < GridSize; x++ {
			height := float32(1 + (x+z)%3)
			center := math.Vec3{
				X: float32(x)*spacing - half,
				Y: height,
				Z: float32(z)*spacing - half,
			}
			s.AddObject(&scene.Object{
				Name:        fmt.Sprintf("crate_%d_%d", x, z),
				Bounds:      scene.NewAABB(center, math.Vec3{X: 1, Y: height, Z: 1}),
				Queue:       scene.QueueOpaque,
				CastShadows: true,
				Color:       math.Vec4{0.7, 0.45, 0.25, 1},
			})
		}
	}

	s.AddObject(&scene.Object{
		Name:        "glass",
		Bounds:      scene.NewAABB(math.Vec3{X: 3, Y: 2, Z: 9}, math.Vec3{X: 3, Y: 2, Z: 0.05}),
		Queue:       scene.QueueTransparent,
		CastShadows: false,
		Color:       math.Vec4{0.4, 0.7, 0.9, 0.35},
	})

	return s
}

// Viewpoints returns the main view and a top-down overview of s.
func Viewpoints(s *scene.Scene, width, height int) []*camera.Viewpoint {
	orbit := camera.NewOrbitCamera()
	if b, ok := s.Bounds(); ok {
		orbit.FitToBounds(b)
	}
	orbit.Distance = 40
	main := orbit.Viewpoint("main", width, height)

	overview := camera.NewViewpoint("overview", width/4, height/4)
	overview.Position = math.Vec3{Y: 80, Z: 1}
	overview.Target = math.Vec3{}
	overview.Far = 200
	overview.ClearFlags = camera.ClearColor

	return []*camera.Viewpoint{main, overview}
}
