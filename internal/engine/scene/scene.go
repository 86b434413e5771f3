// Package scene holds the lights and renderable objects a viewpoint draws.
package scene

import "github.com/Faultbox/atlasrp/pkg/math"

// Queue orders objects into draw passes.
type Queue int

const (
	QueueOpaque Queue = iota
	QueueTransparent
)

// Object is a renderable box in the scene.
type Object struct {
	Name        string
	Bounds      AABB
	Queue       Queue
	CastShadows bool
	Color       math.Vec4
}

// Scene is a flat list of lights and objects.
type Scene struct {
	Lights  []*Light
	Objects []*Object
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddLight appends a light. Lights keep insertion order, which is the order
// visibility queries report them in.
func (s *Scene) AddLight(l *Light) *Light {
	s.Lights = append(s.Lights, l)
	return l
}

// AddObject appends an object.
func (s *Scene) AddObject(o *Object) *Object {
	s.Objects = append(s.Objects, o)
	return o
}

// Bounds returns the union of every object's bounds and false if the scene
// has no objects.
func (s *Scene) Bounds() (AABB, bool) {
	if len(s.Objects) == 0 {
		return AABB{}, false
	}
	b := s.Objects[0].Bounds
	for _, o := range s.Objects[1:] {
		b = b.Union(o.Bounds)
	}
	return b, true
}
