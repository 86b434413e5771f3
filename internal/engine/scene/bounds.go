package scene

import (
	gomath "math"

	"github.com/Faultbox/atlasrp/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB builds a box from a center and half extents.
func NewAABB(center, halfExtents math.Vec3) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// Center returns the center point of the AABB.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the half size along each axis.
func (b AABB) Extents() math.Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Extents().Length()
}

// Union returns the smallest box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]math.Vec3 {
	var c [8]math.Vec3
	for i := range c {
		c[i] = math.Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			c[i].X = b.Max.X
		}
		if i&2 != 0 {
			c[i].Y = b.Max.Y
		}
		if i&4 != 0 {
			c[i].Z = b.Max.Z
		}
	}
	return c
}

// IntersectsSphere reports whether the box touches the sphere.
func (b AABB) IntersectsSphere(center math.Vec3, radius float32) bool {
	var d2 float32
	for _, a := range [3][3]float32{
		{center.X, b.Min.X, b.Max.X},
		{center.Y, b.Min.Y, b.Max.Y},
		{center.Z, b.Min.Z, b.Max.Z},
	} {
		switch {
		case a[0] < a[1]:
			d2 += (a[1] - a[0]) * (a[1] - a[0])
		case a[0] > a[2]:
			d2 += (a[0] - a[2]) * (a[0] - a[2])
		}
	}
	return d2 <= radius*radius
}

// IsValid reports whether Min <= Max on every axis and no component is NaN.
func (b AABB) IsValid() bool {
	for _, v := range []float32{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if gomath.IsNaN(float64(v)) {
			return false
		}
	}
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}
