package visibility

import (
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// Plane is n·p + d = 0 with the positive half-space inside the frustum.
type Plane struct {
	Normal   math.Vec3
	Distance float32
}

// Frustum holds the six clip planes of a view-projection matrix.
type Frustum struct {
	Planes [6]Plane // left, right, bottom, top, near, far
}

// ExtractFrustum extracts normalized planes from a combined projection*view
// matrix (Gribb/Hartmann).
func ExtractFrustum(viewProj math.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	var f Frustum
	for i, p := range [6]math.Vec4{
		r3.Add(r0),
		r3.Add(r0.Neg()),
		r3.Add(r1),
		r3.Add(r1.Neg()),
		r3.Add(r2),
		r3.Add(r2.Neg()),
	} {
		n := p.XYZ()
		l := n.Length()
		if l > 0 {
			n = n.Scale(1 / l)
			p[3] /= l
		}
		f.Planes[i] = Plane{Normal: n, Distance: p[3]}
	}
	return f
}

// IntersectsAABB reports whether any part of b may be inside the frustum.
func (f *Frustum) IntersectsAABB(b scene.AABB) bool {
	for _, p := range f.Planes {
		// Corner furthest along the plane normal.
		v := b.Min
		if p.Normal.X >= 0 {
			v.X = b.Max.X
		}
		if p.Normal.Y >= 0 {
			v.Y = b.Max.Y
		}
		if p.Normal.Z >= 0 {
			v.Z = b.Max.Z
		}
		if p.Normal.Dot(v)+p.Distance < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether any part of the sphere may be inside the frustum.
func (f *Frustum) IntersectsSphere(center math.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.Normal.Dot(center)+p.Distance < -radius {
			return false
		}
	}
	return true
}
