package glcontext

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// boxMesh is a unit cube spanning [-1, 1] with per-face normals.
type boxMesh struct {
	vao   uint32
	vbo   uint32
	count int32
}

const boxStride = 6 // position + normal

func newBoxMesh() *boxMesh {
	vertices := boxVertices()
	m := &boxMesh{count: int32(len(vertices) / boxStride)}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	// Position attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, boxStride*4, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, boxStride*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return m
}

// boxVertices builds 12 outward-facing triangles.
func boxVertices() []float32 {
	out := make([]float32, 0, 36*boxStride)
	for axis := 0; axis < 3; axis++ {
		for _, sign := range []float32{-1, 1} {
			var n, u, v [3]float32
			n[axis] = sign
			u[(axis+1)%3] = 1
			v[(axis+2)%3] = 1
			if sign < 0 {
				u, v = v, u
			}
			corner := func(su, sv float32) [3]float32 {
				var p [3]float32
				for i := range p {
					p[i] = n[i] + su*u[i] + sv*v[i]
				}
				return p
			}
			quad := [4][3]float32{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}
			for _, i := range []int{0, 1, 2, 0, 2, 3} {
				out = append(out, quad[i][0], quad[i][1], quad[i][2], n[0], n[1], n[2])
			}
		}
	}
	return out
}

// boxModel maps the unit cube onto b.
func boxModel(b scene.AABB) math.Mat4 {
	c, e := b.Center(), b.Extents()
	return math.Translate(c.X, c.Y, c.Z).Mul(math.Scale(e.X, e.Y, e.Z))
}

func (m *boxMesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	gl.BindVertexArray(0)
}

func (m *boxMesh) destroy() {
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}
