package shadow

import (
	"github.com/Faultbox/atlasrp/internal/engine/render"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// Split returns how many tiles the atlas is divided into along each side
// to hold tileCount tiles: the smallest of 1, 2 and 4 whose square fits.
func Split(tileCount int) int {
	switch {
	case tileCount <= 1:
		return 1
	case tileCount <= 4:
		return 2
	default:
		return 4
	}
}

// TileOffset returns the grid position of a tile, in tiles.
func TileOffset(index, split int) math.Vec2 {
	return math.Vec2{X: float32(index % split), Y: float32(index / split)}
}

// TileViewport returns the pixel rectangle of a tile in the atlas.
func TileViewport(index, split, tileSize int) render.Rect {
	return render.Rect{
		X:      (index % split) * tileSize,
		Y:      (index / split) * tileSize,
		Width:  tileSize,
		Height: tileSize,
	}
}

// ConvertToAtlasMatrix turns a light's projection*view matrix into one that
// maps world space straight to the atlas: x and y land in [0, 1] inside the
// tile at offset, z lands in [0, 1] light depth. Rows 0 and 1 are scaled by
// 1/split, row 2 is remapped independent of split and row 3 is kept.
// With a reversed depth buffer row 2 is negated first.
func ConvertToAtlasMatrix(m math.Mat4, offset math.Vec2, split int, reversedZ bool) math.Mat4 {
	if reversedZ {
		m.SetRow(2, m.Row(2).Neg())
	}

	scale := 1 / float32(split)
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	for j := 0; j < 4; j++ {
		m.Set(0, j, (0.5*(r0[j]+r3[j])+offset.X*r3[j])*scale)
		m.Set(1, j, (0.5*(r1[j]+r3[j])+offset.Y*r3[j])*scale)
		m.Set(2, j, 0.5*(r2[j]+r3[j]))
	}
	return m
}
