package shadow

import (
	"testing"

	"github.com/Faultbox/atlasrp/pkg/math"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		tiles, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{4, 2},
		{5, 4},
		{6, 4},
		{16, 4},
	}

	for _, tt := range tests {
		if got := Split(tt.tiles); got != tt.want {
			t.Errorf("Split(%d) = %d, want %d", tt.tiles, got, tt.want)
		}
	}
}

func TestSplitIsSmallestFit(t *testing.T) {
	for tiles := 1; tiles <= MaxTiles; tiles++ {
		s := Split(tiles)
		if s*s < tiles {
			t.Errorf("Split(%d) = %d does not fit", tiles, s)
		}
		for _, smaller := range []int{1, 2} {
			if smaller < s && smaller*smaller >= tiles {
				t.Errorf("Split(%d) = %d, %d would fit", tiles, s, smaller)
			}
		}
	}
}

func TestTileOffsetSingleLightFourCascades(t *testing.T) {
	split := Split(4)
	if split != 2 {
		t.Fatalf("split = %d, want 2", split)
	}
	want := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	for i, w := range want {
		if got := TileOffset(i, split); got != w {
			t.Errorf("TileOffset(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestTileViewportsCoverGrid(t *testing.T) {
	const atlas = 1024
	for _, tiles := range []int{1, 4, 6, 16} {
		split := Split(tiles)
		size := atlas / split
		covered := 0
		for i := 0; i < tiles; i++ {
			r := TileViewport(i, split, size)
			if r.X < 0 || r.Y < 0 || r.X+r.Width > atlas || r.Y+r.Height > atlas {
				t.Errorf("tiles=%d: viewport %d %+v outside the atlas", tiles, i, r)
			}
			for j := 0; j < i; j++ {
				if r.Overlaps(TileViewport(j, split, size)) {
					t.Errorf("tiles=%d: viewports %d and %d overlap", tiles, i, j)
				}
			}
			covered += r.Width * r.Height
		}
		if tiles == split*split && covered != atlas*atlas {
			t.Errorf("tiles=%d: covered %d pixels, want %d", tiles, covered, atlas*atlas)
		}
	}
}

func TestConvertToAtlasMatrixCorners(t *testing.T) {
	tests := []struct {
		name      string
		offset    math.Vec2
		split     int
		reversedZ bool
		in        math.Vec3
		want      math.Vec3
	}{
		{"whole atlas min", math.Vec2{}, 1, false, math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{}},
		{"whole atlas max", math.Vec2{}, 1, false, math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 1, Y: 1, Z: 1}},
		{"tile min", math.Vec2{X: 1, Y: 0}, 2, false, math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 0.5, Y: 0, Z: 0}},
		{"tile max", math.Vec2{X: 1, Y: 1}, 2, false, math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 1, Y: 1, Z: 1}},
		{"quarter tile", math.Vec2{X: 3, Y: 2}, 4, false, math.Vec3{X: 1, Y: -1, Z: 0}, math.Vec3{X: 1, Y: 0.5, Z: 0.5}},
		{"reversed near", math.Vec2{}, 1, true, math.Vec3{X: 0, Y: 0, Z: -1}, math.Vec3{X: 0.5, Y: 0.5, Z: 1}},
		{"reversed far", math.Vec2{}, 1, true, math.Vec3{X: 0, Y: 0, Z: 1}, math.Vec3{X: 0.5, Y: 0.5, Z: 0}},
	}

	for _, tt := range tests {
		m := ConvertToAtlasMatrix(math.Identity(), tt.offset, tt.split, tt.reversedZ)
		got := m.TransformPoint(tt.in)
		if !near3(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestConvertToAtlasMatrixLandsInTile(t *testing.T) {
	view := math.LookAt(math.Vec3{X: 5, Y: 20, Z: 5}, math.Vec3{}, math.Vec3{Z: 1})
	proj := math.Ortho(-10, 10, -10, 10, 0.5, 50)
	vp := proj.Mul(view)

	const split = 4
	points := []math.Vec3{{}, {X: 3, Y: 1, Z: -2}, {X: -6, Y: 4, Z: 7}}
	for tile := 0; tile < split*split; tile++ {
		offset := TileOffset(tile, split)
		m := ConvertToAtlasMatrix(vp, offset, split, false)
		for _, p := range points {
			ndc := vp.TransformPoint(p)
			got := m.TransformPoint(p)
			want := math.Vec3{
				X: (ndc.X*0.5 + 0.5 + offset.X) / split,
				Y: (ndc.Y*0.5 + 0.5 + offset.Y) / split,
				Z: ndc.Z*0.5 + 0.5,
			}
			if !near3(got, want) {
				t.Errorf("tile %d point %v: got %v, want %v", tile, p, got, want)
			}
			if got.X < offset.X/split || got.X > (offset.X+1)/split {
				t.Errorf("tile %d point %v: x=%f outside the tile", tile, p, got.X)
			}
		}
	}
}

func TestConvertToAtlasMatrixReversedZFlipsDepth(t *testing.T) {
	vp := math.Ortho(-4, 4, -4, 4, 1, 30).Mul(math.Translate(0, 0, -5))
	p := math.Vec3{X: 1, Y: 2, Z: -3}

	standard := ConvertToAtlasMatrix(vp, math.Vec2{}, 1, false).TransformPoint(p)
	reversed := ConvertToAtlasMatrix(vp, math.Vec2{}, 1, true).TransformPoint(p)

	if !near(standard.X, reversed.X) || !near(standard.Y, reversed.Y) {
		t.Errorf("xy changed: standard %v, reversed %v", standard, reversed)
	}
	if !near(standard.Z+reversed.Z, 1) {
		t.Errorf("depth not flipped: standard %f, reversed %f", standard.Z, reversed.Z)
	}
}

func TestConvertToAtlasMatrixRoundTrip(t *testing.T) {
	view := math.LookAt(math.Vec3{X: 5, Y: 20, Z: 5}, math.Vec3{}, math.Vec3{Z: 1})
	vp := math.Ortho(-10, 10, -10, 10, 0.5, 50).Mul(view)

	const split = 4
	points := []math.Vec3{{}, {X: 3, Y: 1, Z: -2}, {X: -6, Y: 4, Z: 7}}
	for _, reversedZ := range []bool{false, true} {
		for tile := 0; tile < split*split; tile++ {
			m := ConvertToAtlasMatrix(vp, TileOffset(tile, split), split, reversedZ)
			inv := m.Inverse()
			for _, p := range points {
				got := inv.TransformPoint(m.TransformPoint(p))
				d := got.Sub(p)
				if d.Length() > 1e-3 {
					t.Errorf("reversedZ=%v tile %d: %v came back as %v", reversedZ, tile, p, got)
				}
			}
		}
	}
}

func TestConvertToAtlasMatrixKeepsInput(t *testing.T) {
	m := math.Identity()
	_ = ConvertToAtlasMatrix(m, math.Vec2{X: 1}, 2, true)
	if m != math.Identity() {
		t.Error("input matrix was modified")
	}
}

func near(a, b float32) bool {
	d := a - b
	return d > -1e-4 && d < 1e-4
}

func near3(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}
