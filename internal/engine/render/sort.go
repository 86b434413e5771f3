package render

import (
	"cmp"
	"slices"

	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// SortObjects returns objs ordered by distance from eye. The input slice is
// not modified and ties keep their original order.
func SortObjects(objs []*scene.Object, eye math.Vec3, criteria SortCriteria) []*scene.Object {
	out := slices.Clone(objs)
	slices.SortStableFunc(out, func(a, b *scene.Object) int {
		da := a.Bounds.Center().Distance(eye)
		db := b.Bounds.Center().Distance(eye)
		if criteria == SortBackToFront {
			return cmp.Compare(db, da)
		}
		return cmp.Compare(da, db)
	})
	return out
}
