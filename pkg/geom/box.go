package geom

import (
	"github.com/deadsy/sdfx/sdf"
)

// PointBox returns the degenerate box containing only p.
func PointBox(p Vec3) sdf.Box3 {
	return sdf.Box3{Min: p, Max: p}
}

// Include grows b so that it contains p.
func Include(b sdf.Box3, p Vec3) sdf.Box3 {
	return sdf.Box3{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// IntersectBoxes intersects the outer-ball boxes of every sphere. The
// second result is false when some axis interval is empty.
func IntersectBoxes(spheres []Sphere) (sdf.Box3, bool) {
	if len(spheres) == 0 {
		return sdf.Box3{}, false
	}
	box := spheres[0].Box()
	for _, s := range spheres[1:] {
		b := s.Box()
		box = sdf.Box3{Min: box.Min.Max(b.Min), Max: box.Max.Min(b.Max)}
	}
	if box.Min.X > box.Max.X || box.Min.Y > box.Max.Y || box.Min.Z > box.Max.Z {
		return box, false
	}
	return box, true
}
