// Package bounds summarizes a validated point cloud as an axis-aligned
// box around a reference center.
package bounds

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/lodestar/pkg/geom"
)

// Box is the reported bounding box. X, Y and Z hold [min, max] truncated
// toward zero; Extent keeps the untruncated box.
type Box struct {
	X      [2]int   `json:"x"`
	Y      [2]int   `json:"y"`
	Z      [2]int   `json:"z"`
	Extent sdf.Box3 `json:"-"`
}

// Report bounds points about center. The box starts as the single point
// center and only grows, so it always contains the center even if no
// sample lies there.
func Report(points []geom.Vec3, center geom.Vec3) Box {
	ext := geom.PointBox(center)
	for _, p := range points {
		ext = geom.Include(ext, p)
	}
	return Box{
		X:      [2]int{trunc(ext.Min.X), trunc(ext.Max.X)},
		Y:      [2]int{trunc(ext.Min.Y), trunc(ext.Max.Y)},
		Z:      [2]int{trunc(ext.Min.Z), trunc(ext.Max.Z)},
		Extent: ext,
	}
}

func trunc(v float64) int {
	return int(math.Trunc(v))
}

// Contains reports whether p lies inside the untruncated box.
func (b Box) Contains(p geom.Vec3) bool {
	return p.X >= b.Extent.Min.X && p.X <= b.Extent.Max.X &&
		p.Y >= b.Extent.Min.Y && p.Y <= b.Extent.Max.Y &&
		p.Z >= b.Extent.Min.Z && p.Z <= b.Extent.Max.Z
}

func (b Box) String() string {
	return fmt.Sprintf("x:%v y:%v z:%v", b.X, b.Y, b.Z)
}
