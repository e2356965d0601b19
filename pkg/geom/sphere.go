package geom

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Sphere is a distance constraint: the set of points whose distance from
// Center lies in [Inner, Outer]. Inner == 0 is a filled ball. Inner > Outer
// is a legal "void" constraint that no point satisfies.
type Sphere struct {
	Center Vec3    `json:"center"`
	Outer  float64 `json:"outer"`
	Inner  float64 `json:"inner,omitempty"`
}

// NewSphere returns a filled ball constraint.
func NewSphere(center Vec3, outer float64) Sphere {
	return Sphere{Center: center, Outer: outer}
}

// NewShell returns an annular constraint with both radii set.
func NewShell(center Vec3, outer, inner float64) Sphere {
	return Sphere{Center: center, Outer: outer, Inner: inner}
}

// Contains reports whether p satisfies the constraint, boundaries included.
func (s Sphere) Contains(p Vec3) bool {
	d := Dist(s.Center, p)
	return s.Inner <= d && d <= s.Outer
}

// Margin is Outer minus the distance from p to the center: the radius of
// the largest ball around p inside the outer ball. Negative outside.
func (s Sphere) Margin(p Vec3) float64 {
	return s.Outer - Dist(s.Center, p)
}

// IsVoid reports whether the inner radius exceeds the outer radius.
func (s Sphere) IsVoid() bool {
	return s.Inner > s.Outer
}

// Box returns the axis-aligned bounding box of the outer ball.
func (s Sphere) Box() sdf.Box3 {
	r := v3.Vec{X: s.Outer, Y: s.Outer, Z: s.Outer}
	return sdf.Box3{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

func (s Sphere) String() string {
	if s.Inner != 0 {
		return fmt.Sprintf("(%g, %g, %g) r=%g inner=%g", s.Center.X, s.Center.Y, s.Center.Z, s.Outer, s.Inner)
	}
	return fmt.Sprintf("(%g, %g, %g) r=%g", s.Center.X, s.Center.Y, s.Center.Z, s.Outer)
}
