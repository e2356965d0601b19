package geom

import (
	"math"
	"math/rand/v2"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec3 is a point or direction in 3D space.
type Vec3 = v3.Vec

// Epsilon is the distance below which two points are treated as coincident
// when a direction between them is needed.
const Epsilon = 1e-9

// V returns the vector (x, y, z).
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec3) float64 {
	return b.Sub(a).Length()
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v Vec3) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// RandomUnit draws a direction uniformly on the unit sphere by normalizing
// a 3-component standard normal draw.
func RandomUnit(rng *rand.Rand) Vec3 {
	for {
		g := V(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
		if n := g.Length(); n > Epsilon {
			return g.MulScalar(1 / n)
		}
	}
}
