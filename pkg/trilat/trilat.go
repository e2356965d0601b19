// Package trilat computes the analytic intersection circle of two sphere
// constraints and picks the most constraining pair out of a larger set.
//
// The pair result seeds the point sampler; it is a heuristic for more than
// two spheres and says nothing about the true N-ball intersection.
package trilat

import (
	"math"

	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
)

// Seed is the intersection of two sphere surfaces.
type Seed struct {
	// Center of the intersection circle's plane, on the line through both
	// sphere centers.
	Center geom.Vec3 `json:"center"`
	// Overlap is the sum of the outer radii minus the center distance.
	Overlap float64 `json:"overlap"`
	// CircleRadius is the radius of the intersection circle.
	CircleRadius float64 `json:"circle_radius"`
	// Axis is the unit vector from the first sphere's center to the second's.
	Axis geom.Vec3 `json:"axis"`
	// Offset is the distance along Axis from the first center to Center.
	Offset float64 `json:"offset"`
	// Pair holds the indices of the spheres the seed was computed from
	// when it came out of Intersect.
	Pair [2]int `json:"pair"`
}

// Overlap returns a.Outer + b.Outer - |ab|. Positive means the balls
// overlap; negative is the size of the gap between them.
func Overlap(a, b geom.Sphere) float64 {
	return a.Outer + b.Outer - geom.Dist(a.Center, b.Center)
}

// Trilaterate intersects the outer surfaces of a and b. It fails with
// ErrCodeNoIntersection when the balls are disjoint by more than tol, when
// one ball lies inside the other, or when the centers coincide (the
// intersection is then empty or the whole sphere, and the axis undefined).
func Trilaterate(a, b geom.Sphere, tol float64) (Seed, error) {
	ab := b.Center.Sub(a.Center)
	dist := ab.Length()
	overlap := a.Outer + b.Outer - dist

	if dist <= tol {
		return Seed{}, errors.New(errors.ErrCodeNoIntersection,
			"spheres %v and %v share a center", a, b)
	}
	if overlap < -tol {
		return Seed{}, errors.New(errors.ErrCodeNoIntersection,
			"spheres %v and %v are disjoint (overlap %g)", a, b, overlap)
	}

	axis := ab.MulScalar(1 / dist)
	d := (dist*dist + a.Outer*a.Outer - b.Outer*b.Outer) / (2 * dist)
	h2 := a.Outer*a.Outer - d*d
	if h2 < -tol {
		return Seed{}, errors.New(errors.ErrCodeNoIntersection,
			"sphere surfaces %v and %v do not meet (one ball holds the other)", a, b)
	}

	return Seed{
		Center:       a.Center.Add(axis.MulScalar(d)),
		Overlap:      overlap,
		CircleRadius: math.Sqrt(math.Max(0, h2)),
		Axis:         axis,
		Offset:       d,
	}, nil
}

// MostConstrainingPair scans every ordered pair of distinct spheres and
// returns the one with the smallest overlap. Ties keep the first pair
// encountered.
func MostConstrainingPair(spheres []geom.Sphere) (i, j int, overlap float64, err error) {
	if len(spheres) < 2 {
		return 0, 0, 0, errors.New(errors.ErrCodeInsufficientConstraints,
			"need at least 2 spheres, have %d", len(spheres))
	}
	i, j, overlap = -1, -1, math.Inf(1)
	for p := range spheres {
		for q := range spheres {
			if p == q {
				continue
			}
			if o := Overlap(spheres[p], spheres[q]); i < 0 || o < overlap {
				i, j, overlap = p, q, o
			}
		}
	}
	return i, j, overlap, nil
}

// Intersect trilaterates the most constraining pair of spheres.
func Intersect(spheres []geom.Sphere, tol float64) (Seed, error) {
	i, j, _, err := MostConstrainingPair(spheres)
	if err != nil {
		return Seed{}, err
	}
	seed, err := Trilaterate(spheres[i], spheres[j], tol)
	if err != nil {
		return Seed{}, err
	}
	seed.Pair = [2]int{i, j}
	return seed, nil
}
