package sample

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/deadsy/sdfx/sdf"
	"gonum.org/v1/gonum/stat"

	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
)

// PointCloud is an ordered set of sample points. Clouds returned by this
// package are freshly allocated and never retained.
type PointCloud []geom.Vec3

// UniformK is the ball scatter exponent giving uniform volumetric density.
const UniformK = 3

// parallelLimit is how close |axis·z| may get to 1 before the cylinder
// basis switches its helper vector to x.
const parallelLimit = 1 - 1e-6

// NewRand returns the random source used for a single call.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func checkCount(count int) error {
	if count <= 0 {
		return errors.New(errors.ErrCodeDegenerateSampling, "sample count must be positive, got %d", count)
	}
	return nil
}

// ScatterBall draws count points in the ball of the given radius around
// center. Directions are uniform on the sphere; the radial magnitude is
// U^(1/k)·radius, so k = 3 gives uniform density, k > 3 favors the shell
// and k < 3 the center.
func ScatterBall(center geom.Vec3, radius float64, count int, k float64, seed uint64) (PointCloud, error) {
	return BallWith(NewRand(seed), center, radius, count, k)
}

// BallWith is ScatterBall drawing from rng.
func BallWith(rng *rand.Rand, center geom.Vec3, radius float64, count int, k float64) (PointCloud, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}
	if radius < 0 || math.IsNaN(radius) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "ball radius must be non-negative, got %g", radius)
	}
	if k <= 0 || math.IsNaN(k) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "density exponent k must be positive, got %g", k)
	}

	pts := make(PointCloud, count)
	for i := range pts {
		dir := geom.RandomUnit(rng)
		r := math.Pow(rng.Float64(), 1/k) * radius
		pts[i] = center.Add(dir.MulScalar(r))
	}
	return pts, nil
}

// ScatterCylinder draws count points uniformly in a cylinder of the given
// height and radius, centered at center and aligned with axis.
func ScatterCylinder(center geom.Vec3, height, radius float64, axis geom.Vec3, count int, seed uint64) (PointCloud, error) {
	return CylinderWith(NewRand(seed), center, height, radius, axis, count)
}

// CylinderWith is ScatterCylinder drawing from rng.
func CylinderWith(rng *rand.Rand, center geom.Vec3, height, radius float64, axis geom.Vec3, count int) (PointCloud, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}
	if height < 0 || radius < 0 || math.IsNaN(height) || math.IsNaN(radius) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"cylinder height and radius must be non-negative, got %g and %g", height, radius)
	}
	n := axis.Length()
	if n < geom.Epsilon {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cylinder axis must be non-zero")
	}
	axis = axis.MulScalar(1 / n)
	u, v := basis(axis)

	pts := make(PointCloud, count)
	for i := range pts {
		h := (rng.Float64() - 0.5) * height
		r := radius * math.Sqrt(rng.Float64())
		theta := rng.Float64() * 2 * math.Pi
		p := center.Add(axis.MulScalar(h))
		p = p.Add(u.MulScalar(r * math.Cos(theta)))
		p = p.Add(v.MulScalar(r * math.Sin(theta)))
		pts[i] = p
	}
	return pts, nil
}

// basis returns two unit vectors orthogonal to the unit vector axis and to
// each other.
func basis(axis geom.Vec3) (u, v geom.Vec3) {
	helper := geom.V(0, 0, 1)
	if math.Abs(axis.Z) > parallelLimit {
		helper = geom.V(1, 0, 0)
	}
	u = axis.Cross(helper).Normalize()
	v = axis.Cross(u)
	return u, v
}

// UniformBox draws count points uniformly inside box.
func UniformBox(rng *rand.Rand, box sdf.Box3, count int) (PointCloud, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}
	size := box.Max.Sub(box.Min)
	pts := make(PointCloud, count)
	for i := range pts {
		pts[i] = geom.V(
			box.Min.X+size.X*rng.Float64(),
			box.Min.Y+size.Y*rng.Float64(),
			box.Min.Z+size.Z*rng.Float64(),
		)
	}
	return pts, nil
}

// FilterValid keeps the points that satisfy every constraint, that is
// Inner <= dist <= Outer for each sphere. Void spheres reject every point.
// Order is preserved and the result is a new slice.
func FilterValid(points PointCloud, spheres []geom.Sphere) PointCloud {
	valid := make(PointCloud, 0, len(points))
	for _, p := range points {
		if satisfiesAll(p, spheres) {
			valid = append(valid, p)
		}
	}
	return valid
}

func satisfiesAll(p geom.Vec3, spheres []geom.Sphere) bool {
	for _, s := range spheres {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// Centroid returns the per-axis mean of points.
func Centroid(points PointCloud) (geom.Vec3, error) {
	if len(points) == 0 {
		return geom.Vec3{}, errors.New(errors.ErrCodeInvalidInput, "centroid of an empty point cloud")
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return geom.V(stat.Mean(xs, nil), stat.Mean(ys, nil), stat.Mean(zs, nil)), nil
}

// Downsample returns at most limit points picked without replacement, in
// their original order. limit <= 0 means no cap.
func Downsample(points PointCloud, limit int, seed uint64) PointCloud {
	if limit <= 0 || len(points) <= limit {
		return slices.Clone(points)
	}
	idx := NewRand(seed).Perm(len(points))[:limit]
	slices.Sort(idx)
	out := make(PointCloud, limit)
	for i, j := range idx {
		out[i] = points[j]
	}
	return out
}
