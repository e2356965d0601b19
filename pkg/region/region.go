// Package region approximates the common intersection of N sphere
// constraints. It prunes with the intersection of the spheres' bounding
// boxes, looks for a feasible seed by uniform sampling in that box, then
// refines an approximate Chebyshev center: the point whose distance to
// the nearest outer surface is largest.
//
// The estimate has no optimality guarantee. Inner radii are ignored here;
// callers that need them filter sample points with sample.FilterValid.
package region

import (
	"encoding/json"
	"math"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
	"github.com/chazu/lodestar/pkg/sample"
)

// MaxReturnPoints caps the feasible seed points attached to a Result.
const MaxReturnPoints = 2000

// Result describes the estimated feasible region.
type Result struct {
	Feasible bool `json:"feasible"`
	// Center is the best Chebyshev center found; nil when the bounding
	// boxes already rule out any intersection.
	Center *geom.Vec3 `json:"center,omitempty"`
	// InnerRadius is the radius of the largest ball around Center that
	// fits inside every outer ball.
	InnerRadius float64 `json:"inner_radius"`
	// MaxViolation is how far Center lies outside the worst sphere; +Inf
	// when the bounding boxes do not intersect.
	MaxViolation float64 `json:"max_violation"`
	// AABB is the intersection of the spheres' bounding boxes.
	AABB *sdf.Box3 `json:"aabb,omitempty"`
	// Points holds feasible seed samples when Config.ReturnPoints is set.
	Points sample.PointCloud `json:"points,omitempty"`
}

// MarshalJSON encodes an infinite MaxViolation as null.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		plain
		MaxViolation *float64 `json:"max_violation"`
	}{plain: plain(r)}
	if !math.IsInf(r.MaxViolation, 0) {
		v := r.MaxViolation
		out.MaxViolation = &v
	}
	return json.Marshal(out)
}

// MinMargin returns g(x) = min_i(Outer_i - |x - c_i|) and the index of the
// tightest sphere.
func MinMargin(x geom.Vec3, spheres []geom.Sphere) (float64, int) {
	best, k := math.Inf(1), -1
	for i, s := range spheres {
		if m := s.Margin(x); m < best {
			best, k = m, i
		}
	}
	return best, k
}

// Estimate approximates the intersection of spheres.
//
// With fewer than two spheres it fails with ErrCodeInsufficientConstraints.
// When the bounding boxes are disjoint it returns an infeasible Result
// with MaxViolation = +Inf together with ErrCodeEmptyFeasibleRegion.
func Estimate(spheres []geom.Sphere, cfg Config) (*Result, error) {
	if len(spheres) < 2 {
		return nil, errors.New(errors.ErrCodeInsufficientConstraints,
			"region estimate needs at least 2 spheres, have %d", len(spheres))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	box, ok := geom.IntersectBoxes(spheres)
	if !ok {
		return &Result{MaxViolation: math.Inf(1)}, errors.New(errors.ErrCodeEmptyFeasibleRegion,
			"bounding boxes of %d spheres do not intersect", len(spheres))
	}

	rng := sample.NewRand(cfg.Seed)
	candidates, err := sample.UniformBox(rng, box, cfg.SampleCount)
	if err != nil {
		return nil, err
	}
	feasible := make(sample.PointCloud, 0, len(candidates)/4)
	for _, p := range candidates {
		if withinOuter(p, spheres, cfg.Tolerance) {
			feasible = append(feasible, p)
		}
	}

	start := feasible
	if len(start) == 0 {
		start = make(sample.PointCloud, len(spheres))
		for i, s := range spheres {
			start[i] = s.Center
		}
	}
	x0, err := sample.Centroid(start)
	if err != nil {
		return nil, err
	}

	var best geom.Vec3
	switch cfg.Method {
	case MethodNelderMead:
		best, err = nelderMead(spheres, x0, cfg)
		if err != nil {
			return nil, err
		}
	default:
		best = subgradient(rng, spheres, x0, cfg.RefineIters, cfg.Step0)
	}

	g, _ := MinMargin(best, spheres)
	res := &Result{
		Center:       &best,
		InnerRadius:  math.Max(0, g),
		MaxViolation: math.Max(0, -g),
		AABB:         &box,
	}
	res.Feasible = res.MaxViolation <= cfg.Tolerance
	if cfg.ReturnPoints {
		res.Points = sample.Downsample(feasible, MaxReturnPoints, cfg.Seed+1)
	}
	return res, nil
}

func withinOuter(p geom.Vec3, spheres []geom.Sphere, tol float64) bool {
	for _, s := range spheres {
		if geom.Dist(p, s.Center) > s.Outer+tol {
			return false
		}
	}
	return true
}
