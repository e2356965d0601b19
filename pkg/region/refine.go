package region

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/optimize"

	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
)

// subgradient runs iters steps of ascent on g(x) from x0. Each step moves
// away from the tightest sphere by step0/sqrt(t). The best point seen is
// returned, not the last iterate.
func subgradient(rng *rand.Rand, spheres []geom.Sphere, x0 geom.Vec3, iters int, step0 float64) geom.Vec3 {
	x := x0
	best, bestVal := x0, math.Inf(-1)

	for t := 1; t <= iters; t++ {
		val, k := MinMargin(x, spheres)
		if val > bestVal {
			best, bestVal = x, val
		}

		away := x.Sub(spheres[k].Center)
		var dir geom.Vec3
		if d := away.Length(); d < geom.Epsilon {
			dir = geom.RandomUnit(rng)
		} else {
			dir = away.MulScalar(1 / d)
		}
		x = x.Add(dir.MulScalar(step0 / math.Sqrt(float64(t))))
	}
	return best
}

// nelderMead minimizes -g(x) from x0 and keeps whichever of x0 and the
// optimizer's location has the larger margin.
func nelderMead(spheres []geom.Sphere, x0 geom.Vec3, cfg Config) (geom.Vec3, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			g, _ := MinMargin(geom.V(x[0], x[1], x[2]), spheres)
			return -g
		},
	}
	settings := &optimize.Settings{MajorIterations: cfg.RefineIters}
	method := &optimize.NelderMead{SimplexSize: cfg.Step0}

	res, err := optimize.Minimize(problem, []float64{x0.X, x0.Y, x0.Z}, settings, method)
	if res == nil {
		return x0, errors.Wrap(errors.ErrCodeInternal, err, "nelder-mead refinement")
	}

	x := geom.V(res.X[0], res.X[1], res.X[2])
	g0, _ := MinMargin(x0, spheres)
	if g, _ := MinMargin(x, spheres); g < g0 {
		return x0, nil
	}
	return x, nil
}
