package region

import (
	"github.com/chazu/lodestar/pkg/errors"
)

// Method selects the Chebyshev center refinement.
type Method string

const (
	// MethodSubgradient is diminishing-step subgradient ascent on g(x).
	MethodSubgradient Method = "subgradient"
	// MethodNelderMead minimizes -g(x) with the gonum Nelder-Mead simplex.
	MethodNelderMead Method = "nelder-mead"
)

// Config controls the estimator.
type Config struct {
	SampleCount  int     `toml:"sample_count"`  // Monte Carlo seed samples
	RefineIters  int     `toml:"refine_iters"`  // refinement iterations
	Step0        float64 `toml:"step0"`         // initial step (simplex size for nelder-mead)
	Tolerance    float64 `toml:"tolerance"`     // feasibility slack
	Method       Method  `toml:"method"`        // refinement method
	ReturnPoints bool    `toml:"return_points"` // attach feasible seed samples

	// Seed drives the single random source of a call.
	Seed uint64 `toml:"-"`
}

// DefaultConfig returns the estimator defaults.
func DefaultConfig() Config {
	return Config{
		SampleCount: 50000,
		RefineIters: 600,
		Step0:       0.25,
		Tolerance:   1e-6,
		Method:      MethodSubgradient,
	}
}

// Validate rejects zero iteration budgets and malformed parameters.
func (c Config) Validate() error {
	if c.SampleCount <= 0 {
		return errors.New(errors.ErrCodeDegenerateSampling, "sample_count must be positive, got %d", c.SampleCount)
	}
	if c.RefineIters <= 0 {
		return errors.New(errors.ErrCodeDegenerateSampling, "refine_iters must be positive, got %d", c.RefineIters)
	}
	if !(c.Step0 > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "step0 must be positive, got %g", c.Step0)
	}
	if !(c.Tolerance >= 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "tolerance must be non-negative, got %g", c.Tolerance)
	}
	switch c.Method {
	case MethodSubgradient, MethodNelderMead, "":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown refinement method %q", c.Method)
	}
	return nil
}
