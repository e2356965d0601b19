package constraint

import (
	"slices"

	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
)

// DefaultTolerance is the slack used for containment comparisons when the
// caller has no better value.
const DefaultTolerance = 1e-6

// Set is an insertion-ordered list of active constraints plus the inactive
// spheres they superseded. A Set is a value: Add and Undo return a new Set
// and leave their input untouched.
type Set struct {
	Active   []geom.Sphere `json:"active"`
	Inactive []geom.Sphere `json:"inactive"`
}

// Len returns the number of active constraints.
func (s Set) Len() int {
	return len(s.Active)
}

// Clone returns a deep copy of s.
func (s Set) Clone() Set {
	return Set{
		Active:   slices.Clone(s.Active),
		Inactive: slices.Clone(s.Inactive),
	}
}

// Add applies the dominance rule for n against every active sphere, in
// insertion order:
//
//   - if n lies inside an active sphere s and s is no larger than n (the
//     near-duplicate case), s stays and n is retired as redundant;
//   - if n lies inside s otherwise, s is retired and n stays a candidate;
//   - if n is not inside s, s is kept.
//
// n joins the active list unless it was marked redundant. All comparisons
// use tol as slack.
func Add(set Set, n geom.Sphere, tol float64) Set {
	out := Set{
		Active:   make([]geom.Sphere, 0, len(set.Active)+1),
		Inactive: slices.Clone(set.Inactive),
	}
	redundant := false
	for _, s := range set.Active {
		contained := geom.Dist(s.Center, n.Center)+n.Outer <= s.Outer+tol
		switch {
		case contained && s.Outer <= n.Outer+tol:
			out.Active = append(out.Active, s)
			redundant = true
		case contained:
			out.Inactive = append(out.Inactive, s)
		default:
			out.Active = append(out.Active, s)
		}
	}
	if redundant {
		out.Inactive = append(out.Inactive, n)
	} else {
		out.Active = append(out.Active, n)
	}
	return out
}

// Undo retires the most recently added active sphere.
func Undo(set Set) (Set, error) {
	if len(set.Active) == 0 {
		return set, errors.New(errors.ErrCodeInsufficientConstraints, "no active sphere to remove")
	}
	out := set.Clone()
	last := out.Active[len(out.Active)-1]
	out.Active = out.Active[:len(out.Active)-1]
	out.Inactive = append(out.Inactive, last)
	return out, nil
}
