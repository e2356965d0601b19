package constraint

import (
	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
)

// DefaultRadius is the outer radius given to a bare coordinate triple.
const DefaultRadius = 200

// FromTuple decodes the positional forms a measurement may arrive in:
//
//	x y z                 outer radius = defaultRadius
//	x y z outer
//	x y z outer inner
func FromTuple(values []float64, defaultRadius float64) (geom.Sphere, error) {
	switch len(values) {
	case 3:
		return geom.NewSphere(geom.V(values[0], values[1], values[2]), defaultRadius), nil
	case 4:
		return geom.NewSphere(geom.V(values[0], values[1], values[2]), values[3]), nil
	case 5:
		return geom.NewShell(geom.V(values[0], values[1], values[2]), values[3], values[4]), nil
	}
	return geom.Sphere{}, errors.New(errors.ErrCodeInvalidInput,
		"sphere needs 3, 4 or 5 numbers (x y z [outer [inner]]), got %d", len(values))
}
