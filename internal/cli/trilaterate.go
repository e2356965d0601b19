package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chazu/lodestar/pkg/constraint"
	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/trilat"
)

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "argument %d", i+1)
		}
		out[i] = f
	}
	return out, nil
}

func newTrilaterateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trilaterate x1 y1 z1 r1 x2 y2 z2 r2",
		Short: "Intersect the surfaces of two spheres",
		Args:  cobra.ExactArgs(8),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			values, err := parseFloats(args)
			if err != nil {
				return err
			}
			a, err := constraint.FromTuple(values[:4], cfg.DefaultRadius)
			if err != nil {
				return err
			}
			b, err := constraint.FromTuple(values[4:], cfg.DefaultRadius)
			if err != nil {
				return err
			}

			seed, err := trilat.Trilaterate(a, b, cfg.Estimate.Tolerance)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Intersection circle")
			printKeyValue(out, "center", fmtVec(seed.Center))
			printKeyValue(out, "radius", fmt.Sprintf("%.6g", seed.CircleRadius))
			printKeyValue(out, "axis", fmtVec(seed.Axis))
			printKeyValue(out, "offset", fmt.Sprintf("%.6g", seed.Offset))
			printKeyValue(out, "overlap", fmt.Sprintf("%.6g", seed.Overlap))
			return nil
		},
	}
}
