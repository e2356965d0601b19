package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/lodestar/pkg/engine"
	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
	"github.com/chazu/lodestar/pkg/session"
)

// loadSession evaluates the script at path into a fresh session.
func loadSession(ctx context.Context, path string) (*session.Session, error) {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	eng := engine.NewEngine(engine.Options{
		DefaultRadius: cfg.DefaultRadius,
		Tolerance:     cfg.Estimate.Tolerance,
	})
	script, evalErrs, err := eng.Evaluate(string(src))
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: %s", path, strings.Join(msgs, "; "))
	}
	for _, w := range script.Warnings {
		logger.Warn(w.Message, "sphere", w.Index)
	}

	cfg.DefaultRadius = script.DefaultRadius
	sess := session.New(cfg, logger)
	sess.Restore(script.Set)
	logger.Debug("evaluated script", "path", path, "active", script.Set.Len(),
		"inactive", len(script.Set.Inactive), "seed", sess.Seed())
	return sess, nil
}

// snapshot computes the session's derived state. Conditions that describe
// the measurements rather than a failure are logged and tolerated.
func snapshot(ctx context.Context, sess *session.Session) (*session.Snapshot, error) {
	snap, err := sess.Snapshot()
	if err == nil {
		return snap, nil
	}
	if errors.Is(err, errors.ErrCodeNoIntersection) || errors.Is(err, errors.ErrCodeEmptyFeasibleRegion) {
		loggerFromContext(ctx).Warn("constraints do not intersect", "err", err)
		return snap, nil
	}
	return nil, err
}

func newRunCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Evaluate a measurement script and report the estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			sess, err := loadSession(ctx, args[0])
			if err != nil {
				return err
			}
			snap, err := snapshot(ctx, sess)
			if err != nil {
				return err
			}
			prog.done("Estimated")

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			printReport(out, snap)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}

func fmtVec(v geom.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

func printReport(w io.Writer, snap *session.Snapshot) {
	printTitle(w, "Constraints")
	printKeyValue(w, "active", fmt.Sprint(len(snap.Active)))
	for i, s := range snap.Active {
		printDetail(w, "[%d] %v", i, s)
	}
	printKeyValue(w, "inactive", fmt.Sprint(len(snap.Inactive)))
	for i, s := range snap.Inactive {
		printDetail(w, "[%d] %v", i, s)
	}

	if len(snap.Active) < 2 {
		printWarning(w, "add at least 2 spheres for an estimate")
		return
	}

	if f := snap.Feasibility; f != nil {
		printTitle(w, "Feasible region")
		printKeyValue(w, "feasible", fmt.Sprint(f.Feasible))
		if f.Center != nil {
			printKeyValue(w, "center", fmtVec(*f.Center))
			printKeyValue(w, "radius", fmt.Sprintf("%.3f", f.InnerRadius))
			printKeyValue(w, "violation", fmt.Sprintf("%.3g", f.MaxViolation))
		}
	}

	if s := snap.Seed; s != nil {
		printTitle(w, "Intersection seed")
		printKeyValue(w, "pair", fmt.Sprintf("%d, %d", s.Pair[0], s.Pair[1]))
		printKeyValue(w, "center", fmtVec(s.Center))
		printKeyValue(w, "circle radius", fmt.Sprintf("%.3f", s.CircleRadius))
		printKeyValue(w, "overlap", fmt.Sprintf("%.3f", s.Overlap))
	} else {
		printWarning(w, "no intersection between the most constraining pair")
	}

	printTitle(w, "Point cloud")
	printKeyValue(w, "points", fmt.Sprint(len(snap.Cloud)))
	if snap.Centroid != nil {
		printKeyValue(w, "centroid", fmtVec(*snap.Centroid))
	}
	if snap.Bounds != nil {
		printKeyValue(w, "bounds", snap.Bounds.String())
	}
	if snap.Centroid != nil && snap.Feasibility != nil && snap.Feasibility.Feasible {
		printSuccess(w, "located")
	}
}
