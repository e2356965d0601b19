package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/lodestar/pkg/sample"
)

// writeJSON writes v to path, or to w when path is empty or "-".
func writeJSON(w io.Writer, path string, v any) error {
	if path == "" || path == "-" {
		return json.NewEncoder(w).Encode(v)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(w, path)
	return nil
}

func newScatterCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "scatter <script>",
		Short: "Write the validated point cloud of a script as JSON",
		Long:  `Write the points around the intersection seed that satisfy every active sphere, as [[x, y, z], ...]. The cloud is capped at scatter.max_plot_points.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			sess, err := loadSession(ctx, args[0])
			if err != nil {
				return err
			}
			snap, err := snapshot(ctx, sess)
			if err != nil {
				return err
			}

			cloud := sample.Downsample(snap.Cloud, cfg.Scatter.MaxPlotPoints, sess.Seed()+2)
			logger.Debug("scatter", "points", len(snap.Cloud), "written", len(cloud))

			rows := make([][3]float64, len(cloud))
			for i, p := range cloud {
				rows[i] = [3]float64{p.X, p.Y, p.Z}
			}
			return writeJSON(cmd.OutOrStdout(), output, rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
