package cli

import (
	"github.com/spf13/cobra"

	"github.com/chazu/lodestar/pkg/kernel/sdfx"
	"github.com/chazu/lodestar/pkg/tessellate"
)

func newMeshCmd() *cobra.Command {
	var (
		output    string
		perSphere bool
	)

	cmd := &cobra.Command{
		Use:   "mesh <script>",
		Short: "Mesh the feasible region of a script",
		Long:  `Tessellate the intersection of every active sphere's shell with marching cubes and write the triangle mesh as JSON. With --per-sphere, write one mesh per active sphere instead.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			prog := newProgress(loggerFromContext(ctx))

			sess, err := loadSession(ctx, args[0])
			if err != nil {
				return err
			}
			active := sess.Set().Active
			k := sdfx.New(cfg.Mesh.Cells)

			if perSphere {
				meshes, err := tessellate.Constraints(active, k)
				if err != nil {
					return err
				}
				prog.done("Meshed constraints")
				return writeJSON(cmd.OutOrStdout(), output, meshes)
			}

			mesh, err := tessellate.Region(active, k)
			if err != nil {
				return err
			}
			if mesh.IsEmpty() {
				loggerFromContext(ctx).Warn("feasible region mesh is empty")
			}
			prog.done("Meshed region")
			return writeJSON(cmd.OutOrStdout(), output, mesh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&perSphere, "per-sphere", false, "write one mesh per active sphere")
	return cmd
}
