// Package cli implements the lodestar command-line interface.
//
// Commands evaluate measurement scripts (see package engine) and report
// the estimated location, export the validated point cloud, or mesh the
// feasible region. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - run: Evaluate a script and print the full estimate
//   - trilaterate: Intersect two spheres given on the command line
//   - scatter: Write the validated point cloud of a script as JSON
//   - mesh: Write the feasible region of a script as a triangle mesh
//   - version: Print build information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context together with the loaded configuration.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/lodestar/pkg/config"
)

var (
	version = "dev"     // semantic version (e.g., "v1.2.3")
	commit  = "none"    // git commit SHA
	date    = "unknown" // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the lodestar CLI with os.Args and returns an error if any
// command fails.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}

// newRootCmd builds the command tree. Logs go to logOut; command output
// goes to the command's configured stdout.
func newRootCmd(logOut io.Writer) *cobra.Command {
	var (
		verbose    bool
		configPath string
		seed       uint64
	)

	root := &cobra.Command{
		Use:           "lodestar",
		Short:         "Lodestar estimates a location from sphere constraints",
		Long:          `Lodestar narrows an unknown 3D location down from a growing set of distance measurements, each a sphere or spherical shell around a known point.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(logOut, level)

			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
				logger.Debug("loaded config", "path", configPath)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = &seed
			}

			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("lodestar %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML configuration file")
	root.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed (overrides the config file)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newTrilaterateCmd())
	root.AddCommand(newScatterCmd())
	root.AddCommand(newMeshCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lodestar %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}
}
