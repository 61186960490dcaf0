package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. It is
// called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the erd CLI and returns an error if any command fails.
// The logger is attached to the context and accessible to all commands
// via loggerFromContext; --verbose raises the level to debug.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "erd",
		Short:        "erd routes and renders entity-relationship diagrams",
		Long:         `erd takes a diagram file describing tables and their relationships, routes orthogonal connectors around the tables, and renders the result as SVG.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("erd %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRouteCmd())
	root.AddCommand(newRenderCmd())

	return root.ExecuteContext(context.Background())
}
