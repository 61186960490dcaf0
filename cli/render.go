package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"erd/render"
	"erd/routing"
)

// newRenderCmd creates the render command, which routes a diagram and
// writes a complete SVG document.
func newRenderCmd() *cobra.Command {
	var (
		output     string
		configPath string
		arrange    bool
	)

	cmd := &cobra.Command{
		Use:   "render <diagram.json>",
		Short: "Render a diagram with routed connectors as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			opts, err := loadOptions(configPath)
			if err != nil {
				return err
			}
			d, err := loadDiagram(args[0], arrange)
			if err != nil {
				return err
			}

			connectors, err := routing.RouteDiagram(d, opts, logger)
			if err != nil {
				printError("routing failed: %v", err)
				return err
			}

			svg := render.SVG(d, connectors, render.DefaultStyle())

			if output == "" {
				output = strings.TrimSuffix(args[0], ".json") + ".svg"
			}
			if output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), svg)
			} else if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			prog.done(fmt.Sprintf("Rendered %d boxes and %d connectors", len(d.Boxes), len(connectors)))
			if output != "-" {
				printSuccess("wrote SVG")
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG file (default: input with .svg extension, - for stdout)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "routing options TOML file")
	cmd.Flags().BoolVar(&arrange, "arrange", false, "lay out boxes automatically before routing")
	return cmd
}
