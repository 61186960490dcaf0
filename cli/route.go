package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"erd/core"
	"erd/routing"
)

// routeOutput is the JSON document emitted by the route command.
type routeOutput struct {
	Connectors []connectorJSON `json:"connectors"`
}

type connectorJSON struct {
	Path   string       `json:"path"`
	Label  string       `json:"label,omitempty"`
	Labels []core.Point `json:"labels,omitempty"`
	Points []core.Point `json:"points"`
	Method string       `json:"method"`
}

// newRouteCmd creates the route command, which routes every
// relationship of a diagram and writes the connector paths as JSON.
func newRouteCmd() *cobra.Command {
	var (
		output     string
		configPath string
		arrange    bool
	)

	cmd := &cobra.Command{
		Use:   "route <diagram.json>",
		Short: "Route connectors for a diagram and emit SVG path data",
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

			out := routeOutput{Connectors: make([]connectorJSON, len(connectors))}
			for i, c := range connectors {
				out.Connectors[i] = connectorJSON{
					Path:   c.SVGPath,
					Label:  c.Label,
					Labels: c.Labels,
					Points: c.Points,
					Method: c.Method.String(),
				}
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			data = append(data, '\n')

			if output == "" || output == "-" {
				cmd.OutOrStdout().Write(data)
			} else if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			prog.done(fmt.Sprintf("Routed %d connectors", len(connectors)))
			printStats(len(d.Boxes), len(connectors))
			if output != "" && output != "-" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "routing options TOML file")
	cmd.Flags().BoolVar(&arrange, "arrange", false, "lay out boxes automatically before routing")
	return cmd
}
