package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"erd/config"
	"erd/core"
	"erd/layout"
)

// loadDiagram reads a diagram JSON file and validates its basics. When
// arrange is set, or when no box carries a position, the layout engine
// places the boxes before routing.
func loadDiagram(path string, arrange bool) (core.Diagram, error) {
	var d core.Diagram

	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("reading diagram: %w", err)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parsing diagram %s: %w", path, err)
	}
	if len(d.Boxes) == 0 {
		return d, fmt.Errorf("diagram %s has no boxes", path)
	}

	if !arrange {
		arrange = true
		for _, b := range d.Boxes {
			if b.X != 0 || b.Y != 0 {
				arrange = false
				break
			}
		}
	}
	if arrange {
		layout.NewLayout().Arrange(&d)
	}

	if d.Width <= 0 || d.Height <= 0 {
		return d, fmt.Errorf("diagram %s has invalid canvas size %gx%g", path, d.Width, d.Height)
	}
	return d, nil
}

// loadOptions loads routing options from an optional config file.
func loadOptions(path string) (config.Options, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
