// Package config holds the routing tunables and loads overrides from a
// TOML file. Every knob has a default that matches the rendered output
// the rest of the system is tuned around, so most callers never load a
// file at all.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Options are the routing and optimization tunables.
type Options struct {
	// Resolution is the grid cell size in canvas units.
	Resolution int `toml:"resolution"`

	// Margin is the clearance, in canvas units, kept around every box
	// when marking grid obstacles.
	Margin float64 `toml:"margin"`

	// CorridorMinWidth is the minimum gap width for the corridor fast path.
	CorridorMinWidth float64 `toml:"corridor_min_width"`

	// MaxLaneOffset bounds how far a corridor position may shift to
	// avoid congested lanes.
	MaxLaneOffset int `toml:"max_lane_offset"`

	// CornerRadius is the radius of smoothed corners in the SVG output.
	CornerRadius float64 `toml:"corner_radius"`

	// SnapThreshold is the max deviation snapped onto the dominant axis.
	SnapThreshold float64 `toml:"snap_threshold"`

	// MinSegment is the shortest segment kept by the optimizer.
	MinSegment float64 `toml:"min_segment"`

	// DuplicateTol is the distance under which points are merged.
	DuplicateTol float64 `toml:"duplicate_tol"`

	// LabelMinRunLength is the shortest straight run that gets a label anchor.
	LabelMinRunLength float64 `toml:"label_min_run_length"`
}

// Default returns the standard options.
func Default() Options {
	return Options{
		Resolution:        30,
		Margin:            20,
		CorridorMinWidth:  40,
		MaxLaneOffset:     50,
		CornerRadius:      4,
		SnapThreshold:     2,
		MinSegment:        5,
		DuplicateTol:      0.1,
		LabelMinRunLength: 50,
	}
}

// Load reads options from a TOML file, starting from the defaults so a
// partial file only overrides the keys it names.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Validate rejects configurations that would make routing degenerate.
// Invalid tunables fail fast instead of producing silently wrong paths.
func (o Options) Validate() error {
	if o.Resolution <= 0 {
		return fmt.Errorf("config: resolution must be positive, got %d", o.Resolution)
	}
	if o.Margin < 0 {
		return fmt.Errorf("config: margin must be non-negative, got %g", o.Margin)
	}
	if o.CorridorMinWidth <= 0 {
		return fmt.Errorf("config: corridor_min_width must be positive, got %g", o.CorridorMinWidth)
	}
	if o.MaxLaneOffset < 0 {
		return fmt.Errorf("config: max_lane_offset must be non-negative, got %d", o.MaxLaneOffset)
	}
	if o.CornerRadius < 0 {
		return fmt.Errorf("config: corner_radius must be non-negative, got %g", o.CornerRadius)
	}
	if o.MinSegment < 0 {
		return fmt.Errorf("config: min_segment must be non-negative, got %g", o.MinSegment)
	}
	if o.DuplicateTol < 0 {
		return fmt.Errorf("config: duplicate_tol must be non-negative, got %g", o.DuplicateTol)
	}
	return nil
}
