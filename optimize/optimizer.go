// Package optimize turns raw routed cell paths into clean SVG path
// strings. The pipeline compresses, deduplicates, snaps and smooths a
// polyline, and picks the anchor points where a relationship label can
// sit without crowding a corner.
package optimize

import (
	"strconv"
	"strings"

	"erd/core"
	"erd/grid"
)

// Params are the tunables of the optimization pipeline.
type Params struct {
	CornerRadius      float64 // radius of smoothed corners
	SnapThreshold     float64 // max deviation snapped onto the dominant axis
	MinSegment        float64 // segments shorter than this are collapsed
	DuplicateTol      float64 // points closer than this are the same point
	LabelMinRunLength float64 // straight runs longer than this get a label anchor
}

// DefaultParams returns the standard pipeline tuning.
func DefaultParams() Params {
	return Params{
		CornerRadius:      4,
		SnapThreshold:     2,
		MinSegment:        5,
		DuplicateTol:      0.1,
		LabelMinRunLength: 50,
	}
}

// Result is the output of the pipeline: the SVG path data, the label
// anchor candidates, and the final waypoints the path was built from.
// The waypoints are what the lane registry should record, since the
// smoothing step bends corners without moving the underlying lanes.
type Result struct {
	SVGPath string
	Labels  []core.Point
	Points  []core.Point
}

// CompressPath removes interior cells that are collinear with their
// neighbors, keeping only the corners. Compressing an already
// compressed path is a no-op.
func CompressPath(cells []grid.Cell) []grid.Cell {
	if len(cells) <= 2 {
		return cells
	}

	compressed := []grid.Cell{cells[0]}
	for i := 1; i < len(cells)-1; i++ {
		prev := cells[i-1]
		cur := cells[i]
		next := cells[i+1]

		sameDX := (cur.X - prev.X) == (next.X - cur.X)
		sameDY := (cur.Y - prev.Y) == (next.Y - cur.Y)
		if !(sameDX && sameDY) {
			compressed = append(compressed, cur)
		}
	}
	return append(compressed, cells[len(cells)-1])
}

// CellsToCanvas converts grid cells back to canvas points at each
// cell's center.
func CellsToCanvas(cells []grid.Cell, g *grid.Grid) []core.Point {
	points := make([]core.Point, len(cells))
	for i, c := range cells {
		x, y := g.FromGrid(c)
		points[i] = core.Point{X: x, Y: y}
	}
	return points
}

// RemoveDuplicatePoints drops consecutive points closer than tol.
func RemoveDuplicatePoints(points []core.Point, tol float64) []core.Point {
	if len(points) == 0 {
		return points
	}

	cleaned := []core.Point{points[0]}
	for _, p := range points[1:] {
		if p.Distance(cleaned[len(cleaned)-1]) > tol {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}

// RemoveMicroSegments collapses interior segments shorter than
// minLength by skipping their trailing point. The first and last
// points are never removed, so the connection endpoints stay exact.
func RemoveMicroSegments(points []core.Point, minLength float64) []core.Point {
	if len(points) <= 2 {
		return points
	}

	cleaned := []core.Point{points[0]}
	for i := 1; i < len(points)-1; i++ {
		if points[i].Distance(cleaned[len(cleaned)-1]) >= minLength {
			cleaned = append(cleaned, points[i])
		}
	}
	return append(cleaned, points[len(points)-1])
}

// SnapOrthogonal aligns nearly axis-parallel segments exactly onto
// their dominant axis. Each interior point inherits the coordinate of
// its predecessor when the deviation is within threshold, so small
// stair-steps flatten into straight runs.
func SnapOrthogonal(points []core.Point, threshold float64) []core.Point {
	if len(points) < 2 {
		return points
	}

	snapped := make([]core.Point, len(points))
	copy(snapped, points)

	for i := 1; i < len(snapped); i++ {
		prev := snapped[i-1]
		dx := absf(snapped[i].X - prev.X)
		dy := absf(snapped[i].Y - prev.Y)

		if dx <= threshold && dx < dy {
			snapped[i].X = prev.X
		} else if dy <= threshold && dy < dx {
			snapped[i].Y = prev.Y
		}
	}
	return snapped
}

// SmoothCorners renders the polyline as SVG path data with quadratic
// curves at each corner, and collects label anchors at the midpoints of
// straight runs longer than labelMinRun. A corner is only rounded when
// both adjacent segments are longer than twice the radius; tight
// corners stay sharp rather than producing overlapping curves.
func SmoothCorners(points []core.Point, radius, labelMinRun float64) (string, []core.Point) {
	if len(points) == 0 {
		return "", nil
	}
	if len(points) == 1 {
		return "M " + coord(points[0].X) + " " + coord(points[0].Y), nil
	}

	var b strings.Builder
	b.WriteString("M " + coord(points[0].X) + " " + coord(points[0].Y))

	var labels []core.Point
	for i := 1; i < len(points); i++ {
		prev := points[i-1]
		cur := points[i]

		segLen := prev.Distance(cur)
		if segLen > labelMinRun {
			labels = append(labels, core.Point{X: (prev.X + cur.X) / 2, Y: (prev.Y + cur.Y) / 2})
		}

		if i == len(points)-1 {
			b.WriteString(" L " + coord(cur.X) + " " + coord(cur.Y))
			continue
		}

		next := points[i+1]
		nextLen := cur.Distance(next)

		if segLen > 2*radius && nextLen > 2*radius {
			// Stop the line short of the corner and curve through it.
			in := pointToward(cur, prev, radius)
			out := pointToward(cur, next, radius)
			b.WriteString(" L " + coord(in.X) + " " + coord(in.Y))
			b.WriteString(" Q " + coord(cur.X) + " " + coord(cur.Y) + " " + coord(out.X) + " " + coord(out.Y))
		} else {
			b.WriteString(" L " + coord(cur.X) + " " + coord(cur.Y))
		}
	}
	return b.String(), labels
}

// pointToward returns the point at distance d from `from` in the
// direction of `toward`.
func pointToward(from, toward core.Point, d float64) core.Point {
	length := from.Distance(toward)
	if length == 0 {
		return from
	}
	t := d / length
	return core.Point{
		X: from.X + (toward.X-from.X)*t,
		Y: from.Y + (toward.Y-from.Y)*t,
	}
}

// Pipeline runs the full canvas-space optimization over a set of
// waypoints and returns the SVG path plus label anchors.
func Pipeline(points []core.Point, p Params) Result {
	points = RemoveDuplicatePoints(points, p.DuplicateTol)
	points = RemoveMicroSegments(points, p.MinSegment)
	points = SnapOrthogonal(points, p.SnapThreshold)
	points = RemoveDuplicatePoints(points, p.DuplicateTol)

	svg, labels := SmoothCorners(points, p.CornerRadius, p.LabelMinRunLength)
	return Result{SVGPath: svg, Labels: labels, Points: points}
}

// FromCells compresses a raw routed cell path, converts it to canvas
// coordinates and runs the pipeline.
func FromCells(cells []grid.Cell, g *grid.Grid, p Params) Result {
	compressed := CompressPath(cells)
	return Pipeline(CellsToCanvas(compressed, g), p)
}

// ValidateClearance reports the obstacles whose margin-expanded bounds
// a path passes through. It is diagnostic only: connection endpoints
// sit on box edges, so a route is expected to touch the boxes it
// connects, and the caller must not reject routes based on this check.
func ValidateClearance(points []core.Point, obstacles []core.Rect, margin float64) []core.Rect {
	var hits []core.Rect
	for _, obs := range obstacles {
		expanded := obs.Expand(margin)
		for i := 0; i < len(points)-1; i++ {
			if SegmentIntersectsBox(points[i], points[i+1], expanded) {
				hits = append(hits, obs)
				break
			}
		}
	}
	return hits
}

// SegmentIntersectsBox checks an axis-aligned segment against a
// rectangle. Diagonal segments fall back to an endpoint containment
// test, which is sufficient for the orthogonal paths this package
// produces.
func SegmentIntersectsBox(a, b core.Point, box core.Rect) bool {
	switch {
	case absf(a.X-b.X) < 0.001: // vertical
		x := a.X
		lo, hi := min(a.Y, b.Y), max(a.Y, b.Y)
		return x >= box.X && x <= box.Right() && hi >= box.Y && lo <= box.Bottom()
	case absf(a.Y-b.Y) < 0.001: // horizontal
		y := a.Y
		lo, hi := min(a.X, b.X), max(a.X, b.X)
		return y >= box.Y && y <= box.Bottom() && hi >= box.X && lo <= box.Right()
	default:
		return box.Contains(a) || box.Contains(b)
	}
}

// coord formats a canvas coordinate for SVG path data without
// trailing zeros.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
