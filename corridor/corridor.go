// Package corridor finds clear straight gaps between obstacles. It is
// the fast path of the router: when a wide enough corridor exists
// between two connection points, the expensive grid search is skipped
// entirely.
package corridor

import (
	"sort"

	"erd/core"
	"erd/lanes"
)

// DefaultMinWidth is the minimum gap width, in canvas units, for a gap
// to qualify as a corridor.
const DefaultMinWidth = 40

// sampleStep is the spacing of extra candidate positions scanned
// between the two connection points.
const sampleStep = 10

// usageWeight is the lane-usage multiplier applied when scoring
// candidate corridors against each other.
const usageWeight = 10

// Corridor is a clear straight gap: a fixed position along one axis
// and a [Start, End] interval along the other.
type Corridor struct {
	Position float64 // x for vertical corridors, y for horizontal
	Vertical bool
	Start    float64
	End      float64
}

// Width returns the corridor extent along its free axis.
func (c Corridor) Width() float64 {
	return c.End - c.Start
}

// Contains checks if a coordinate falls within the corridor interval.
func (c Corridor) Contains(v float64) bool {
	return v >= c.Start && v <= c.End
}

// span is a blocked [start, end] interval along one axis.
type span struct {
	start, end float64
}

// Scan finds both vertical and horizontal corridors between two
// points. The caller decides which orientation is usable based on the
// sides of the boxes being connected.
func Scan(start, end core.Point, obstacles []core.Rect, minWidth float64) (vertical, horizontal []Corridor) {
	vertical = ScanVertical(start, end, obstacles, minWidth)
	horizontal = ScanHorizontal(start, end, obstacles, minWidth)
	return vertical, horizontal
}

// ScanVertical finds vertical corridors (constant x) between two points.
func ScanVertical(start, end core.Point, obstacles []core.Rect, minWidth float64) []Corridor {
	minX := min(start.X, end.X)
	maxX := max(start.X, end.X)

	positions := candidatePositions(minX, maxX, (start.X+end.X)/2, obstacles, true)

	var corridors []Corridor
	for _, x := range positions {
		if x < minX || x > maxX {
			continue
		}

		// Collect the y-intervals blocked at this x.
		var blocked []span
		for _, obs := range obstacles {
			if obs.X <= x && x <= obs.Right() {
				blocked = append(blocked, span{start: obs.Y, end: obs.Bottom()})
			}
		}

		minY := min(start.Y, end.Y)
		maxY := max(start.Y, end.Y)
		corridors = append(corridors, gapsToCorridors(x, true, mergeSpans(blocked), minY, maxY, minWidth)...)
	}
	return corridors
}

// ScanHorizontal finds horizontal corridors (constant y) between two points.
func ScanHorizontal(start, end core.Point, obstacles []core.Rect, minWidth float64) []Corridor {
	minY := min(start.Y, end.Y)
	maxY := max(start.Y, end.Y)

	positions := candidatePositions(minY, maxY, (start.Y+end.Y)/2, obstacles, false)

	var corridors []Corridor
	for _, y := range positions {
		if y < minY || y > maxY {
			continue
		}

		var blocked []span
		for _, obs := range obstacles {
			if obs.Y <= y && y <= obs.Bottom() {
				blocked = append(blocked, span{start: obs.X, end: obs.Right()})
			}
		}

		minX := min(start.X, end.X)
		maxX := max(start.X, end.X)
		corridors = append(corridors, gapsToCorridors(y, false, mergeSpans(blocked), minX, maxX, minWidth)...)
	}
	return corridors
}

// candidatePositions builds the sorted set of positions to test:
// every obstacle edge, samples every sampleStep units across the
// range, and the exact midpoint.
func candidatePositions(lo, hi, mid float64, obstacles []core.Rect, vertical bool) []float64 {
	seen := make(map[float64]struct{})

	for _, obs := range obstacles {
		if vertical {
			seen[obs.X] = struct{}{}
			seen[obs.Right()] = struct{}{}
		} else {
			seen[obs.Y] = struct{}{}
			seen[obs.Bottom()] = struct{}{}
		}
	}
	for v := int(lo); v < int(hi)+sampleStep; v += sampleStep {
		seen[float64(v)] = struct{}{}
	}
	seen[mid] = struct{}{}

	positions := make([]float64, 0, len(seen))
	for v := range seen {
		positions = append(positions, v)
	}
	sort.Float64s(positions)
	return positions
}

// mergeSpans sorts blocked intervals and merges any that overlap.
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})

	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			last.end = max(last.end, s.end)
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// gapsToCorridors converts the gaps between merged blocked spans into
// corridors. A gap qualifies only if it is at least minWidth wide and
// overlaps the requested [lo, hi] range; qualifying gaps are clipped
// to that range.
func gapsToCorridors(position float64, vertical bool, blocked []span, lo, hi, minWidth float64) []Corridor {
	var corridors []Corridor

	prevEnd := lo - minWidth
	for _, b := range blocked {
		gapStart := prevEnd
		gapEnd := b.start
		if gapEnd-gapStart >= minWidth && gapStart <= hi && gapEnd >= lo {
			corridors = append(corridors, Corridor{
				Position: position,
				Vertical: vertical,
				Start:    max(gapStart, lo),
				End:      min(gapEnd, hi),
			})
		}
		prevEnd = b.end
	}

	// The open gap past the last obstacle.
	gapStart := prevEnd
	gapEnd := hi + minWidth
	if gapEnd-gapStart >= minWidth && gapStart <= hi {
		corridors = append(corridors, Corridor{
			Position: position,
			Vertical: vertical,
			Start:    max(gapStart, lo),
			End:      min(gapEnd, hi),
		})
	}
	return corridors
}

// SelectBest picks the corridor closest to the ideal position,
// penalizing corridors on busy lanes when a registry is supplied.
// Selection is pure: the registry is read, never mutated.
func SelectBest(corridors []Corridor, idealPosition float64, registry *lanes.Registry) (Corridor, bool) {
	if len(corridors) == 0 {
		return Corridor{}, false
	}

	best := corridors[0]
	bestScore := score(corridors[0], idealPosition, registry)
	for _, c := range corridors[1:] {
		if s := score(c, idealPosition, registry); s < bestScore {
			bestScore = s
			best = c
		}
	}
	return best, true
}

func score(c Corridor, ideal float64, registry *lanes.Registry) float64 {
	distance := c.Position - ideal
	if distance < 0 {
		distance = -distance
	}
	if registry != nil {
		distance += float64(usageWeight * registry.LaneUsage(int(c.Position), c.Vertical))
	}
	return distance
}
