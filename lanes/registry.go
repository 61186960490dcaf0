// Package lanes tracks how congested each vertical and horizontal lane
// of the diagram is. The registry is shared across all connections of a
// single render so that later connections are steered away from lanes
// that earlier ones already occupy.
package lanes

import (
	"math"

	"erd/core"
)

// laneGranularity is the rounding step, in canvas units, used to group
// nearby segments onto the same lane.
const laneGranularity = 10

// axisTolerance is the float slack used when classifying a segment as
// purely vertical or horizontal.
const axisTolerance = 0.1

// Segment is a line segment between two canvas points. Segments are
// symmetric: A→B and B→A are the same segment.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// canonical orders the endpoints so that symmetric segments compare equal.
func (s Segment) canonical() Segment {
	if s.X1 < s.X2 || (s.X1 == s.X2 && s.Y1 <= s.Y2) {
		return s
	}
	return Segment{X1: s.X2, Y1: s.Y2, X2: s.X1, Y2: s.Y1}
}

// IsVertical reports whether the segment runs along a constant x.
func (s Segment) IsVertical() bool {
	return math.Abs(s.X1-s.X2) < axisTolerance
}

// IsHorizontal reports whether the segment runs along a constant y.
func (s Segment) IsHorizontal() bool {
	return math.Abs(s.Y1-s.Y2) < axisTolerance
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	dx := s.X2 - s.X1
	dy := s.Y2 - s.Y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Registry is the per-render lane reservation ledger. It is created
// once per diagram, mutated by the orchestrator after every accepted
// route, and read by every connection's cost functions.
type Registry struct {
	vertical   map[int]int // x position → usage count
	horizontal map[int]int // y position → usage count
	segments   map[Segment]int
}

// NewRegistry creates an empty lane registry.
func NewRegistry() *Registry {
	return &Registry{
		vertical:   make(map[int]int),
		horizontal: make(map[int]int),
		segments:   make(map[Segment]int),
	}
}

// ReserveLane increments the usage counter for a lane position.
func (r *Registry) ReserveLane(position int, vertical bool) {
	if vertical {
		r.vertical[position]++
	} else {
		r.horizontal[position]++
	}
}

// LaneUsage returns the usage count for a lane (0 if unseen).
func (r *Registry) LaneUsage(position int, vertical bool) int {
	if vertical {
		return r.vertical[position]
	}
	return r.horizontal[position]
}

// LaneCost returns the penalty for routing along a lane. The penalty
// grows quadratically with usage so that routing strongly prefers
// spreading across distinct lanes over stacking onto a popular one.
func (r *Registry) LaneCost(position int, vertical bool) int {
	usage := r.LaneUsage(position, vertical)
	return usage * usage
}

// AddSegment records a segment as used. Purely vertical or horizontal
// segments also reserve the lane they occupy, rounded to the nearest
// laneGranularity units.
func (r *Registry) AddSegment(x1, y1, x2, y2 float64) {
	seg := Segment{X1: x1, Y1: y1, X2: x2, Y2: y2}.canonical()
	r.segments[seg]++

	if seg.IsVertical() {
		r.ReserveLane(roundLane(x1), true)
	} else if seg.IsHorizontal() {
		r.ReserveLane(roundLane(y1), false)
	}
}

// SegmentUsage returns how many times a segment has been recorded.
func (r *Registry) SegmentUsage(x1, y1, x2, y2 float64) int {
	return r.segments[Segment{X1: x1, Y1: y1, X2: x2, Y2: y2}.canonical()]
}

// IsSegmentUsed checks if a segment has been recorded before.
func (r *Registry) IsSegmentUsed(x1, y1, x2, y2 float64) bool {
	return r.SegmentUsage(x1, y1, x2, y2) > 0
}

// AddPath records every consecutive segment of a finalized route. The
// orchestrator must call this exactly once per accepted route, before
// the next connection request is processed.
func (r *Registry) AddPath(waypoints []core.Point) {
	for i := 0; i < len(waypoints)-1; i++ {
		a, b := waypoints[i], waypoints[i+1]
		r.AddSegment(a.X, a.Y, b.X, b.Y)
	}
}

// PreferredOffset scans offsets around a base position in steps of
// laneGranularity, nearest first, and returns the offset whose lane has
// the lowest cost. Ties resolve toward the base position.
func (r *Registry) PreferredOffset(basePosition int, vertical bool, maxOffset int) int {
	bestOffset := 0
	bestCost := r.LaneCost(basePosition, vertical)

	for dist := laneGranularity; dist <= maxOffset; dist += laneGranularity {
		for _, offset := range [2]int{-dist, dist} {
			if cost := r.LaneCost(basePosition+offset, vertical); cost < bestCost {
				bestCost = cost
				bestOffset = offset
			}
		}
	}
	return bestOffset
}

func roundLane(v float64) int {
	return int(math.Round(v/laneGranularity)) * laneGranularity
}
