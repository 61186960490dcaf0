package lanes

import (
	"testing"

	"erd/core"
)

func TestLaneUsageAndCost(t *testing.T) {
	r := NewRegistry()

	if got := r.LaneUsage(100, true); got != 0 {
		t.Errorf("unseen lane usage = %d, want 0", got)
	}
	if got := r.LaneCost(100, true); got != 0 {
		t.Errorf("unseen lane cost = %d, want 0", got)
	}

	r.ReserveLane(100, true)
	r.ReserveLane(100, true)
	r.ReserveLane(100, true)

	if got := r.LaneUsage(100, true); got != 3 {
		t.Errorf("lane usage = %d, want 3", got)
	}
	// Cost grows quadratically with usage.
	if got := r.LaneCost(100, true); got != 9 {
		t.Errorf("lane cost = %d, want 9", got)
	}

	// Vertical and horizontal lanes at the same position are distinct.
	if got := r.LaneUsage(100, false); got != 0 {
		t.Errorf("horizontal lane usage = %d, want 0", got)
	}
}

func TestSegmentSymmetry(t *testing.T) {
	r := NewRegistry()
	r.AddSegment(0, 0, 0, 50)

	if got := r.SegmentUsage(0, 50, 0, 0); got != 1 {
		t.Errorf("reversed segment usage = %d, want 1", got)
	}
	if !r.IsSegmentUsed(0, 0, 0, 50) {
		t.Error("segment should be marked used")
	}
	if r.IsSegmentUsed(0, 0, 0, 60) {
		t.Error("different segment should not be marked used")
	}
}

func TestAddSegmentReservesRoundedLane(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		lane           int
		vertical       bool
	}{
		{"vertical on lane", 100, 0, 100, 50, 100, true},
		{"vertical rounds down", 104, 0, 104, 50, 100, true},
		{"vertical rounds up", 106, 0, 106, 50, 110, true},
		{"horizontal", 0, 75, 50, 75, 80, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.AddSegment(tt.x1, tt.y1, tt.x2, tt.y2)
			if got := r.LaneUsage(tt.lane, tt.vertical); got != 1 {
				t.Errorf("lane %d usage = %d, want 1", tt.lane, got)
			}
		})
	}
}

func TestDiagonalSegmentReservesNoLane(t *testing.T) {
	r := NewRegistry()
	r.AddSegment(0, 0, 50, 50)

	if got := r.SegmentUsage(0, 0, 50, 50); got != 1 {
		t.Errorf("segment usage = %d, want 1", got)
	}
	if got := r.LaneUsage(0, true); got != 0 {
		t.Errorf("vertical lane usage = %d, want 0", got)
	}
	if got := r.LaneUsage(0, false); got != 0 {
		t.Errorf("horizontal lane usage = %d, want 0", got)
	}
}

func TestAddPath(t *testing.T) {
	r := NewRegistry()
	r.AddPath([]core.Point{
		{X: 150, Y: 130},
		{X: 350, Y: 130},
		{X: 350, Y: 270},
		{X: 500, Y: 270},
	})

	if got := r.LaneUsage(130, false); got != 1 {
		t.Errorf("horizontal lane 130 usage = %d, want 1", got)
	}
	if got := r.LaneUsage(350, true); got != 1 {
		t.Errorf("vertical lane 350 usage = %d, want 1", got)
	}
	if got := r.LaneUsage(270, false); got != 1 {
		t.Errorf("horizontal lane 270 usage = %d, want 1", got)
	}
	if !r.IsSegmentUsed(350, 130, 350, 270) {
		t.Error("middle segment should be recorded")
	}
}

func TestPreferredOffset(t *testing.T) {
	r := NewRegistry()

	// An empty registry prefers staying put.
	if got := r.PreferredOffset(100, true, 50); got != 0 {
		t.Errorf("offset on empty registry = %d, want 0", got)
	}

	// A congested base lane pushes to the nearest free one.
	r.ReserveLane(100, true)
	r.ReserveLane(100, true)
	if got := r.PreferredOffset(100, true, 50); got != -10 {
		t.Errorf("offset = %d, want -10", got)
	}

	// With the near lanes also taken, the search moves further out.
	r.ReserveLane(90, true)
	r.ReserveLane(110, true)
	r.ReserveLane(90, true)
	r.ReserveLane(110, true)
	if got := r.PreferredOffset(100, true, 50); got != -20 {
		t.Errorf("offset = %d, want -20", got)
	}

	// Zero max offset pins the position.
	if got := r.PreferredOffset(100, true, 0); got != 0 {
		t.Errorf("offset with maxOffset 0 = %d, want 0", got)
	}
}
