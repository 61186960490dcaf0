package routing

import "erd/core"

// Endpoint is a connection point on the edge of a box, plus the side
// it sits on. The side determines which direction the connector leaves
// the box in before it is allowed to turn.
type Endpoint struct {
	Point core.Point
	Side  core.Side
}

// Request is a single connection to route. LaneOffset shifts the ideal
// corridor position sideways and disambiguates multiple parallel
// relationships between the same pair of boxes.
type Request struct {
	From       Endpoint
	To         Endpoint
	Label      string
	LaneOffset float64
}

// ConnectBoxes builds a request between two boxes, picking the facing
// sides from their relative positions. When the horizontal separation
// of the centers dominates, the connector leaves through the left or
// right edges; otherwise through the top or bottom.
func ConnectBoxes(from, to core.Box, label string) Request {
	fc := from.Center()
	tc := to.Center()

	dx := tc.X - fc.X
	dy := tc.Y - fc.Y

	var fromSide, toSide core.Side
	if absf(dx) >= absf(dy) {
		if dx >= 0 {
			fromSide, toSide = core.SideRight, core.SideLeft
		} else {
			fromSide, toSide = core.SideLeft, core.SideRight
		}
	} else {
		if dy >= 0 {
			fromSide, toSide = core.SideBottom, core.SideTop
		} else {
			fromSide, toSide = core.SideTop, core.SideBottom
		}
	}

	return Request{
		From:  Endpoint{Point: from.EdgePoint(fromSide), Side: fromSide},
		To:    Endpoint{Point: to.EdgePoint(toSide), Side: toSide},
		Label: label,
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
