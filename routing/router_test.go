package routing

import (
	"testing"

	"erd/config"
	"erd/core"
	"erd/optimize"
)

func testDiagram(boxes []core.Box, rels []core.Relationship, w, h float64) core.Diagram {
	return core.Diagram{Width: w, Height: h, Boxes: boxes, Relationships: rels}
}

func TestConnectBoxes(t *testing.T) {
	tests := []struct {
		name     string
		from, to core.Box
		fromSide core.Side
		toSide   core.Side
	}{
		{
			name:     "side by side",
			from:     core.Box{Name: "a", Rect: core.Rect{X: 0, Y: 0, Width: 100, Height: 60}},
			to:       core.Box{Name: "b", Rect: core.Rect{X: 300, Y: 0, Width: 100, Height: 60}},
			fromSide: core.SideRight,
			toSide:   core.SideLeft,
		},
		{
			name:     "stacked",
			from:     core.Box{Name: "a", Rect: core.Rect{X: 0, Y: 0, Width: 100, Height: 60}},
			to:       core.Box{Name: "b", Rect: core.Rect{X: 0, Y: 300, Width: 100, Height: 60}},
			fromSide: core.SideBottom,
			toSide:   core.SideTop,
		},
		{
			name:     "target to the left",
			from:     core.Box{Name: "a", Rect: core.Rect{X: 300, Y: 0, Width: 100, Height: 60}},
			to:       core.Box{Name: "b", Rect: core.Rect{X: 0, Y: 0, Width: 100, Height: 60}},
			fromSide: core.SideLeft,
			toSide:   core.SideRight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ConnectBoxes(tt.from, tt.to, "r")
			if req.From.Side != tt.fromSide {
				t.Errorf("from side = %v, want %v", req.From.Side, tt.fromSide)
			}
			if req.To.Side != tt.toSide {
				t.Errorf("to side = %v, want %v", req.To.Side, tt.toSide)
			}
			if req.Label != "r" {
				t.Errorf("label = %q, want %q", req.Label, "r")
			}
		})
	}
}

// Two boxes side by side with nothing between them route as a plain
// two-point line.
func TestRouteDirect(t *testing.T) {
	a := core.Box{Name: "a", Rect: core.Rect{X: 50, Y: 100, Width: 100, Height: 60}}
	b := core.Box{Name: "b", Rect: core.Rect{X: 350, Y: 100, Width: 100, Height: 60}}

	router, err := NewRouter(500, 300, []core.Rect{a.Rect, b.Rect}, config.Default(), nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}

	conn := router.Route(ConnectBoxes(a, b, ""))
	if conn.Method != MethodDirect {
		t.Fatalf("method = %v, want direct", conn.Method)
	}
	if len(conn.Points) != 2 {
		t.Fatalf("direct connector has %d points, want 2: %v", len(conn.Points), conn.Points)
	}
	if conn.Points[0] != (core.Point{X: 150, Y: 130}) || conn.Points[1] != (core.Point{X: 350, Y: 130}) {
		t.Errorf("unexpected endpoints %v", conn.Points)
	}
	if conn.SVGPath != "M 150 130 L 350 130" {
		t.Errorf("SVGPath = %q", conn.SVGPath)
	}
}

// An obstacle between two boxes forces the route around it, and the
// final path must not cut through the obstacle.
func TestRouteAroundObstacle(t *testing.T) {
	a := core.Box{Name: "a", Rect: core.Rect{X: 50, Y: 100, Width: 100, Height: 60}}
	b := core.Box{Name: "b", Rect: core.Rect{X: 550, Y: 100, Width: 100, Height: 60}}
	wall := core.Rect{X: 280, Y: 40, Width: 60, Height: 220}

	router, err := NewRouter(800, 400, []core.Rect{a.Rect, b.Rect, wall}, config.Default(), nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}

	conn := router.Route(ConnectBoxes(a, b, ""))
	if conn.Method == MethodDirect || conn.Method == MethodFallback {
		t.Fatalf("method = %v, want a routed path", conn.Method)
	}
	if len(conn.Points) < 4 {
		t.Fatalf("routed path has %d points, want at least 4", len(conn.Points))
	}
	if hits := optimize.ValidateClearance(conn.Points, []core.Rect{wall}, 20); len(hits) != 0 {
		t.Errorf("path passes within the wall margin: %v", conn.Points)
	}
	if conn.Points[0] != (core.Point{X: 150, Y: 130}) {
		t.Errorf("path starts at %v, want the box edge", conn.Points[0])
	}
	if conn.Points[len(conn.Points)-1] != (core.Point{X: 550, Y: 130}) {
		t.Errorf("path ends at %v, want the box edge", conn.Points[len(conn.Points)-1])
	}
}

// Two connections sharing the same open space must not stack on the
// same lane: the second one is pushed onto a neighboring lane.
func TestRouteAllDivergesLanes(t *testing.T) {
	a := core.Box{Name: "a", Rect: core.Rect{X: 50, Y: 100, Width: 100, Height: 60}}
	b := core.Box{Name: "b", Rect: core.Rect{X: 550, Y: 140, Width: 100, Height: 60}}

	router, err := NewRouter(800, 400, []core.Rect{a.Rect, b.Rect}, config.Default(), nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}

	req := ConnectBoxes(a, b, "")
	connectors := router.RouteAll([]Request{req, req})
	if len(connectors) != 2 {
		t.Fatalf("got %d connectors, want 2", len(connectors))
	}

	first := verticalLaneX(t, connectors[0].Points)
	second := verticalLaneX(t, connectors[1].Points)
	if first == second {
		t.Errorf("both connectors use vertical lane x=%g, want divergence", first)
	}
}

// Three relationships between the same pair of boxes must not all
// stack on the same lane.
func TestRouteDiagramSpreadsParallelRelationships(t *testing.T) {
	d := testDiagram(
		[]core.Box{
			{Name: "a", Rect: core.Rect{X: 50, Y: 100, Width: 100, Height: 60}},
			{Name: "b", Rect: core.Rect{X: 550, Y: 140, Width: 100, Height: 60}},
		},
		[]core.Relationship{
			{From: "a", To: "b"},
			{From: "a", To: "b"},
			{From: "a", To: "b"},
		},
		800, 400,
	)

	connectors, err := RouteDiagram(d, config.Default(), nil)
	if err != nil {
		t.Fatalf("RouteDiagram failed: %v", err)
	}

	lanes := make(map[float64]int)
	for _, c := range connectors {
		lanes[verticalLaneX(t, c.Points)]++
	}
	for lane, count := range lanes {
		if count > 2 {
			t.Errorf("%d connectors share vertical lane x=%g, want at most 2", count, lane)
		}
	}
}

// verticalLaneX finds the x position of the first vertical segment.
func verticalLaneX(t *testing.T, points []core.Point) float64 {
	t.Helper()
	for i := 1; i < len(points); i++ {
		if points[i].X == points[i-1].X && points[i].Y != points[i-1].Y {
			return points[i].X
		}
	}
	t.Fatalf("no vertical segment in %v", points)
	return 0
}

// Routing the same diagram twice produces identical output.
func TestRouteAllDeterministic(t *testing.T) {
	a := core.Box{Name: "a", Rect: core.Rect{X: 50, Y: 100, Width: 100, Height: 60}}
	b := core.Box{Name: "b", Rect: core.Rect{X: 550, Y: 140, Width: 100, Height: 60}}
	wall := core.Rect{X: 300, Y: 0, Width: 60, Height: 260}

	route := func() []Connector {
		router, err := NewRouter(800, 400, []core.Rect{a.Rect, b.Rect, wall}, config.Default(), nil)
		if err != nil {
			t.Fatalf("NewRouter failed: %v", err)
		}
		req := ConnectBoxes(a, b, "")
		return router.RouteAll([]Request{req, req, req})
	}

	run1 := route()
	run2 := route()
	for i := range run1 {
		if run1[i].SVGPath != run2[i].SVGPath {
			t.Errorf("connector %d differs between runs:\n%s\n%s", i, run1[i].SVGPath, run2[i].SVGPath)
		}
	}
}

// No clear route at all degrades to a direct fallback line rather than
// failing.
func TestRouteFallback(t *testing.T) {
	a := core.Box{Name: "a", Rect: core.Rect{X: 10, Y: 100, Width: 80, Height: 60}}
	b := core.Box{Name: "b", Rect: core.Rect{X: 510, Y: 100, Width: 80, Height: 60}}
	// The wall spans the full canvas height, so there is no way around.
	wall := core.Rect{X: 280, Y: 0, Width: 60, Height: 300}

	router, err := NewRouter(600, 300, []core.Rect{a.Rect, b.Rect, wall}, config.Default(), nil)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}

	conn := router.Route(ConnectBoxes(a, b, "x"))
	if conn.Method != MethodFallback {
		t.Fatalf("method = %v, want fallback", conn.Method)
	}
	if len(conn.Points) != 2 {
		t.Errorf("fallback connector has %d points, want 2", len(conn.Points))
	}
}

func TestRouteDiagram(t *testing.T) {
	d := testDiagram(
		[]core.Box{
			{Name: "users", Rect: core.Rect{X: 50, Y: 100, Width: 100, Height: 60}},
			{Name: "orders", Rect: core.Rect{X: 350, Y: 100, Width: 100, Height: 60}},
		},
		[]core.Relationship{{From: "users", To: "orders", Label: "places"}},
		500, 300,
	)

	connectors, err := RouteDiagram(d, config.Default(), nil)
	if err != nil {
		t.Fatalf("RouteDiagram failed: %v", err)
	}
	if len(connectors) != 1 {
		t.Fatalf("got %d connectors, want 1", len(connectors))
	}
	if connectors[0].Label != "places" {
		t.Errorf("label = %q, want %q", connectors[0].Label, "places")
	}
	if connectors[0].SVGPath == "" {
		t.Error("expected SVG path data")
	}
}

func TestRouteDiagramUnknownBox(t *testing.T) {
	d := testDiagram(
		[]core.Box{{Name: "users", Rect: core.Rect{X: 50, Y: 100, Width: 100, Height: 60}}},
		[]core.Relationship{{From: "users", To: "ghosts"}},
		500, 300,
	)

	if _, err := RouteDiagram(d, config.Default(), nil); err == nil {
		t.Fatal("expected an error for an unknown box")
	}
}

func TestNewRouterRejectsInvalidOptions(t *testing.T) {
	opts := config.Default()
	opts.Resolution = 0
	if _, err := NewRouter(500, 300, nil, opts, nil); err == nil {
		t.Fatal("expected an error for invalid options")
	}
}
