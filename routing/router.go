// Package routing orchestrates connector routing for a diagram. Each
// connection is tried against three strategies in order of cost: a
// direct line, a corridor between the obstacles, and a full grid
// search. Connections are processed strictly in input order so that a
// given diagram always renders the same way.
package routing

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"erd/config"
	"erd/core"
	"erd/corridor"
	"erd/grid"
	"erd/lanes"
	"erd/optimize"
	"erd/pathfinding"
)

// Method records which strategy produced a connector.
type Method int

const (
	// MethodDirect is a straight unobstructed line between the endpoints.
	MethodDirect Method = iota
	// MethodCorridor routes through a clear gap between obstacles.
	MethodCorridor
	// MethodGrid is the A* search over the discretized canvas.
	MethodGrid
	// MethodFallback is the degraded direct line used when no clear
	// route exists at all.
	MethodFallback
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodCorridor:
		return "corridor"
	case MethodGrid:
		return "grid"
	case MethodFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Connector is a fully routed connection ready for rendering.
type Connector struct {
	SVGPath string
	Labels  []core.Point
	Points  []core.Point
	Method  Method
	Label   string
}

// maxStubExtension bounds how many extra cells a stub may be pushed
// outward to escape the blocked ring around its box.
const maxStubExtension = 5

// Router routes connections over a fixed set of obstacles. The grid is
// built once; the lane registry accumulates state across RouteAll so
// that later connections avoid lanes earlier ones claimed.
type Router struct {
	grid      *grid.Grid
	registry  *lanes.Registry
	obstacles []core.Rect
	opts      config.Options
	logger    *log.Logger
}

// NewRouter builds a router for a canvas and its obstacles. A nil
// logger silences all routing diagnostics.
func NewRouter(width, height float64, obstacles []core.Rect, opts config.Options, logger *log.Logger) (*Router, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.New(width, height, opts.Resolution)
	if err != nil {
		return nil, err
	}
	for _, obs := range obstacles {
		g.MarkObstacle(obs, opts.Margin)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Router{
		grid:      g,
		registry:  lanes.NewRegistry(),
		obstacles: obstacles,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Registry exposes the lane registry, mainly for tests and callers
// that pre-seed congestion.
func (r *Router) Registry() *lanes.Registry { return r.registry }

// Route routes a single connection. It never fails: when no clear
// route exists the connector degrades to a direct line, which is the
// least bad rendering of an unroutable relationship.
func (r *Router) Route(req Request) Connector {
	if r.directClear(req.From.Point, req.To.Point) {
		r.logger.Debug("routed direct", "label", req.Label)
		return r.finish(req, []core.Point{req.From.Point, req.To.Point}, MethodDirect)
	}

	stubA := r.stub(req.From)
	stubB := r.stub(req.To)

	if conn, ok := r.routeCorridor(req, stubA, stubB); ok {
		r.logger.Debug("routed via corridor", "label", req.Label)
		return conn
	}

	if conn, ok := r.routeGrid(req, stubA, stubB); ok {
		r.logger.Debug("routed via grid search", "label", req.Label)
		return conn
	}

	r.logger.Warn("no clear route, degrading to direct line", "label", req.Label)
	return r.finish(req, []core.Point{req.From.Point, req.To.Point}, MethodFallback)
}

// RouteAll routes every request in input order, recording each
// finished path in the lane registry before the next request is
// considered. Reordering the input changes lane pressure and therefore
// the output, so the order is part of the contract.
func (r *Router) RouteAll(requests []Request) []Connector {
	connectors := make([]Connector, 0, len(requests))
	for _, req := range requests {
		conn := r.Route(req)
		r.registry.AddPath(conn.Points)
		connectors = append(connectors, conn)
	}
	return connectors
}

// RouteDiagram routes all relationships of a diagram.
func RouteDiagram(d core.Diagram, opts config.Options, logger *log.Logger) ([]Connector, error) {
	router, err := NewRouter(d.Width, d.Height, d.Obstacles(), opts, logger)
	if err != nil {
		return nil, err
	}

	// Repeated relationships between the same pair get staggered lane
	// offsets so parallel connectors spread instead of stacking.
	seen := make(map[string]int)

	requests := make([]Request, 0, len(d.Relationships))
	for _, rel := range d.Relationships {
		from, ok := d.BoxByName(rel.From)
		if !ok {
			return nil, fmt.Errorf("routing: unknown box %q in relationship %q -> %q", rel.From, rel.From, rel.To)
		}
		to, ok := d.BoxByName(rel.To)
		if !ok {
			return nil, fmt.Errorf("routing: unknown box %q in relationship %q -> %q", rel.To, rel.From, rel.To)
		}

		req := ConnectBoxes(from, to, rel.Label)
		key := pairKey(rel.From, rel.To)
		req.LaneOffset = float64(10 * seen[key])
		seen[key]++

		requests = append(requests, req)
	}
	return router.RouteAll(requests), nil
}

// pairKey identifies a box pair regardless of relationship direction.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// directClear checks whether the straight segment between the two
// endpoints passes no obstacle. Boxes containing an endpoint are
// skipped, since a connection always touches the boxes it joins. Only
// near-axis-aligned segments qualify; the intersection test is exact
// for those and the optimizer will snap them straight anyway.
func (r *Router) directClear(a, b core.Point) bool {
	if absf(a.X-b.X) > r.opts.SnapThreshold && absf(a.Y-b.Y) > r.opts.SnapThreshold {
		return false
	}
	for _, obs := range r.obstacles {
		if obs.Contains(a) || obs.Contains(b) {
			continue
		}
		if optimize.SegmentIntersectsBox(a, b, obs) {
			return false
		}
	}
	return true
}

// stub returns the point where the connector has cleared the blocked
// ring around its box and grid routing can take over. If the nominal
// stub cell is still blocked the stub is pushed further out, one cell
// at a time, but never through another box.
func (r *Router) stub(e Endpoint) core.Point {
	dx, dy := e.Side.Outward()
	dist := r.opts.Margin + float64(r.opts.Resolution)

	p := core.Point{X: e.Point.X + dx*dist, Y: e.Point.Y + dy*dist}
	for i := 0; i < maxStubExtension; i++ {
		if r.grid.IsTraversable(r.grid.ToGrid(p.X, p.Y)) {
			break
		}
		next := core.Point{X: p.X + dx*float64(r.opts.Resolution), Y: p.Y + dy*float64(r.opts.Resolution)}
		if r.crossesForeignBox(e.Point, next) {
			break
		}
		p = next
	}
	return p
}

// crossesForeignBox checks the straight segment from origin against
// every obstacle except the box origin sits on.
func (r *Router) crossesForeignBox(origin, p core.Point) bool {
	for _, obs := range r.obstacles {
		if obs.Contains(origin) {
			continue
		}
		if optimize.SegmentIntersectsBox(origin, p, obs) {
			return true
		}
	}
	return false
}

// routeCorridor attempts the fast path: find a clear corridor between
// the stubs, perpendicular to the exit sides, and build the connector
// from at most six waypoints. Both endpoints must exit through sides of
// the same orientation for a single corridor to serve the whole route.
func (r *Router) routeCorridor(req Request, stubA, stubB core.Point) (Connector, bool) {
	if req.From.Side.Horizontal() != req.To.Side.Horizontal() {
		return Connector{}, false
	}

	if req.From.Side.Horizontal() {
		candidates := corridor.ScanVertical(stubA, stubB, r.obstacles, r.opts.CorridorMinWidth)
		ideal := (stubA.X+stubB.X)/2 + req.LaneOffset
		best, ok := corridor.SelectBest(candidates, ideal, r.registry)
		if !ok || !best.Contains(stubA.Y) || !best.Contains(stubB.Y) {
			return Connector{}, false
		}

		for _, pos := range r.lanePositions(best.Position, true) {
			waypoints := []core.Point{
				req.From.Point,
				stubA,
				{X: pos, Y: stubA.Y},
				{X: pos, Y: stubB.Y},
				stubB,
				req.To.Point,
			}
			if r.middleLegsClear(waypoints) {
				return r.finish(req, waypoints, MethodCorridor), true
			}
		}
		return Connector{}, false
	}

	candidates := corridor.ScanHorizontal(stubA, stubB, r.obstacles, r.opts.CorridorMinWidth)
	ideal := (stubA.Y+stubB.Y)/2 + req.LaneOffset
	best, ok := corridor.SelectBest(candidates, ideal, r.registry)
	if !ok || !best.Contains(stubA.X) || !best.Contains(stubB.X) {
		return Connector{}, false
	}

	for _, pos := range r.lanePositions(best.Position, false) {
		waypoints := []core.Point{
			req.From.Point,
			stubA,
			{X: stubA.X, Y: pos},
			{X: stubB.X, Y: pos},
			stubB,
			req.To.Point,
		}
		if r.middleLegsClear(waypoints) {
			return r.finish(req, waypoints, MethodCorridor), true
		}
	}
	return Connector{}, false
}

// lanePositions returns the corridor positions to try, congestion
// preferred offset first and the unshifted position as backup.
func (r *Router) lanePositions(base float64, vertical bool) []float64 {
	offset := r.registry.PreferredOffset(int(base), vertical, r.opts.MaxLaneOffset)
	if offset == 0 {
		return []float64{base}
	}
	return []float64{base + float64(offset), base}
}

// middleLegsClear validates the corridor legs between the two stubs.
// The legs touching the boxes themselves are excluded: they cross the
// blocked margin ring by construction.
func (r *Router) middleLegsClear(waypoints []core.Point) bool {
	for i := 1; i < len(waypoints)-2; i++ {
		a := r.grid.ToGrid(waypoints[i].X, waypoints[i].Y)
		b := r.grid.ToGrid(waypoints[i+1].X, waypoints[i+1].Y)
		if !r.grid.IsLineClear(a, b) {
			return false
		}
	}
	return true
}

// routeGrid runs the A* search between the stub cells and wraps the
// resulting cell path with the exact endpoints.
func (r *Router) routeGrid(req Request, stubA, stubB core.Point) (Connector, bool) {
	start := r.grid.ToGrid(stubA.X, stubA.Y)
	end := r.grid.ToGrid(stubB.X, stubB.Y)

	cells := pathfinding.Route(start, end, r.grid, r.registry)
	if cells == nil {
		return Connector{}, false
	}

	compressed := optimize.CompressPath(cells)
	points := make([]core.Point, 0, len(compressed)+2)
	points = append(points, req.From.Point)
	points = append(points, optimize.CellsToCanvas(compressed, r.grid)...)
	points = append(points, req.To.Point)

	return r.finish(req, points, MethodGrid), true
}

// finish runs the optimization pipeline and assembles the connector.
// Clearance violations are logged but never rejected; endpoints sit on
// box edges, so every route legitimately touches its own boxes.
func (r *Router) finish(req Request, points []core.Point, m Method) Connector {
	result := optimize.Pipeline(points, optimize.Params{
		CornerRadius:      r.opts.CornerRadius,
		SnapThreshold:     r.opts.SnapThreshold,
		MinSegment:        r.opts.MinSegment,
		DuplicateTol:      r.opts.DuplicateTol,
		LabelMinRunLength: r.opts.LabelMinRunLength,
	})

	if hits := optimize.ValidateClearance(result.Points, r.obstacles, r.opts.Margin); len(hits) > 0 {
		r.logger.Debug("path passes near obstacles", "label", req.Label, "method", m.String(), "obstacles", len(hits))
	}

	return Connector{
		SVGPath: result.SVGPath,
		Labels:  result.Labels,
		Points:  result.Points,
		Method:  m,
		Label:   req.Label,
	}
}
