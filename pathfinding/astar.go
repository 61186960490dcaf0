// Package pathfinding implements the grid-based A* fallback router.
// It guarantees a route exists (or correctly reports none) when no
// exploitable corridor is available or the connection axes are
// incompatible.
package pathfinding

import (
	"container/heap"

	"erd/core"
	"erd/grid"
	"erd/lanes"
)

// Costs is the tunable cost model for the search.
//
// StraightReward makes some effective edge weights negative, which
// formally breaks the non-negativity assumption of textbook A*. This
// is deliberate: the reward shapes long straight runs that look better
// in a diagram, and "fixing" it would silently change rendered output.
type Costs struct {
	TurnPenalty    float64 // added when a move changes direction
	StraightReward float64 // subtracted when continuing a 3+ cell straight run
	LaneWeight     float64 // multiplier on lane usage from the registry
}

// DefaultCosts provides the standard cost model.
var DefaultCosts = Costs{
	TurnPenalty:    5,
	StraightReward: 2,
	LaneWeight:     3,
}

// Node is a single state in the search. Parent links form a tree
// rooted at the start cell; a node's parent is always closed before
// the node itself is created, so the structure is acyclic by
// construction.
type Node struct {
	FCost  float64
	GCost  float64
	HCost  float64
	Cell   grid.Cell
	Parent *Node
	index  int // position in the heap
}

// nodeQueue is a priority queue of open nodes, ordered by FCost.
type nodeQueue []*Node

func (nq nodeQueue) Len() int { return len(nq) }

func (nq nodeQueue) Less(i, j int) bool {
	if nq[i].FCost != nq[j].FCost {
		return nq[i].FCost < nq[j].FCost
	}
	// Tie-break on the heuristic, then on cell order, so identical
	// inputs always search in the same order.
	if nq[i].HCost != nq[j].HCost {
		return nq[i].HCost < nq[j].HCost
	}
	if nq[i].Cell.X != nq[j].Cell.X {
		return nq[i].Cell.X < nq[j].Cell.X
	}
	return nq[i].Cell.Y < nq[j].Cell.Y
}

func (nq nodeQueue) Swap(i, j int) {
	nq[i], nq[j] = nq[j], nq[i]
	nq[i].index = i
	nq[j].index = j
}

func (nq *nodeQueue) Push(x any) {
	n := x.(*Node)
	n.index = len(*nq)
	*nq = append(*nq, n)
}

func (nq *nodeQueue) Pop() any {
	old := *nq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // avoid memory leak
	node.index = -1
	*nq = old[:n-1]
	return node
}

// ManhattanDistance returns the Manhattan distance between two cells.
func ManhattanDistance(a, b grid.Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Route finds a path from start to end on the grid. The registry is
// optional; when supplied, moves along busy lanes cost more. Returns
// nil when no path exists. Path absence is a value, not an error: the
// caller is expected to degrade to a direct connector.
func Route(start, end grid.Cell, g *grid.Grid, registry *lanes.Registry) []grid.Cell {
	return RouteWithCosts(start, end, g, registry, DefaultCosts)
}

// RouteWithCosts is Route with an explicit cost model.
func RouteWithCosts(start, end grid.Cell, g *grid.Grid, registry *lanes.Registry, costs Costs) []grid.Cell {
	if !g.IsTraversable(start) || !g.IsTraversable(end) {
		return nil
	}

	// Cheap pre-check: a clear straight line needs no search at all.
	if g.IsLineClear(start, end) {
		return []grid.Cell{start, end}
	}

	open := &nodeQueue{}
	heap.Init(open)
	closed := make(map[grid.Cell]struct{})
	bestG := map[grid.Cell]float64{start: 0}

	h := float64(ManhattanDistance(start, end))
	heap.Push(open, &Node{FCost: h, GCost: 0, HCost: h, Cell: start})

	for open.Len() > 0 {
		current := heap.Pop(open).(*Node)

		if current.Cell == end {
			return reconstructPath(current)
		}

		if _, ok := closed[current.Cell]; ok {
			continue
		}
		closed[current.Cell] = struct{}{}

		for _, neighbor := range g.Neighbors(current.Cell) {
			if _, ok := closed[neighbor]; ok {
				continue
			}

			gCost := moveCost(current, neighbor, g, registry, costs)
			if best, ok := bestG[neighbor]; ok && gCost >= best {
				continue
			}
			bestG[neighbor] = gCost

			hCost := float64(ManhattanDistance(neighbor, end))
			heap.Push(open, &Node{
				FCost:  gCost + hCost,
				GCost:  gCost,
				HCost:  hCost,
				Cell:   neighbor,
				Parent: current,
			})
		}
	}

	return nil
}

// moveCost computes the cumulative cost of stepping from the current
// node to a neighbor cell.
func moveCost(current *Node, neighbor grid.Cell, g *grid.Grid, registry *lanes.Registry, costs Costs) float64 {
	gCost := current.GCost + 1

	straight := isStraightMove(current.Parent, current, neighbor)
	if !straight {
		gCost += costs.TurnPenalty
	}

	if registry != nil {
		switch {
		case neighbor.X == current.Cell.X: // vertical move
			lane := neighbor.X * g.Resolution
			gCost += costs.LaneWeight * float64(registry.LaneUsage(lane, true))
		case neighbor.Y == current.Cell.Y: // horizontal move
			lane := neighbor.Y * g.Resolution
			gCost += costs.LaneWeight * float64(registry.LaneUsage(lane, false))
		}
	}

	// Reward runs of 3+ straight cells. See the Costs doc comment for
	// why this intentionally breaks strict A* admissibility.
	if current.Parent != nil && straight {
		if current.Parent.Parent != nil && isStraightMove(current.Parent.Parent, current.Parent, current.Cell) {
			gCost -= costs.StraightReward
		}
	}

	return gCost
}

// isStraightMove checks if stepping to next continues the direction
// that led into current. The first move from the start counts as straight.
func isStraightMove(parent, current *Node, next grid.Cell) bool {
	if parent == nil {
		return true
	}
	prevDX := current.Cell.X - parent.Cell.X
	prevDY := current.Cell.Y - parent.Cell.Y
	nextDX := next.X - current.Cell.X
	nextDY := next.Y - current.Cell.Y
	return prevDX == nextDX && prevDY == nextDY
}

// reconstructPath walks parent links from the goal back to the start.
func reconstructPath(goal *Node) []grid.Cell {
	var path []grid.Cell
	for n := goal; n != nil; n = n.Parent {
		path = append(path, n.Cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// RouteWaypoints chains Route across consecutive waypoint pairs,
// concatenating the legs. Returns nil if any leg fails.
func RouteWaypoints(waypoints []core.Point, g *grid.Grid, registry *lanes.Registry) []grid.Cell {
	if len(waypoints) < 2 {
		return nil
	}

	var complete []grid.Cell
	for i := 0; i < len(waypoints)-1; i++ {
		start := g.ToGrid(waypoints[i].X, waypoints[i].Y)
		end := g.ToGrid(waypoints[i+1].X, waypoints[i+1].Y)

		leg := Route(start, end, g, registry)
		if leg == nil {
			return nil
		}

		if len(complete) > 0 {
			complete = append(complete, leg[1:]...) // drop the duplicated junction
		} else {
			complete = append(complete, leg...)
		}
	}
	return complete
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
