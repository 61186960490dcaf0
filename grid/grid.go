// Package grid discretizes the diagram canvas into cells and tracks
// which cells are blocked by table boxes. It is the sole authority on
// whether a straight or stepped line can pass through a region.
package grid

import (
	"fmt"

	"erd/core"
)

// Cell identifies a single lattice cell by its integer coordinates.
type Cell struct {
	X, Y int
}

// Grid overlays the canvas with a lattice of resolution-sized cells.
// It is built once per render from the full obstacle list and is
// read-only afterwards.
type Grid struct {
	Width      float64
	Height     float64
	Resolution int
	Cols       int
	Rows       int

	blocked map[Cell]struct{}
}

// New creates a grid covering a width×height canvas. Resolution is the
// cell size in canvas units. Non-positive dimensions are configuration
// errors and fail fast.
func New(width, height float64, resolution int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: invalid canvas size %gx%g", width, height)
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("grid: invalid resolution %d", resolution)
	}
	return &Grid{
		Width:      width,
		Height:     height,
		Resolution: resolution,
		Cols:       int(width/float64(resolution)) + 1,
		Rows:       int(height/float64(resolution)) + 1,
		blocked:    make(map[Cell]struct{}),
	}, nil
}

// ToGrid converts canvas coordinates to the cell containing them.
func (g *Grid) ToGrid(x, y float64) Cell {
	return Cell{X: int(x / float64(g.Resolution)), Y: int(y / float64(g.Resolution))}
}

// FromGrid converts a cell to canvas coordinates (the cell center).
func (g *Grid) FromGrid(c Cell) (float64, float64) {
	r := float64(g.Resolution)
	return float64(c.X)*r + r/2, float64(c.Y)*r + r/2
}

// MarkObstacle blocks every cell touched by the rectangle expanded by
// margin on all sides. Marking the same rectangle twice is a no-op
// beyond the first call.
func (g *Grid) MarkObstacle(r core.Rect, margin float64) {
	x1 := r.X - margin
	y1 := r.Y - margin
	x2 := r.Right() + margin
	y2 := r.Bottom() + margin

	// Clamp to the canvas before converting to cells.
	c1 := g.ToGrid(max(0, x1), max(0, y1))
	c2 := g.ToGrid(min(g.Width, x2), min(g.Height, y2))

	for gx := c1.X; gx <= c2.X; gx++ {
		for gy := c1.Y; gy <= c2.Y; gy++ {
			if gx >= 0 && gx < g.Cols && gy >= 0 && gy < g.Rows {
				g.blocked[Cell{X: gx, Y: gy}] = struct{}{}
			}
		}
	}
}

// IsBlocked checks if a cell is blocked by an obstacle.
func (g *Grid) IsBlocked(c Cell) bool {
	_, ok := g.blocked[c]
	return ok
}

// IsValid checks if a cell is within grid bounds.
func (g *Grid) IsValid(c Cell) bool {
	return c.X >= 0 && c.X < g.Cols && c.Y >= 0 && c.Y < g.Rows
}

// IsTraversable checks if a cell is valid and not blocked.
func (g *Grid) IsTraversable(c Cell) bool {
	return g.IsValid(c) && !g.IsBlocked(c)
}

// Neighbors returns the traversable orthogonal neighbors of a cell.
// Diagonal moves are never offered; paths stay axis-aligned.
func (g *Grid) Neighbors(c Cell) []Cell {
	deltas := [4]Cell{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} // N, E, S, W
	neighbors := make([]Cell, 0, 4)
	for _, d := range deltas {
		n := Cell{X: c.X + d.X, Y: c.Y + d.Y}
		if g.IsTraversable(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// LineCells returns every cell along the straight line between two
// cells using Bresenham's algorithm. Both endpoints are included.
func (g *Grid) LineCells(start, end Cell) []Cell {
	var cells []Cell

	dx := abs(end.X - start.X)
	dy := abs(end.Y - start.Y)

	sx := 1
	if start.X > end.X {
		sx = -1
	}
	sy := 1
	if start.Y > end.Y {
		sy = -1
	}

	err := dx - dy
	x, y := start.X, start.Y

	for {
		cells = append(cells, Cell{X: x, Y: y})
		if x == end.X && y == end.Y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
	return cells
}

// IsLineClear checks if a straight line between two cells is unobstructed.
func (g *Grid) IsLineClear(start, end Cell) bool {
	for _, c := range g.LineCells(start, end) {
		if !g.IsTraversable(c) {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
