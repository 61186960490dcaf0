// Package layout positions boxes that arrive without coordinates.
// Boxes are arranged in columns by their distance from the root boxes
// of the relationship graph, so that related tables end up side by
// side and connectors stay short.
package layout

import (
	"sort"

	"erd/core"
)

// Layout arranges boxes in a left-to-right layered grid.
type Layout struct {
	HorizontalSpacing float64
	VerticalSpacing   float64
	Padding           float64 // clearance kept between boxes and the canvas edge
	MaxPerColumn      int     // columns taller than this are split
}

// NewLayout creates a Layout with default spacing.
func NewLayout() *Layout {
	return &Layout{
		HorizontalSpacing: 120,
		VerticalSpacing:   60,
		Padding:           40,
		MaxPerColumn:      6,
	}
}

// Arrange positions every box of the diagram and grows the canvas to
// fit if it is too small. Box order within a column follows name order
// so the same input always produces the same arrangement.
func (l *Layout) Arrange(d *core.Diagram) {
	if len(d.Boxes) == 0 {
		return
	}

	layers := l.assignLayers(d)

	x := l.Padding
	var maxBottom float64
	for _, layer := range layers {
		colWidth := 0.0
		y := l.Padding
		placed := 0
		colX := x

		for _, idx := range layer {
			box := &d.Boxes[idx]
			if placed == l.MaxPerColumn {
				colX += colWidth + l.HorizontalSpacing
				colWidth = 0
				y = l.Padding
				placed = 0
			}
			box.X = colX
			box.Y = y
			y += box.Height + l.VerticalSpacing
			colWidth = max(colWidth, box.Width)
			maxBottom = max(maxBottom, box.Bottom())
			placed++
		}
		x = colX + colWidth + l.HorizontalSpacing
	}

	if w := x - l.HorizontalSpacing + l.Padding; d.Width < w {
		d.Width = w
	}
	if h := maxBottom + l.Padding; d.Height < h {
		d.Height = h
	}
}

// assignLayers groups box indices into columns by graph depth. Depth is
// the longest chain of relationships leading into a box, with a visit
// guard so that cyclic schemas terminate. Boxes unreachable from any
// root land in column zero.
func (l *Layout) assignLayers(d *core.Diagram) [][]int {
	index := make(map[string]int, len(d.Boxes))
	for i, b := range d.Boxes {
		index[b.Name] = i
	}

	outgoing := make(map[int][]int)
	indegree := make(map[int]int)
	for _, rel := range d.Relationships {
		from, okF := index[rel.From]
		to, okT := index[rel.To]
		if !okF || !okT || from == to {
			continue
		}
		outgoing[from] = append(outgoing[from], to)
		indegree[to]++
	}

	depth := make([]int, len(d.Boxes))
	var visit func(i, dep int, seen map[int]bool)
	visit = func(i, dep int, seen map[int]bool) {
		if seen[i] {
			return
		}
		seen[i] = true
		defer delete(seen, i)

		if dep > depth[i] {
			depth[i] = dep
		}
		for _, next := range outgoing[i] {
			visit(next, dep+1, seen)
		}
	}
	for i := range d.Boxes {
		if indegree[i] == 0 {
			visit(i, 0, map[int]bool{})
		}
	}

	maxDepth := 0
	for _, dep := range depth {
		maxDepth = max(maxDepth, dep)
	}

	layers := make([][]int, maxDepth+1)
	for i := range d.Boxes {
		layers[depth[i]] = append(layers[depth[i]], i)
	}
	for _, layer := range layers {
		sort.Slice(layer, func(a, b int) bool {
			return d.Boxes[layer[a]].Name < d.Boxes[layer[b]].Name
		})
	}
	return layers
}
