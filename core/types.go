// Package core contains the fundamental geometric types used throughout the router.
package core

import "math"

// Point represents a 2D coordinate in canvas units.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Side represents one edge of a box.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// String returns the string representation of a Side.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Horizontal reports whether the side faces left or right.
// Connectors leaving a horizontal side travel horizontally first.
func (s Side) Horizontal() bool {
	return s == SideLeft || s == SideRight
}

// Outward returns the unit direction pointing away from the box.
func (s Side) Outward() (dx, dy float64) {
	switch s {
	case SideTop:
		return 0, -1
	case SideRight:
		return 1, 0
	case SideBottom:
		return 0, 1
	default:
		return -1, 0
	}
}

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Expand grows the rectangle by m on all four sides.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// Contains checks if a point lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// EdgePoint returns the midpoint of the given side.
func (r Rect) EdgePoint(s Side) Point {
	switch s {
	case SideTop:
		return Point{X: r.X + r.Width/2, Y: r.Y}
	case SideRight:
		return Point{X: r.Right(), Y: r.Y + r.Height/2}
	case SideBottom:
		return Point{X: r.X + r.Width/2, Y: r.Bottom()}
	default:
		return Point{X: r.X, Y: r.Y + r.Height/2}
	}
}

// Box is a named obstacle rectangle (a table in the diagram).
type Box struct {
	Name string `json:"name"`
	Rect
}

// Relationship is a connection request between two named boxes.
type Relationship struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Diagram is the full routing input: boxes plus the relationships
// between them, in the order they should be routed.
type Diagram struct {
	Width         float64        `json:"width"`
	Height        float64        `json:"height"`
	Boxes         []Box          `json:"boxes"`
	Relationships []Relationship `json:"relationships"`
}

// Obstacles returns the plain rectangles of all boxes.
func (d Diagram) Obstacles() []Rect {
	rects := make([]Rect, len(d.Boxes))
	for i, b := range d.Boxes {
		rects[i] = b.Rect
	}
	return rects
}

// BoxByName looks up a box by name.
func (d Diagram) BoxByName(name string) (Box, bool) {
	for _, b := range d.Boxes {
		if b.Name == name {
			return b, true
		}
	}
	return Box{}, false
}
