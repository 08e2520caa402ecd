package models

import "math"

// Geometry is a 2-D target location in visual-angle coordinates plus an
// acceptance radius. It is immutable once a trial's location list is built.
type Geometry struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Radius float64 `yaml:"radius" json:"radius"`
}

// Contains reports whether the point (x, y) lies within the acceptance
// radius. The comparison is an inclusive Euclidean distance test, so a point
// exactly on the boundary counts as inside.
func (g Geometry) Contains(x, y float64) bool {
	dx := x - g.X
	dy := y - g.Y
	return math.Sqrt(dx*dx+dy*dy) <= g.Radius
}
