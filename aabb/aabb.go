// Package aabb provides axis-aligned bounding box math for the broad phase.
//
// Package aabb is provided as part of the orbitsim particle-physics engine.
package aabb

import "github.com/nburjui/orbitsim/vec2"

// Box is an axis-aligned bounding box with TopLeft <= BottomRight
// component-wise.
type Box struct {
	TopLeft     vec2.V
	BottomRight vec2.V
}

// Of returns the box of a circle centered at position with the given radius.
func Of(position vec2.V, radius float64) Box {
	r := vec2.New(radius, radius)
	return Box{TopLeft: position.Sub(r), BottomRight: position.Add(r)}
}

// Union returns the smallest box containing both a and b.
func Union(a, b Box) Box {
	return Box{
		TopLeft: vec2.New(
			min(a.TopLeft.X, b.TopLeft.X),
			min(a.TopLeft.Y, b.TopLeft.Y),
		),
		BottomRight: vec2.New(
			max(a.BottomRight.X, b.BottomRight.X),
			max(a.BottomRight.Y, b.BottomRight.Y),
		),
	}
}

// Intersects reports whether a and b overlap on both axes. Touching counts
// as intersection: the test uses <= rather than <.
func (a Box) Intersects(b Box) bool {
	return a.TopLeft.X <= b.BottomRight.X && a.BottomRight.X >= b.TopLeft.X &&
		a.TopLeft.Y <= b.BottomRight.Y && a.BottomRight.Y >= b.TopLeft.Y
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
