// Package vec2 performs 2 element vector math needed for the physics core.
//
// Package vec2 is provided as part of the orbitsim particle-physics engine.
package vec2

import "math"

// Epsilon is the smallest positive value used to floor magnitudes before
// dividing by them, so that Normalize never divides by zero.
const Epsilon = 2.220446049250313e-16 // smallest positive float64 epsilon.

// V is a 2 element vector, used both as a point and a direction.
type V struct {
	X float64
	Y float64
}

// New returns the vector (x, y).
func New(x, y float64) V { return V{X: x, Y: y} }

// Add (+) returns v+a.
func (v V) Add(a V) V { return V{v.X + a.X, v.Y + a.Y} }

// Sub (-) returns v-a.
func (v V) Sub(a V) V { return V{v.X - a.X, v.Y - a.Y} }

// Scale (*) returns v scaled by s.
func (v V) Scale(s float64) V { return V{v.X * s, v.Y * s} }

// Div (/) returns v divided component-wise by s.
func (v V) Div(s float64) V { return V{v.X / s, v.Y / s} }

// Neg (-v) returns the additive inverse of v.
func (v V) Neg() V { return V{-v.X, -v.Y} }

// Dot returns the dot product of v and a.
func (v V) Dot(a V) float64 { return v.X*a.X + v.Y*a.Y }

// LengthSquared returns the squared magnitude of v. Prefer this over Length
// when only comparing magnitudes, to avoid the sqrt.
func (v V) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }

// Length returns the magnitude of v.
func (v V) Length() float64 { return math.Sqrt(v.LengthSquared()) }

// Normalize returns v scaled to unit length. The divisor is floored at
// Epsilon so that Normalize never divides by zero; a zero vector normalizes
// to itself scaled by 1/Epsilon, which collapses cleanly rather than
// producing NaN.
func (v V) Normalize() V {
	return v.Scale(1.0 / math.Max(v.Length(), Epsilon))
}

// Eq returns true if v and a have identical components.
func (v V) Eq(a V) bool { return v.X == a.X && v.Y == a.Y }
