// Package integrator advances body positions and velocities with a 4th
// order Leapfrog-Yoshida symplectic integrator. Symplectic integrators
// conserve a shadow Hamiltonian close to the true one, so orbital energy
// stays bounded over long runs instead of drifting the way a naive Euler or
// even an RK4 step eventually does.
//
// Package integrator is provided as part of the orbitsim particle-physics
// engine.
package integrator

import (
	"math"

	"github.com/nburjui/orbitsim/vec2"
)

// Yoshida's 4th order coefficients, derived from the cube root of 2. w0 is
// negative, which is what gives the method its time-symmetric, energy
// bounding structure; a naive 4-stage method built from only positive
// sub-steps cannot be symplectic.
var (
	cbrt2 = math.Cbrt(2)
	w1    = 1.0 / (2.0 - cbrt2)
	w0    = -cbrt2 / (2.0 - cbrt2)

	c1 = w1 / 2.0
	c4 = w1 / 2.0
	c2 = (w0 + w1) / 2.0
	c3 = (w0 + w1) / 2.0

	d1 = w1
	d2 = w0
	d3 = w1
)

// Accel evaluates acceleration at a trial position. Implementations close
// over a snapshot of every other body's position taken at the start of the
// tick, so that a body's intermediate sub-steps never see another body's
// already-updated position: every body in the tick integrates against the
// same frozen field.
type Accel func(position vec2.V) vec2.V

// Step advances one body by dt using three drift-kick sub-steps followed by
// a final drift; there is no fourth kick. Every
// sub-step's trial position and velocity are taken relative to the fixed
// starting x0/v0, not the previous sub-step's result. Step returns the new
// position and velocity; it does not mutate its arguments.
func Step(position, velocity vec2.V, dt float64, accel Accel) (vec2.V, vec2.V) {
	x0 := position
	v0 := velocity

	x1 := x0.Add(v0.Scale(c1 * dt))
	v1 := v0.Add(accel(x1).Scale(d1 * dt))

	x2 := x0.Add(v1.Scale(c2 * dt))
	v2 := v0.Add(accel(x2).Scale(d2 * dt))

	x3 := x0.Add(v2.Scale(c3 * dt))
	v3 := v0.Add(accel(x3).Scale(d3 * dt))

	p := x0.Add(v3.Scale(c4 * dt))

	return p, v3
}
