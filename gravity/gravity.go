// Package gravity computes the N-by-P gravitational acceleration field
// sourced by planet bodies. Only planets source gravity; planets attract
// every other planet but not themselves, and every non-planet body is
// attracted by every planet.
//
// Package gravity is provided as part of the orbitsim particle-physics
// engine.
package gravity

import (
	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/vec2"
)

// Field holds the constant used to scale the inverse-square law, plus a
// uniform acceleration applied on top of it everywhere.
type Field struct {
	G      float64
	Global vec2.V
}

// New returns a Field with gravitational constant g and no uniform
// component.
func New(g float64) Field {
	return Field{G: g}
}

// WithGlobal returns a copy of f with its uniform acceleration set to global.
func (f Field) WithGlobal(global vec2.V) Field {
	f.Global = global
	return f
}

// none is used as excludeID by AccelerationAt when no planet should be
// skipped.
const none = -1

// AccelerationAt returns the gravitational acceleration at position due to
// every planet in store except the one at excludeID (pass none to exclude
// nothing), plus the field's uniform Global acceleration.
func (f Field) AccelerationAt(store *body.Store, position vec2.V, excludeID int) vec2.V {
	return f.Global.Add(f.PlanetSourcedAccelerationAt(store, position, excludeID))
}

// PlanetSourcedAccelerationAt is AccelerationAt without the uniform Global
// term, used where a caller needs the inverse-square contribution alone
// (the adaptive timestep's gravity factor, for instance). The field floors
// each planet's distance before dividing, so a body sitting exactly on a
// planet's center does not produce an infinite acceleration.
func (f Field) PlanetSourcedAccelerationAt(store *body.Store, position vec2.V, excludeID int) vec2.V {
	var acc vec2.V
	start, end := store.PlanetRange()
	for id := start; id < end; id++ {
		if id == excludeID {
			continue
		}
		offset := store.Positions[id].Sub(position)
		distSq := offset.LengthSquared()
		if distSq < vec2.Epsilon {
			distSq = vec2.Epsilon
		}
		direction := offset.Normalize()
		magnitude := f.G * store.Masses[id] / distSq
		acc = acc.Add(direction.Scale(magnitude))
	}
	return acc
}

// PlanetSourcedAccelerationFromSnapshot is PlanetSourcedAccelerationAt but
// reads planet positions from an explicit snapshot slice rather than a live
// Store. The integrator uses this so that every body's sub-steps within a
// tick see the same frozen planet positions, never a neighbor's
// already-updated position.
func (f Field) PlanetSourcedAccelerationFromSnapshot(planetPositions []vec2.V, planetMasses []float64, position vec2.V, excludeID int) vec2.V {
	var acc vec2.V
	for id, planetPos := range planetPositions {
		if id == excludeID {
			continue
		}
		offset := planetPos.Sub(position)
		distSq := offset.LengthSquared()
		if distSq < vec2.Epsilon {
			distSq = vec2.Epsilon
		}
		direction := offset.Normalize()
		magnitude := f.G * planetMasses[id] / distSq
		acc = acc.Add(direction.Scale(magnitude))
	}
	return acc
}

// AccelerationFromSnapshot is PlanetSourcedAccelerationFromSnapshot plus the
// field's uniform Global acceleration.
func (f Field) AccelerationFromSnapshot(planetPositions []vec2.V, planetMasses []float64, position vec2.V, excludeID int) vec2.V {
	return f.Global.Add(f.PlanetSourcedAccelerationFromSnapshot(planetPositions, planetMasses, position, excludeID))
}

// AccelerationOnPlanet returns the acceleration felt by planet id, which
// excludes the planet's own mass from the sum.
func (f Field) AccelerationOnPlanet(store *body.Store, id int) vec2.V {
	return f.AccelerationAt(store, store.Positions[id], id)
}

// AccelerationOnBody returns the acceleration felt by a non-planet body at
// position, summed over every planet.
func (f Field) AccelerationOnBody(store *body.Store, position vec2.V) vec2.V {
	return f.AccelerationAt(store, position, none)
}
