// Package constraints keeps bodies inside a fixed simulation boundary by
// reflecting velocity off whichever wall a body has crossed.
//
// Package constraints is provided as part of the orbitsim particle-physics
// engine.
package constraints

import (
	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/vec2"
)

// Box is an axis-aligned world boundary. Bodies are clamped to stay inside
// it; if Bouncing is enabled, the velocity component on any crossed axis is
// negated, and if any component changed the whole velocity is then scaled by
// Restitution.
type Box struct {
	Min, Max    vec2.V
	Bouncing    bool
	Restitution float64
}

// Apply clamps every body in store to stay within the box.
func (box Box) Apply(store *body.Store) {
	for id := 0; id < store.Len(); id++ {
		box.applyOne(store, id)
	}
}

func (box Box) applyOne(store *body.Store, id int) {
	pos := store.Positions[id]
	vel := store.Velocities[id]
	r := store.Radii[id]
	initial := vel

	if pos.X-r < box.Min.X {
		pos.X = box.Min.X + r
		if box.Bouncing {
			vel.X = -vel.X
		}
	} else if pos.X+r > box.Max.X {
		pos.X = box.Max.X - r
		if box.Bouncing {
			vel.X = -vel.X
		}
	}

	if pos.Y-r < box.Min.Y {
		pos.Y = box.Min.Y + r
		if box.Bouncing {
			vel.Y = -vel.Y
		}
	} else if pos.Y+r > box.Max.Y {
		pos.Y = box.Max.Y - r
		if box.Bouncing {
			vel.Y = -vel.Y
		}
	}

	if vel != initial {
		vel = vel.Scale(box.Restitution)
	}

	store.Positions[id] = pos
	store.Velocities[id] = vel
}
