// Package collision turns broad-phase candidate pairs into actual contacts
// and resolves them with an impulse-based response plus positional
// correction.
//
// Candidates arrive from the broad phase already normalized (A < B).
// Aggregate sorts, drops any pair reported more than once, and then
// shuffles the surviving set: resolving pairs in array order would
// let earlier bodies in id order win every contest for a shared neighbor,
// visibly biasing dense clusters. Shuffling after dedup removes that bias
// without needing to solve contacts simultaneously.
//
// Package collision is provided as part of the orbitsim particle-physics
// engine.
package collision

import (
	"math"
	"math/rand"
	"sort"

	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/bvh"
)

// Aggregate sorts candidates, removes duplicates, and shuffles the result
// using rng. The input slice is not mutated; a fresh slice is returned.
func Aggregate(candidates []bvh.Pair, rng *rand.Rand) []bvh.Pair {
	if len(candidates) == 0 {
		return nil
	}
	sorted := append([]bvh.Pair(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].A != sorted[j].A {
			return sorted[i].A < sorted[j].A
		}
		return sorted[i].B < sorted[j].B
	})

	deduped := sorted[:0:0]
	deduped = append(deduped, sorted[0])
	for _, p := range sorted[1:] {
		if p != deduped[len(deduped)-1] {
			deduped = append(deduped, p)
		}
	}

	rng.Shuffle(len(deduped), func(i, j int) {
		deduped[i], deduped[j] = deduped[j], deduped[i]
	})
	return deduped
}

// Resolver holds the restitution coefficient applied to non-planet bodies
// after a collision.
type Resolver struct {
	// Restitution scales the post-impulse velocity of any body in a contact
	// that is not a planet. Planets keep their post-impulse velocity
	// unscaled, so a planet passes through collisions without losing
	// energy.
	Restitution float64
}

// NewResolver returns a Resolver using the given restitution coefficient.
func NewResolver(restitution float64) Resolver {
	return Resolver{Restitution: restitution}
}

// Resolve re-tests pair against the narrow phase (an exact circle-circle
// check, since resolving an earlier pair may already have moved either
// body) and, if the bodies still overlap, applies an impulse and positional
// correction directly to store.
// It reports whether the pair was in contact.
func (r Resolver) Resolve(store *body.Store, pair bvh.Pair) bool {
	i, j := pair.A, pair.B
	posI, posJ := store.Positions[i], store.Positions[j]
	distSq := posI.Sub(posJ).LengthSquared()
	collisionDistance := store.Radii[i] + store.Radii[j]
	if distSq >= collisionDistance*collisionDistance {
		return false
	}
	r.resolveOverlapping(store, i, j, distSq, collisionDistance)
	return true
}

// resolveOverlapping applies the impulse, restitution, and positional
// correction for a pair already known to overlap.
func (r Resolver) resolveOverlapping(store *body.Store, i, j int, distSq, collisionDistance float64) {
	fromItoJ := store.Positions[i].Sub(store.Positions[j])
	distance := math.Sqrt(distSq)
	normal := fromItoJ.Normalize()

	massI, massJ := store.Masses[i], store.Masses[j]
	totalMass := massI + massJ

	vI, vJ := store.Velocities[i], store.Velocities[j]
	impulseScalar := 2.0 * vI.Sub(vJ).Dot(normal) / totalMass

	newVI := vI.Sub(normal.Scale(massJ * impulseScalar))
	newVJ := vJ.Add(normal.Scale(massI * impulseScalar))

	if !store.IsPlanet[i] {
		newVI = newVI.Scale(r.Restitution)
	}
	if !store.IsPlanet[j] {
		newVJ = newVJ.Scale(r.Restitution)
	}
	store.Velocities[i] = newVI
	store.Velocities[j] = newVJ

	intersectionDepth := collisionDistance - distance
	invMassI, invMassJ := 1.0/massI, 1.0/massJ
	totalInvMass := invMassI + invMassJ
	correction := normal.Scale(intersectionDepth)
	store.Positions[i] = store.Positions[i].Add(correction.Scale(invMassI / totalInvMass))
	store.Positions[j] = store.Positions[j].Sub(correction.Scale(invMassJ / totalInvMass))
}
