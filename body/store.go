// Package body manages the dense, struct-of-arrays store of simulated
// bodies. Physics data is kept this way to facilitate optimizing the
// per-tick integration, broad-phase, and collision passes: one parallel
// array per attribute, indexed by a dense integer id in [0, N).
//
// Package body is provided as part of the orbitsim particle-physics engine.
package body

import "github.com/nburjui/orbitsim/vec2"

// Color is an opaque RGBA color. The core never interprets it; it is
// carried through from Prototype to Store purely for the caller's benefit.
type Color [4]float32

// Prototype is the value used to add a new body to a Store.
type Prototype struct {
	Position vec2.V
	Velocity vec2.V
	Radius   float64
	Mass     float64
	Color    *Color
	IsPlanet bool
}

// New returns a prototype for a unit-radius, unit-mass, stationary,
// non-planet body at position.
func New(position vec2.V) Prototype {
	return Prototype{Position: position, Radius: 1, Mass: 1}
}

// Store is the dense struct-of-arrays body table. All slices always have
// identical length. Bodies with IsPlanet true occupy ids [0, PlanetCount);
// all others occupy [PlanetCount, Len()).
type Store struct {
	Positions  []vec2.V
	Velocities []vec2.V
	Radii      []float64
	Masses     []float64
	Colors     []*Color
	IsPlanet   []bool

	PlanetCount int
}

// Len returns the number of bodies in the store.
func (s *Store) Len() int { return len(s.Positions) }

// Add inserts a body and returns its id. Inserting a planet after any
// non-planet is a programming error and panics: planets must occupy a
// contiguous prefix of ids so that gravity sources can be addressed by a
// simple range.
func (s *Store) Add(p Prototype) int {
	id := s.Len()
	if p.IsPlanet && id != s.PlanetCount {
		panic("body: planets must be added before any non-planet body")
	}
	s.Positions = append(s.Positions, p.Position)
	s.Velocities = append(s.Velocities, p.Velocity)
	s.Radii = append(s.Radii, p.Radius)
	s.Masses = append(s.Masses, p.Mass)
	s.Colors = append(s.Colors, p.Color)
	s.IsPlanet = append(s.IsPlanet, p.IsPlanet)
	if p.IsPlanet {
		s.PlanetCount++
	}
	return id
}

// PlanetRange returns the [start, end) id range occupied by planets.
func (s *Store) PlanetRange() (start, end int) { return 0, s.PlanetCount }

// NonPlanetRange returns the [start, end) id range occupied by non-planets.
func (s *Store) NonPlanetRange() (start, end int) { return s.PlanetCount, s.Len() }

// PlanetMasses returns the mass of every planet, in id order.
func (s *Store) PlanetMasses() []float64 { return s.Masses[:s.PlanetCount] }

// View is a read-only snapshot of a Store's parallel arrays, handed to
// callers that should not be able to mutate simulation state directly.
type View struct {
	Positions  []vec2.V
	Velocities []vec2.V
	Radii      []float64
	Masses     []float64
	Colors     []*Color
	IsPlanet   []bool
}

// Len returns the number of bodies in the view.
func (v *View) Len() int { return len(v.Positions) }

// View returns a read-only view sharing the Store's backing arrays. The
// view is invalidated by any subsequent Add.
func (s *Store) View() *View {
	return &View{
		Positions:  s.Positions,
		Velocities: s.Velocities,
		Radii:      s.Radii,
		Masses:     s.Masses,
		Colors:     s.Colors,
		IsPlanet:   s.IsPlanet,
	}
}
