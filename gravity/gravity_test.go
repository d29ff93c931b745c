package gravity

import (
	"math"
	"testing"

	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/vec2"
)

func newStoreWithPlanets(planets []body.Prototype, others []body.Prototype) *body.Store {
	var s body.Store
	for _, p := range planets {
		p.IsPlanet = true
		s.Add(p)
	}
	for _, p := range others {
		s.Add(p)
	}
	return &s
}

func TestPlanetExcludesItself(t *testing.T) {
	sun := body.New(vec2.New(0, 0))
	sun.Mass = 1000
	store := newStoreWithPlanets([]body.Prototype{sun}, nil)

	f := New(1.0)
	acc := f.AccelerationOnPlanet(store, 0)
	if acc != (vec2.V{}) {
		t.Fatalf("lone planet should feel no gravity from itself, got %+v", acc)
	}
}

func TestBodyAttractedTowardPlanet(t *testing.T) {
	sun := body.New(vec2.New(0, 0))
	sun.Mass = 100
	probe := body.New(vec2.New(10, 0))
	store := newStoreWithPlanets([]body.Prototype{sun}, []body.Prototype{probe})

	f := New(1.0)
	acc := f.AccelerationOnBody(store, store.Positions[1])

	want := -100.0 / 100.0 // G*M/d^2 toward -x
	if math.Abs(acc.X-want) > 1e-9 || math.Abs(acc.Y) > 1e-9 {
		t.Fatalf("acc = %+v, want {%v, 0}", acc, want)
	}
}

func TestTwoPlanetsAttractEachOther(t *testing.T) {
	a := body.New(vec2.New(0, 0))
	a.Mass = 10
	b := body.New(vec2.New(5, 0))
	b.Mass = 20
	store := newStoreWithPlanets([]body.Prototype{a, b}, nil)

	f := New(1.0)
	accA := f.AccelerationOnPlanet(store, 0)
	accB := f.AccelerationOnPlanet(store, 1)

	if accA.X <= 0 {
		t.Fatalf("planet A should accelerate toward +x, got %+v", accA)
	}
	if accB.X >= 0 {
		t.Fatalf("planet B should accelerate toward -x, got %+v", accB)
	}
}

func TestCoincidentPositionDoesNotProduceInfiniteAcceleration(t *testing.T) {
	sun := body.New(vec2.New(3, 4))
	sun.Mass = 50
	store := newStoreWithPlanets([]body.Prototype{sun}, nil)

	f := New(1.0)
	acc := f.AccelerationAt(store, vec2.New(3, 4), none)
	if math.IsInf(acc.Length(), 1) || math.IsNaN(acc.Length()) {
		t.Fatalf("coincident position produced non-finite acceleration: %+v", acc)
	}
}
