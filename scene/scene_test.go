package scene

import (
	"testing"

	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/vec2"
)

type fakeAdder struct {
	store body.Store
}

func (a *fakeAdder) AddBody(p body.Prototype) (int, error) { return a.store.Add(p), nil }

func TestBrickGeneratesGridOfBodies(t *testing.T) {
	a := &fakeAdder{}
	b := NewBrick(vec2.New(0, 0), vec2.New(20, 20))
	ids, err := b.Generate(a)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ids) == 0 {
		t.Fatal("brick generated no bodies")
	}
	if a.store.Len() != len(ids) {
		t.Fatalf("store has %d bodies, generate returned %d ids", a.store.Len(), len(ids))
	}
	for _, id := range ids {
		if a.store.Radii[id] != defaultParticleRadius {
			t.Fatalf("body %d radius = %v", id, a.store.Radii[id])
		}
	}
}

func TestBallGeneratesOnlyWithinRadius(t *testing.T) {
	a := &fakeAdder{}
	center := vec2.New(50, 50)
	ball := NewBall(center, 10)
	ids, err := ball.Generate(a)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ids) == 0 {
		t.Fatal("ball generated no bodies")
	}
	for _, id := range ids {
		if d := a.store.Positions[id].Sub(center).Length(); d > ball.Radius+1e-9 {
			t.Fatalf("body %d at distance %v exceeds ball radius %v", id, d, ball.Radius)
		}
	}
}

func TestHSLToColorProducesOpaqueColor(t *testing.T) {
	c := hslToColor(120)
	if c[3] != 1.0 {
		t.Fatalf("alpha = %v, want 1.0", c[3])
	}
	for i := 0; i < 3; i++ {
		if c[i] < 0 || c[i] > 1 {
			t.Fatalf("channel %d out of range: %v", i, c[i])
		}
	}
}
