package constraints

import (
	"testing"

	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/vec2"
)

func newSingleBody(pos, vel vec2.V, radius float64) *body.Store {
	var s body.Store
	p := body.New(pos)
	p.Velocity = vel
	p.Radius = radius
	s.Add(p)
	return &s
}

func TestApplyClampsAndReflectsLeftWall(t *testing.T) {
	s := newSingleBody(vec2.New(-5, 0), vec2.New(-3, 0), 1)
	box := Box{Min: vec2.New(0, 0), Max: vec2.New(100, 100), Bouncing: true, Restitution: 1.0}
	box.Apply(s)
	if s.Positions[0].X != 1 {
		t.Fatalf("position.X = %v, want 1", s.Positions[0].X)
	}
	if s.Velocities[0].X != 3 {
		t.Fatalf("velocity.X = %v, want 3", s.Velocities[0].X)
	}
}

func TestApplyRespectsRestitution(t *testing.T) {
	// A single non-planet pushed past the Max.Y wall with e=0.8: the
	// reflected velocity is scaled by the restitution coefficient.
	s := newSingleBody(vec2.New(50, 105), vec2.New(0, -100), 1)
	box := Box{Min: vec2.New(0, 0), Max: vec2.New(100, 100), Bouncing: true, Restitution: 0.8}
	box.Apply(s)
	if s.Velocities[0].Y != 80 {
		t.Fatalf("velocity.Y = %v, want 80", s.Velocities[0].Y)
	}
}

func TestApplyNoOpWhenInsideBounds(t *testing.T) {
	s := newSingleBody(vec2.New(50, 50), vec2.New(1, -1), 1)
	box := Box{Min: vec2.New(0, 0), Max: vec2.New(100, 100), Bouncing: true, Restitution: 1.0}
	box.Apply(s)
	if s.Positions[0] != vec2.New(50, 50) || s.Velocities[0] != vec2.New(1, -1) {
		t.Fatal("body inside bounds was modified")
	}
}

func TestApplyWithoutBouncingOnlyClampsPosition(t *testing.T) {
	s := newSingleBody(vec2.New(-5, 0), vec2.New(-3, 2), 1)
	box := Box{Min: vec2.New(0, 0), Max: vec2.New(100, 100), Bouncing: false, Restitution: 0.5}
	box.Apply(s)
	if s.Positions[0].X != 1 {
		t.Fatalf("position.X = %v, want 1", s.Positions[0].X)
	}
	if s.Velocities[0] != vec2.New(-3, 2) {
		t.Fatalf("velocity changed with bouncing disabled: %+v", s.Velocities[0])
	}
}

func TestApplyClampsBothAxesSimultaneously(t *testing.T) {
	s := newSingleBody(vec2.New(-5, 150), vec2.New(-2, 3), 1)
	box := Box{Min: vec2.New(0, 0), Max: vec2.New(100, 100), Bouncing: true, Restitution: 1.0}
	box.Apply(s)
	if s.Positions[0] != vec2.New(1, 99) {
		t.Fatalf("position = %+v, want {1, 99}", s.Positions[0])
	}
	if s.Velocities[0] != vec2.New(2, -3) {
		t.Fatalf("velocity = %+v, want {2, -3}", s.Velocities[0])
	}
}
