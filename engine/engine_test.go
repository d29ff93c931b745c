package engine

import (
	"math"
	"testing"

	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/config"
	"github.com/nburjui/orbitsim/scene"
	"github.com/nburjui/orbitsim/vec2"
)

func newTestEngine(t *testing.T, cfg config.Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestEmptySimulationAdvancesTimeByHalfSpeedFactor(t *testing.T) {
	e := newTestEngine(t, config.Config{
		Window:     config.Window{Width: 100, Height: 100},
		Simulation: config.Simulation{SpeedFactor: 2, RestitutionCoefficient: 1, DT: "auto"},
	})
	if err := e.Advance(2, GPUOptions{}); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if e.Time() != 1.0 {
		t.Fatalf("Time() = %v, want 1.0", e.Time())
	}
	if e.Stats().ObjectCount != 0 {
		t.Fatalf("ObjectCount = %d, want 0", e.Stats().ObjectCount)
	}
}

func TestScenario1HeadOnCollisionSwapsVelocities(t *testing.T) {
	// Bodies start already overlapping (unlike spec.md's far-apart framing of
	// the same scenario, which describes the resolver's direct contract,
	// covered in collision_test.go) so the full tick's broad+narrow phase
	// actually finds the contact within a single Advance. They sit in the
	// middle of the box so the wall constraint does not touch them.
	e := newTestEngine(t, config.Config{
		Window:     config.Window{Width: 1000, Height: 1000},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 1, DT: "0.01"},
	})
	a := body.New(vec2.New(500, 500))
	a.Velocity = vec2.New(1, 0)
	a.Mass, a.Radius = 1, 1
	b := body.New(vec2.New(501.5, 500))
	b.Velocity = vec2.New(-1, 0)
	b.Mass, b.Radius = 1, 1
	idA, _ := e.AddBody(a)
	idB, _ := e.AddBody(b)

	if err := e.Advance(1, GPUOptions{}); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	view := e.Bodies()
	const tol = 1e-6
	if math.Abs(view.Velocities[idA].X-(-1)) > tol {
		t.Fatalf("body A velocity.X = %v, want -1", view.Velocities[idA].X)
	}
	if math.Abs(view.Velocities[idB].X-1) > tol {
		t.Fatalf("body B velocity.X = %v, want 1", view.Velocities[idB].X)
	}
}

func TestScenario2FloorBounceScalesByRestitution(t *testing.T) {
	e := newTestEngine(t, config.Config{
		Window:     config.Window{Width: 100, Height: 100},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 0.8, DT: "0.001"},
	})
	b := body.New(vec2.New(50, 10))
	b.Velocity = vec2.New(0, -100)
	b.Mass, b.Radius = 1, 1
	id, _ := e.AddBody(b)

	incomingSpeed := 0.0
	var bounced bool
	for tick := 0; tick < 2000 && !bounced; tick++ {
		before := e.Bodies().Velocities[id]
		if err := e.Advance(1, GPUOptions{}); err != nil {
			t.Fatalf("Advance: %v", err)
		}
		after := e.Bodies().Velocities[id]
		if before.Y < 0 && after.Y > 0 {
			incomingSpeed = -before.Y
			bounced = true
			outgoing := after.Y
			ratio := outgoing / incomingSpeed
			if math.Abs(ratio-0.8) > 0.05 {
				t.Fatalf("bounce ratio = %v, want ~0.8", ratio)
			}
		}
	}
	if !bounced {
		t.Fatal("body never bounced off the floor")
	}
}

func TestScenario3CircularOrbitStaysNearRadius(t *testing.T) {
	e := newTestEngine(t, config.Config{
		Window:     config.Window{Width: 2000, Height: 2000},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 1, GravitationalConstant: 1, DT: "0.01"},
	})
	planet := body.New(vec2.New(500, 500))
	planet.IsPlanet = true
	planet.Mass = 1e4
	e.AddBody(planet)

	speed := math.Sqrt(1 * 1e4 / 100)
	probe := body.New(vec2.New(500, 600))
	probe.Velocity = vec2.New(speed, 0)
	probe.Mass, probe.Radius = 1, 1
	probeID, _ := e.AddBody(probe)

	for tick := 0; tick < 1000; tick++ {
		if err := e.Advance(1, GPUOptions{}); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	dist := e.Bodies().Positions[probeID].Sub(e.Bodies().Positions[0]).Length()
	if math.Abs(dist-100) > 1 {
		t.Fatalf("orbit distance = %v, want ~100", dist)
	}
}

func TestScenario4GridSettlesOntoFloor(t *testing.T) {
	e := newTestEngine(t, config.Config{
		Window:     config.Window{Width: 300, Height: 300},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 0.1, GlobalGravity: [2]float64{0, -1000}, DT: "auto"},
	})

	brick := scene.NewBrick(vec2.New(4, 4), vec2.New(192, 192))
	ids, err := brick.Generate(e)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ids) != 1024 {
		t.Fatalf("grid has %d bodies, want 1024 (32x32)", len(ids))
	}

	for tick := 0; tick < 500; tick++ {
		if err := e.Advance(1, GPUOptions{}); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	view := e.Bodies()
	settled := 0
	for _, id := range ids {
		if view.Velocities[id].Length() < 1 {
			settled++
		}
	}
	if frac := float64(settled) / float64(len(ids)); frac < 0.95 {
		t.Fatalf("only %.1f%% of bodies settled (|velocity| < 1), want >= 95%%", frac*100)
	}
}

func TestScenario6PlanetAfterNonPlanetPanics(t *testing.T) {
	e := newTestEngine(t, config.Config{
		Window:     config.Window{Width: 100, Height: 100},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 1, DT: "auto"},
	})
	e.AddBody(body.New(vec2.New(0, 0)))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic adding a planet after a non-planet")
		}
	}()
	planet := body.New(vec2.New(1, 1))
	planet.IsPlanet = true
	e.AddBody(planet)
}

func TestNewRejectsInvalidFixedDT(t *testing.T) {
	_, err := New(config.Config{
		Window:     config.Window{Width: 100, Height: 100},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 1, DT: "not-a-number"},
	})
	if err == nil {
		t.Fatal("expected error for invalid fixed dt")
	}
}
