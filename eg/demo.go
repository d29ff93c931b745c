package main

import (
	"fmt"
	"math"

	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/config"
	"github.com/nburjui/orbitsim/engine"
	"github.com/nburjui/orbitsim/scene"
	"github.com/nburjui/orbitsim/vec2"
)

// runTicks advances e speedFactor-scaled time for the given number of
// ticks, all on the CPU, then prints the resulting stats.
func runTicks(e *engine.Engine, speedFactor float64, ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := e.Advance(speedFactor, engine.GPUOptions{}); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
	}
	s := e.Stats()
	fmt.Printf("t=%.3f bodies=%d avg(integration=%s bvh=%s collisions=%s constraints=%s total=%s)\n",
		s.SimTime, s.ObjectCount,
		s.Integration.Average(), s.BVH.Average(), s.Collisions.Average(), s.Constraints.Average(), s.Total.Average())
	return nil
}

// runDrop drops a brick of particles under uniform gravity into a floor.
func runDrop() error {
	e, err := engine.New(config.Config{
		Window:     config.Window{Width: 400, Height: 400},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 0.6, GlobalGravity: [2]float64{0, -50}, DT: "auto"},
	})
	if err != nil {
		return err
	}
	brick := scene.NewBrick(vec2.New(100, 250), vec2.New(200, 80))
	if _, err := brick.Generate(e); err != nil {
		return err
	}
	return runTicks(e, 1, 500)
}

// runOrbit sends a ring of probes around a single massive planet.
func runOrbit() error {
	e, err := engine.New(config.Config{
		Window:     config.Window{Width: 1000, Height: 1000},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 1, GravitationalConstant: 500, DT: "auto"},
	})
	if err != nil {
		return err
	}
	planet := body.New(vec2.New(500, 500))
	planet.IsPlanet = true
	planet.Mass = 1e5
	if _, err := e.AddBody(planet); err != nil {
		return err
	}

	const probes = 12
	const radius = 300.0
	for i := 0; i < probes; i++ {
		angle := 2 * math.Pi * float64(i) / probes
		offset := vec2.New(radius*math.Cos(angle), radius*math.Sin(angle))
		speed := math.Sqrt(500 * 1e5 / radius)
		tangent := vec2.New(-math.Sin(angle), math.Cos(angle)).Scale(speed)

		probe := body.New(planet.Position.Add(offset))
		probe.Velocity = tangent
		probe.Mass, probe.Radius = 1, 3
		if _, err := e.AddBody(probe); err != nil {
			return err
		}
	}
	return runTicks(e, 1, 1000)
}

// runFill collides two balls of particles inside a box and lets them settle.
func runFill() error {
	e, err := engine.New(config.Config{
		Window:     config.Window{Width: 400, Height: 400},
		Simulation: config.Simulation{SpeedFactor: 1, RestitutionCoefficient: 0.4, GlobalGravity: [2]float64{0, -20}, DT: "auto"},
	})
	if err != nil {
		return err
	}
	left := scene.NewBall(vec2.New(100, 300), 40)
	left.Velocity = vec2.New(30, 0)
	if _, err := left.Generate(e); err != nil {
		return err
	}
	right := scene.NewBall(vec2.New(300, 300), 40)
	right.Velocity = vec2.New(-30, 0)
	if _, err := right.Generate(e); err != nil {
		return err
	}
	return runTicks(e, 1, 800)
}
