// Package engine drives the per-tick physics pipeline: adaptive timestep,
// integration, broad-phase rebuild, collision resolution, and constraints,
// in that fixed order, and exposes the read-only surface a host application
// uses to add bodies and observe results.
//
// Package engine is provided as part of the orbitsim particle-physics
// engine.
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/nburjui/orbitsim/aabb"
	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/bvh"
	"github.com/nburjui/orbitsim/collision"
	"github.com/nburjui/orbitsim/config"
	"github.com/nburjui/orbitsim/constraints"
	"github.com/nburjui/orbitsim/gravity"
	"github.com/nburjui/orbitsim/integrator"
	"github.com/nburjui/orbitsim/stats"
	"github.com/nburjui/orbitsim/vec2"
	"github.com/nburjui/orbitsim/workerpool"
)

// GPUIntegrator is satisfied by the gpu package's Device. Engine only
// depends on this narrow interface so that a host which never asks for GPU
// integration never has to link against cgo or OpenCL at all.
type GPUIntegrator interface {
	Integrate(store *body.Store, planetMasses []float64, dt float64) error
	FindCandidates(store *body.Store, maxPerBody int) ([]bvh.Pair, error)
}

// GPUOptions selects which pipeline stages run on the GPU this tick.
type GPUOptions struct {
	Integration bool
	BVH         bool
}

const defaultMaxCandidatesPerBody = 16

// Engine owns the body store and every stage of the physics pipeline.
type Engine struct {
	store  body.Store
	box    constraints.Box
	field  gravity.Field
	solver collision.Resolver
	pool   *workerpool.Pool
	rng    *rand.Rand

	fixedDT float64 // 0 means "auto"
	time    float64
	stats   stats.Stats

	gpu         GPUIntegrator
	lastGPUMode bool

	maxCandidatesPerBody int
}

// New constructs an Engine from a validated configuration. The simulation's
// constraint box is `[0, width] x [0, height]` per the window dimensions.
func New(cfg config.Config) (*Engine, error) {
	e := &Engine{
		box: constraints.Box{
			Min:         vec2.New(0, 0),
			Max:         vec2.New(float64(cfg.Window.Width), float64(cfg.Window.Height)),
			Bouncing:    true,
			Restitution: cfg.Simulation.RestitutionCoefficient,
		},
		field: gravity.New(cfg.Simulation.GravitationalConstant).
			WithGlobal(vec2.New(cfg.Simulation.GlobalGravity[0], cfg.Simulation.GlobalGravity[1])),
		solver:               collision.NewResolver(cfg.Simulation.RestitutionCoefficient),
		pool:                 workerpool.New(),
		rng:                  rand.New(rand.NewSource(1)),
		stats:                stats.NewStats(),
		maxCandidatesPerBody: defaultMaxCandidatesPerBody,
	}
	if cfg.Simulation.DT != "auto" {
		dt, err := strconv.ParseFloat(cfg.Simulation.DT, 64)
		if err != nil || dt <= 0 {
			return nil, fmt.Errorf("engine: simulation.dt %q is neither \"auto\" nor a positive number", cfg.Simulation.DT)
		}
		e.fixedDT = dt
	}
	return e, nil
}

// SetGPU attaches a GPU backend. A nil GPU (the default) means every tick
// runs on the CPU regardless of the GPUOptions passed to Advance.
func (e *Engine) SetGPU(gpu GPUIntegrator) {
	e.gpu = gpu
}

// AddBody inserts a body and returns its id. Planets must be added before
// any non-planet body; violating that is a programming error that panics
// inside the body store, not something this method recovers from.
func (e *Engine) AddBody(p body.Prototype) (int, error) {
	return e.store.Add(p), nil
}

// Bodies returns a read-only view of the current body state.
func (e *Engine) Bodies() *body.View {
	return e.store.View()
}

// Stats returns the latest per-stage timing and size statistics.
func (e *Engine) Stats() stats.Stats {
	return e.stats
}

// Time returns simulated seconds elapsed since construction.
func (e *Engine) Time() float64 {
	return e.time
}

// Constraints returns the simulation's boundary box.
func (e *Engine) Constraints() aabb.Box {
	return aabb.Box{TopLeft: e.box.Min, BottomRight: e.box.Max}
}

// Advance runs one tick: compute dt, integrate, rebuild the broad phase,
// resolve collisions, apply constraints, and update statistics. A
// transition between CPU and GPU integration clears the rolling
// integration-duration statistic, since the two backends have different
// performance characteristics and averaging across the switch would be
// misleading.
func (e *Engine) Advance(speedFactor float64, gpuOpts GPUOptions) error {
	usingGPU := e.gpu != nil && gpuOpts.Integration
	if usingGPU != e.lastGPUMode {
		e.stats.Integration = stats.NewDurationStat()
	}
	e.lastGPUMode = usingGPU

	tickStart := time.Now()

	dt := e.computeDT(speedFactor)
	e.time += dt

	integrationStart := time.Now()
	if err := e.integrate(dt, gpuOpts); err != nil {
		return err
	}
	e.stats.Integration.Update(time.Since(integrationStart))

	bvhStart := time.Now()
	candidates, err := e.findCandidates(gpuOpts)
	if err != nil {
		return err
	}
	e.stats.BVH.Update(time.Since(bvhStart))

	collisionStart := time.Now()
	aggregated := collision.Aggregate(candidates, e.rng)
	for _, pair := range aggregated {
		e.solver.Resolve(&e.store, pair)
	}
	e.stats.Collisions.Update(time.Since(collisionStart))

	constraintsStart := time.Now()
	e.box.Apply(&e.store)
	e.stats.Constraints.Update(time.Since(constraintsStart))

	e.stats.SimTime = e.time
	e.stats.ObjectCount = e.store.Len()
	e.stats.Total.Update(time.Since(tickStart))
	return nil
}

// computeDT implements the fixed/auto timestep selection: dt shrinks as
// bodies move faster or gravity grows, and never exceeds speedFactor/2.
func (e *Engine) computeDT(speedFactor float64) float64 {
	if e.fixedDT > 0 {
		return e.fixedDT
	}
	n := e.store.Len()
	if n == 0 {
		return speedFactor / 2
	}

	maxSpeed := 0.0
	minDiameter := math.Inf(1)
	maxGravitySq := 0.0
	for id := 0; id < n; id++ {
		if speed := e.store.Velocities[id].Length(); speed > maxSpeed {
			maxSpeed = speed
		}
		if diameter := 2 * e.store.Radii[id]; diameter < minDiameter {
			minDiameter = diameter
		}
		excludeID := -1
		if id < e.store.PlanetCount {
			excludeID = id
		}
		accel := e.field.PlanetSourcedAccelerationAt(&e.store, e.store.Positions[id], excludeID)
		if accelSq := accel.LengthSquared(); accelSq > maxGravitySq {
			maxGravitySq = accelSq
		}
	}
	if minDiameter <= 0 {
		minDiameter = vec2.Epsilon
	}

	vFactor := 2 * maxSpeed / minDiameter
	gFactor := math.Max(math.Sqrt(math.Sqrt(maxGravitySq)), e.field.Global.Length()) / math.Sqrt(minDiameter)

	return speedFactor / 2 * math.Min(1, 1/(vFactor+gFactor))
}

// integrate advances every body's position and velocity by dt using a
// snapshot of the pre-tick planet positions, so every body in the tick sees
// the same gravitational field regardless of array order.
func (e *Engine) integrate(dt float64, gpuOpts GPUOptions) error {
	if e.gpu != nil && gpuOpts.Integration {
		return e.gpu.Integrate(&e.store, e.store.PlanetMasses(), dt)
	}

	n := e.store.Len()
	planetSnapshot := make([]vec2.V, e.store.PlanetCount)
	copy(planetSnapshot, e.store.Positions[:e.store.PlanetCount])
	planetMasses := e.store.PlanetMasses()

	newPositions := make([]vec2.V, n)
	newVelocities := make([]vec2.V, n)

	e.pool.For(n, func(id int) {
		excludeID := -1
		if id < e.store.PlanetCount {
			excludeID = id
		}
		accel := func(p vec2.V) vec2.V {
			return e.field.AccelerationFromSnapshot(planetSnapshot, planetMasses, p, excludeID)
		}
		newPositions[id], newVelocities[id] = integrator.Step(e.store.Positions[id], e.store.Velocities[id], dt, accel)
	})

	copy(e.store.Positions, newPositions)
	copy(e.store.Velocities, newVelocities)
	return nil
}

// findCandidates rebuilds the broad phase and returns overlapping leaf
// pairs, either from the CPU BVH or the GPU candidate kernel.
func (e *Engine) findCandidates(gpuOpts GPUOptions) ([]bvh.Pair, error) {
	if e.gpu != nil && gpuOpts.BVH {
		return e.gpu.FindCandidates(&e.store, e.maxCandidatesPerBody)
	}
	boxes := make([]aabb.Box, e.store.Len())
	for id := range boxes {
		boxes[id] = aabb.Of(e.store.Positions[id], e.store.Radii[id])
	}
	tree := bvh.Build(boxes, e.pool)
	return tree.FindPairs(), nil
}
