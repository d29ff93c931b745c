package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nburjui/orbitsim/vec2"
)

func TestStepReducesToRestAtZeroVelocityZeroAccel(t *testing.T) {
	p, v := Step(vec2.New(1, 2), vec2.V{}, 0.1, func(vec2.V) vec2.V { return vec2.V{} })
	require.Equal(t, vec2.New(1, 2), p)
	require.Equal(t, vec2.V{}, v)
}

func TestCircularOrbitEnergyStaysBounded(t *testing.T) {
	const (
		G      = 1.0
		mass   = 1000.0
		radius = 10.0
	)
	speed := math.Sqrt(G * mass / radius)

	position := vec2.New(radius, 0)
	velocity := vec2.New(0, speed)

	accel := func(p vec2.V) vec2.V {
		offset := p.Neg() // toward origin
		dist := offset.Length()
		return offset.Normalize().Scale(G * mass / (dist * dist))
	}

	energyAt := func(p, v vec2.V) float64 {
		return 0.5*v.LengthSquared() - G*mass/p.Length()
	}

	initial := energyAt(position, velocity)
	const dt = 0.01
	const ticks = 10000

	for i := 0; i < ticks; i++ {
		position, velocity = Step(position, velocity, dt, accel)
	}

	final := energyAt(position, velocity)
	relativeDrift := math.Abs((final - initial) / initial)
	require.Less(t, relativeDrift, 0.01, "energy drifted by more than 1%% over %d ticks", ticks)
}

func TestOrbitStaysNearOriginalRadius(t *testing.T) {
	const (
		G      = 1.0
		mass   = 1000.0
		radius = 10.0
	)
	speed := math.Sqrt(G * mass / radius)
	position := vec2.New(radius, 0)
	velocity := vec2.New(0, speed)

	accel := func(p vec2.V) vec2.V {
		offset := p.Neg()
		dist := offset.Length()
		return offset.Normalize().Scale(G * mass / (dist * dist))
	}

	const dt = 0.01
	for i := 0; i < 1000; i++ {
		position, velocity = Step(position, velocity, dt, accel)
	}
	require.InDelta(t, radius, position.Length(), 0.5, "orbit radius drifted")
}
