// Package scene builds starting arrangements of bodies — rectangular
// "bricks" and circular "balls" of tightly packed particles — by repeatedly
// calling an Adder's AddBody. It does not touch the physics pipeline
// directly; it only decides initial positions, velocities, and colors.
//
// Package scene is provided as part of the orbitsim particle-physics engine.
package scene

import (
	"math"

	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/vec2"
)

// Adder is the subset of Engine used to place bodies; anything satisfying
// it (including a *body.Store-backed stub in tests) can receive a scene.
// AddBody only ever fails by panicking (planets must precede non-planets),
// so the error return exists purely to match Engine.AddBody's signature.
type Adder interface {
	AddBody(body.Prototype) (int, error)
}

const (
	defaultParticleRadius  = 2.0
	defaultParticleSpacing = 2.0
	defaultParticleMass    = 1.0
)

// Brick describes a rectangular grid of particles.
type Brick struct {
	Position        vec2.V
	Size            vec2.V
	Velocity        vec2.V
	ParticleRadius  float64
	ParticleSpacing float64
	ParticleMass    float64
}

// NewBrick returns a Brick with the package's default particle sizing.
func NewBrick(position, size vec2.V) Brick {
	return Brick{
		Position:        position,
		Size:            size,
		ParticleRadius:  defaultParticleRadius,
		ParticleSpacing: defaultParticleSpacing,
		ParticleMass:    defaultParticleMass,
	}
}

// Generate adds one body per grid cell and returns their ids, colored by a
// hue gradient across the brick's width.
func (b Brick) Generate(adder Adder) ([]int, error) {
	cell := b.ParticleRadius*2 + b.ParticleSpacing
	cols := int(b.Size.X / cell)
	rows := int(b.Size.Y / cell)

	var ids []int
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			position := vec2.New(
				b.Position.X+float64(i+1)*cell,
				b.Position.Y+float64(j+1)*cell,
			)
			hue := 360.0 * (position.X - b.Position.X) / b.Size.X
			color := hslToColor(hue)

			proto := body.New(position)
			proto.Velocity = b.Velocity
			proto.Radius = b.ParticleRadius
			proto.Mass = b.ParticleMass
			proto.Color = &color
			id, err := adder.AddBody(proto)
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Ball describes a disc-shaped cluster of particles.
type Ball struct {
	Position        vec2.V
	Radius          float64
	Velocity        vec2.V
	ParticleRadius  float64
	ParticleSpacing float64
	ParticleMass    float64
}

// NewBall returns a Ball with the package's default particle sizing.
func NewBall(position vec2.V, radius float64) Ball {
	return Ball{
		Position:        position,
		Radius:          radius,
		ParticleRadius:  defaultParticleRadius,
		ParticleSpacing: defaultParticleSpacing,
		ParticleMass:    defaultParticleMass,
	}
}

// Generate adds one body per lattice point inside the ball's disc and
// returns their ids, colored by a hue gradient from center to edge.
func (ball Ball) Generate(adder Adder) ([]int, error) {
	cell := ball.ParticleRadius*2 + ball.ParticleSpacing
	n := int(ball.Radius * 2 / cell)

	var ids []int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			local := vec2.New(
				-ball.Radius+float64(i)*cell,
				-ball.Radius+float64(j)*cell,
			)
			if local.Length() > ball.Radius {
				continue
			}
			position := ball.Position.Add(local)
			hue := 360.0 * local.Length() / ball.Radius
			color := hslToColor(hue)

			proto := body.New(position)
			proto.Velocity = ball.Velocity
			proto.Radius = ball.ParticleRadius
			proto.Mass = ball.ParticleMass
			proto.Color = &color
			id, err := adder.AddBody(proto)
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// hslToColor converts a fully saturated, mid-lightness HSL hue (0-360) to
// an opaque body.Color.
func hslToColor(hue float64) body.Color {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	c := 1.0               // chroma at s=1, l=0.5
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := 0.5 - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return body.Color{float32(r + m), float32(g + m), float32(b + m), 1.0}
}
