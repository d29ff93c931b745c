// Package config loads and validates the YAML file that configures a
// simulation run: window size, simulation tuning, which demo scene to
// build, and how bodies are colored.
//
// Package config is provided as part of the orbitsim particle-physics
// engine.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TimeLimitAction selects what happens once simulation.time_limit elapses.
type TimeLimitAction string

const (
	TimeLimitExit  TimeLimitAction = "exit"
	TimeLimitPause TimeLimitAction = "pause"
)

// ColorSource selects how a body's render color is chosen.
type ColorSource string

const (
	ColorSourceDemo     ColorSource = "demo"
	ColorSourceVelocity ColorSource = "velocity"
)

// Window holds the display surface size.
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Simulation holds the tunables for the physics pipeline itself.
type Simulation struct {
	// SpeedFactor scales simulated time per real second.
	SpeedFactor float64 `yaml:"speed_factor"`

	// RestitutionCoefficient is the default coefficient of restitution
	// applied to non-planet collisions.
	RestitutionCoefficient float64 `yaml:"restitution_coefficient"`

	// GravitationalConstant is G, used by the gravity field.
	GravitationalConstant float64 `yaml:"gravitational_constant"`

	// GlobalGravity is a uniform acceleration applied to every body in
	// addition to the planet-sourced field, expressed as [x, y].
	GlobalGravity [2]float64 `yaml:"global_gravity"`

	// DT selects the timestep mode: either the literal string "auto" for
	// the adaptive timestep, or a positive number of seconds for a fixed
	// timestep.
	DT string `yaml:"dt"`

	TimeLimit       *float64         `yaml:"time_limit,omitempty"`
	TimeLimitAction *TimeLimitAction `yaml:"time_limit_action,omitempty"`
	JerkAt          *float64         `yaml:"jerk_at,omitempty"`
}

// Demo selects which built-in scene to construct at startup.
type Demo struct {
	ObjectRadius  float64 `yaml:"object_radius"`
	EnablePlanets bool    `yaml:"enable_planets"`
	EnableBrick   bool    `yaml:"enable_brick"`
	EnableBall    bool    `yaml:"enable_ball"`
}

// Rendering selects presentation-only options.
type Rendering struct {
	ColorSource ColorSource `yaml:"color_source"`
}

// Config is the root of a simulation configuration file.
type Config struct {
	Window     Window     `yaml:"window"`
	Simulation Simulation `yaml:"simulation"`
	Demo       Demo       `yaml:"demo"`
	Rendering  Rendering  `yaml:"rendering"`
}

// Load reads, parses, and validates the YAML configuration file at path.
func Load(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: open %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: validate %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field that Load cannot verify structurally.
func (c Config) Validate() error {
	if c.Window.Width <= 0 {
		return fieldError("window.width", "must be positive")
	}
	if c.Window.Height <= 0 {
		return fieldError("window.height", "must be positive")
	}
	if c.Simulation.SpeedFactor <= 0 {
		return fieldError("simulation.speed_factor", "must be positive")
	}
	if c.Simulation.RestitutionCoefficient < 0 || c.Simulation.RestitutionCoefficient > 1 {
		return fieldError("simulation.restitution_coefficient", "must be in range [0.0, 1.0]")
	}
	if c.Simulation.DT != "auto" {
		if err := positiveFloatString(c.Simulation.DT); err != nil {
			return fieldError("simulation.dt", `must be "auto" or a positive number`)
		}
	}
	if c.Simulation.TimeLimit != nil && *c.Simulation.TimeLimit <= 0 {
		return fieldError("simulation.time_limit", "must be positive")
	}
	if c.Simulation.JerkAt != nil && *c.Simulation.JerkAt <= 0 {
		return fieldError("simulation.jerk_at", "must be positive")
	}
	if c.Simulation.TimeLimitAction != nil {
		switch *c.Simulation.TimeLimitAction {
		case TimeLimitExit, TimeLimitPause:
		default:
			return fieldError("simulation.time_limit_action", `must be "exit" or "pause"`)
		}
	}
	if c.Demo.ObjectRadius <= 0 {
		return fieldError("demo.object_radius", "must be positive")
	}
	switch c.Rendering.ColorSource {
	case ColorSourceDemo, ColorSourceVelocity, "":
	default:
		return fieldError("rendering.color_source", `must be "demo" or "velocity"`)
	}
	return nil
}

func fieldError(field, reason string) error {
	return fmt.Errorf("%s %s", field, reason)
}

func positiveFloatString(s string) error {
	var v float64
	if _, err := fmt.Sscanf(s, "%g", &v); err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("not positive")
	}
	return nil
}
