package data

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/component"
	"github.com/staws/sim/internal/physics"
	"github.com/staws/sim/internal/world"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Vec is a position or velocity written as [x, y] or [x, y, z].
type Vec []float64

func (v Vec) vec3() (mgl64.Vec3, error) {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return mgl64.Vec3{}, fmt.Errorf("%w: component %v", physics.ErrNonFinite, c)
		}
	}
	switch len(v) {
	case 0:
		return mgl64.Vec3{}, nil
	case 2:
		return mgl64.Vec3{v[0], v[1], 0}, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("vector needs 2 or 3 components, got %d", len(v))
}

// ThrottleEntry selects exactly one throttle mode.
type ThrottleEntry struct {
	Fixed    *bool    `yaml:"fixed"`
	Variable *float64 `yaml:"variable"`
}

func (t *ThrottleEntry) throttle() (physics.Throttle, error) {
	if t == nil {
		return physics.DefaultThrottle(), nil
	}
	switch {
	case t.Fixed != nil && t.Variable != nil:
		return nil, errors.New("throttle sets both fixed and variable")
	case t.Fixed != nil:
		return physics.Fixed{On: *t.Fixed}, nil
	case t.Variable != nil:
		return physics.Variable{Amount: *t.Variable}, nil
	}
	return nil, errors.New("throttle sets neither fixed nor variable")
}

type EngineEntry struct {
	Fuel      float64        `yaml:"fuel"`
	MaxThrust float64        `yaml:"max_thrust"`
	Throttle  *ThrottleEntry `yaml:"throttle"`
}

type MissileEntry struct {
	Target      string  `yaml:"target"`
	BlastRadius float64 `yaml:"blast_radius"`
}

// BodyEntry is one body in a scenario file.
type BodyEntry struct {
	Name      string        `yaml:"name"`
	Kind      string        `yaml:"kind"`
	Mass      float64       `yaml:"mass"`
	Position  Vec           `yaml:"position"`
	Velocity  Vec           `yaml:"velocity"`
	Heading   float64       `yaml:"heading"` // degrees
	Radius    float64       `yaml:"radius"`
	Engine    *EngineEntry  `yaml:"engine"`
	Autopilot string        `yaml:"autopilot"`
	Missile   *MissileEntry `yaml:"missile"`
}

// Scenario is the initial body population.
type Scenario struct {
	Name   string      `yaml:"name"`
	Bodies []BodyEntry `yaml:"bodies"`

	specs []world.BodySpec
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Count returns the number of bodies.
func (s *Scenario) Count() int { return len(s.Bodies) }

// Specs returns spawn specs in file order. Missile targets always refer to
// an earlier entry, so spawning in this order resolves every target.
func (s *Scenario) Specs() []world.BodySpec {
	out := make([]world.BodySpec, len(s.specs))
	copy(out, s.specs)
	return out
}

func (s *Scenario) build() error {
	if len(s.Bodies) == 0 {
		return fmt.Errorf("%w: %q has no bodies", ErrInvalidScenario, s.Name)
	}
	seen := make(map[string]bool, len(s.Bodies))
	s.specs = make([]world.BodySpec, 0, len(s.Bodies))
	for i := range s.Bodies {
		spec, err := s.Bodies[i].spec(seen)
		if err != nil {
			return fmt.Errorf("%w: body %d (%s): %w", ErrInvalidScenario, i, s.Bodies[i].Name, err)
		}
		seen[spec.Name] = true
		s.specs = append(s.specs, spec)
	}
	return nil
}

func (e *BodyEntry) spec(seen map[string]bool) (world.BodySpec, error) {
	if e.Name == "" {
		return world.BodySpec{}, errors.New("missing name")
	}
	if seen[e.Name] {
		return world.BodySpec{}, errors.New("duplicate name")
	}
	kind, err := component.ParseKind(e.Kind)
	if err != nil {
		return world.BodySpec{}, err
	}
	if !(e.Mass > 0) || math.IsInf(e.Mass, 0) {
		return world.BodySpec{}, fmt.Errorf("%w: %v", physics.ErrInvalidMass, e.Mass)
	}
	if math.IsNaN(e.Heading) || math.IsInf(e.Heading, 0) {
		return world.BodySpec{}, fmt.Errorf("%w: heading %v", physics.ErrNonFinite, e.Heading)
	}
	pos, err := e.Position.vec3()
	if err != nil {
		return world.BodySpec{}, fmt.Errorf("position: %w", err)
	}
	vel, err := e.Velocity.vec3()
	if err != nil {
		return world.BodySpec{}, fmt.Errorf("velocity: %w", err)
	}

	spec := world.BodySpec{
		Name:      e.Name,
		Kind:      kind,
		Mass:      e.Mass,
		Position:  pos,
		Velocity:  vel,
		Heading:   e.Heading,
		Radius:    e.Radius,
		Autopilot: e.Autopilot,
	}

	if e.Engine != nil {
		th, err := e.Engine.Throttle.throttle()
		if err != nil {
			return world.BodySpec{}, err
		}
		eng, err := physics.NewEngine(e.Engine.Fuel, e.Engine.MaxThrust, th)
		if err != nil {
			return world.BodySpec{}, err
		}
		spec.Engine = eng
	}

	if e.Missile != nil {
		if kind != component.KindMissile {
			return world.BodySpec{}, fmt.Errorf("missile block on %s body", kind)
		}
		if e.Missile.Target != "" {
			if e.Missile.Target == e.Name {
				return world.BodySpec{}, errors.New("missile targets itself")
			}
			if !seen[e.Missile.Target] {
				return world.BodySpec{}, fmt.Errorf("target %q must be listed before the missile", e.Missile.Target)
			}
		}
		spec.Target = e.Missile.Target
		spec.BlastRadius = e.Missile.BlastRadius
	}
	return spec, nil
}
