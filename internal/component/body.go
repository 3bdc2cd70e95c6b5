package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/core/ecs"
)

// Kind classifies a body for display and scenario validation. The force
// model treats every kind the same.
type Kind string

const (
	KindPlanet  Kind = "planet"
	KindShip    Kind = "ship"
	KindMissile Kind = "missile"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindPlanet, KindShip, KindMissile:
		return k, nil
	}
	return "", fmt.Errorf("unknown body kind %q", s)
}

// Meta names an entity. Every body has one.
type Meta struct {
	Name string
	Kind Kind
}

// Kinematics is the integrated state of a body.
// Pure data; PhysicsSystem is the only writer after spawn.
type Kinematics struct {
	Mass         float64
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3 // from the last live step
	Orientation  mgl64.Quat
}

// AstroObject marks a planet and carries its display radius.
type AstroObject struct {
	Radius float64
}

// Missile is a ship with a target and a blast radius. No homing; the target
// is informational.
type Missile struct {
	Target      ecs.EntityID // zero when untargeted
	BlastRadius float64
}

// Autopilot binds a body to a Lua function that resolves its controls.
type Autopilot struct {
	Function string
}

// Marker is one projected trajectory point. Position is its only state.
type Marker struct {
	Position mgl64.Vec3
}
