package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/core/ecs"
)

var (
	ErrInvalidMass   = errors.New("mass must be positive and finite")
	ErrInvalidThrust = errors.New("max thrust must be positive and finite")
	ErrNonFinite     = errors.New("value must be finite")
)

// Forward is the body-local axis thrust is applied along. The game plays in
// the XY plane; Z stays zero unless a scenario sets it.
var Forward = mgl64.Vec3{0, 1, 0}

// Engine is the optional propulsion attached to ships and missiles.
type Engine struct {
	Fuel      float64 // informational, never consumed by the force model
	MaxThrust float64 // force units
	Throttle  Throttle
}

// NewEngine validates maxThrust. A nil throttle becomes Variable(0).
func NewEngine(fuel, maxThrust float64, throttle Throttle) (*Engine, error) {
	if throttle == nil {
		throttle = DefaultThrottle()
	}
	e := &Engine{Fuel: fuel, MaxThrust: maxThrust, Throttle: throttle}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) Validate() error {
	if !(e.MaxThrust > 0) || math.IsInf(e.MaxThrust, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidThrust, e.MaxThrust)
	}
	return ValidateThrottle(e.Throttle)
}

// Body is one point mass. Acceleration is the value computed by the last
// integration and is kept for inspection only.
type Body struct {
	ID           ecs.EntityID
	Mass         float64
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
	Orientation  mgl64.Quat
	Engine       *Engine
}

// NewBody builds a resting body with identity orientation. Mass is checked
// here so the integrator never divides by zero.
func NewBody(id ecs.EntityID, mass float64, position mgl64.Vec3) (Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return Body{}, fmt.Errorf("%w: %v", ErrInvalidMass, mass)
	}
	if !FiniteVec(position) {
		return Body{}, fmt.Errorf("%w: position %v", ErrNonFinite, position)
	}
	return Body{
		ID:          id,
		Mass:        mass,
		Position:    position,
		Orientation: mgl64.QuatIdent(),
	}, nil
}

func (b Body) WithVelocity(v mgl64.Vec3) Body {
	b.Velocity = v
	return b
}

// Clone returns a copy that shares no memory with b.
func (b Body) Clone() Body {
	if b.Engine != nil {
		e := *b.Engine
		b.Engine = &e
	}
	return b
}

// FiniteVec reports whether every component of v is a finite number.
func FiniteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// CloneAll deep-copies a body set.
func CloneAll(bodies []Body) []Body {
	out := make([]Body, len(bodies))
	for i := range bodies {
		out[i] = bodies[i].Clone()
	}
	return out
}

// Heading returns the orientation that points Forward at deg degrees
// counter-clockwise about +Z.
func Heading(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), mgl64.Vec3{0, 0, 1})
}
