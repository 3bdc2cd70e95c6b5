// Package projection forecasts where every body will be over a short
// look-ahead window. It steps a private copy of the live set with the same
// simulator the live tick uses and never writes back.
package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/physics"
)

var ErrInvalidParams = errors.New("invalid projection parameters")

// Params controls the look-ahead window.
type Params struct {
	Horizon    float64 // seconds of simulated time
	Resolution int     // steps per simulated second
}

// DefaultParams matches the in-game course display: one second at five
// steps per second.
func DefaultParams() Params {
	return Params{Horizon: 1, Resolution: 5}
}

// MaxSteps bounds horizon*resolution for a single look-ahead.
const MaxSteps = 1 << 16

// Steps is the number of integration steps in the window, limited to
// [0, MaxSteps].
func (p Params) Steps() int {
	n := math.Round(p.Horizon * float64(p.Resolution))
	switch {
	case !(n > 0):
		return 0
	case n > MaxSteps:
		return MaxSteps
	}
	return int(n)
}

// Dt is the fixed step length in seconds.
func (p Params) Dt() float64 {
	return 1 / float64(p.Resolution)
}

func (p Params) Validate() error {
	if p.Resolution <= 0 {
		return fmt.Errorf("%w: resolution %d must be positive", ErrInvalidParams, p.Resolution)
	}
	if p.Horizon < 0 || math.IsNaN(p.Horizon) || math.IsInf(p.Horizon, 0) {
		return fmt.Errorf("%w: horizon %v must be finite and non-negative", ErrInvalidParams, p.Horizon)
	}
	if n := math.Round(p.Horizon * float64(p.Resolution)); n > MaxSteps {
		return fmt.Errorf("%w: horizon*resolution %v exceeds %d steps", ErrInvalidParams, n, MaxSteps)
	}
	return nil
}

// Projection is a flattened list of predicted positions. Points are ordered
// step-major: every body's position after step 1, then after step 2, and so
// on, with bodies in input order inside each step.
type Projection struct {
	Points []mgl64.Vec3
	Steps  int
	Bodies int
}

// Len is the number of points, always Steps*Bodies.
func (p Projection) Len() int { return len(p.Points) }

// Projector runs look-aheads with a fixed simulator and window.
type Projector struct {
	sim    physics.Simulator
	params Params
}

func NewProjector(sim physics.Simulator, params Params) (*Projector, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Projector{sim: sim, params: params}, nil
}

func (p *Projector) Params() Params { return p.params }

// Project deep-copies live once and steps the copy forward. live is never
// modified. Throttle settings are held for the whole window and fuel is not
// consumed. Identical inputs give identical output.
func (p *Projector) Project(live []physics.Body) Projection {
	steps := p.params.Steps()
	out := Projection{Steps: steps, Bodies: len(live)}
	if len(live) == 0 || steps == 0 {
		return out
	}
	if steps <= math.MaxInt/len(live) {
		out.Points = make([]mgl64.Vec3, 0, steps*len(live))
	}

	dt := p.params.Dt()
	bodies := physics.CloneAll(live)
	for s := 0; s < steps; s++ {
		p.sim.Step(bodies, dt)
		for i := range bodies {
			out.Points = append(out.Points, bodies[i].Position)
		}
	}
	return out
}
