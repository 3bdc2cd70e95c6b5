package physics

import "github.com/go-gl/mathgl/mgl64"

// Integrate advances b by dt with semi-implicit Euler: velocity first, then
// position from the new velocity.
func Integrate(b *Body, gravity, thrust mgl64.Vec3, dt float64) {
	total := gravity.Add(thrust)
	b.Acceleration = total.Mul(1 / b.Mass)
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}

// Simulator bundles the force model with the integration policy. The live
// tick and the look-ahead both step through it so they cannot drift apart.
type Simulator struct {
	Gravity       Gravity
	Workers       int  // >1 enables AccumulateParallel
	ClampThrottle bool // clamp Variable throttles to [0,1]
}

func NewSimulator(g Gravity) Simulator {
	return Simulator{Gravity: g, Workers: 1}
}

// Forces runs the gravity pass over the whole set.
func (s Simulator) Forces(bodies []Body) ForcePass {
	if s.Workers > 1 {
		return s.Gravity.AccumulateParallel(bodies, s.Workers)
	}
	return s.Gravity.Accumulate(bodies)
}

// ThrustOn is the propulsion force on b under the simulator's throttle policy.
func (s Simulator) ThrustOn(b *Body) mgl64.Vec3 {
	if b.Engine == nil || !s.ClampThrottle {
		return Thrust(b.Orientation, b.Engine)
	}
	e := *b.Engine
	e.Throttle = Clamp(e.Throttle)
	return Thrust(b.Orientation, &e)
}

// Step computes every force from the current positions, then integrates all
// bodies. No position changes until the force pass is complete.
func (s Simulator) Step(bodies []Body, dt float64) ForcePass {
	pass := s.Forces(bodies)
	for i := range bodies {
		Integrate(&bodies[i], pass.Forces[i], s.ThrustOn(&bodies[i]), dt)
	}
	return pass
}
