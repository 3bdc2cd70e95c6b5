package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBody(t *testing.T, id uint32, mass float64, pos mgl64.Vec3) Body {
	t.Helper()
	b, err := NewBody(ecs.NewEntityID(id, 1), mass, pos)
	require.NoError(t, err)
	return b
}

func assertVecInDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v vs %v", i, want, got)
	}
}

func TestNewBody_RejectsInvalidMass(t *testing.T) {
	for _, m := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewBody(ecs.NewEntityID(1, 1), m, mgl64.Vec3{})
		assert.ErrorIs(t, err, ErrInvalidMass, "mass %v", m)
	}
}

func TestNewBody_RejectsNonFinitePosition(t *testing.T) {
	for _, pos := range []mgl64.Vec3{{math.NaN(), 0, 0}, {0, math.Inf(-1), 0}, {0, 0, math.Inf(1)}} {
		_, err := NewBody(ecs.NewEntityID(1, 1), 1, pos)
		assert.ErrorIs(t, err, ErrNonFinite, "position %v", pos)
	}
}

func TestValidateThrottle(t *testing.T) {
	assert.NoError(t, ValidateThrottle(Variable{Amount: 7}))
	assert.NoError(t, ValidateThrottle(Fixed{On: true}))
	assert.NoError(t, ValidateThrottle(nil))
	assert.ErrorIs(t, ValidateThrottle(Variable{Amount: math.NaN()}), ErrNonFinite)
	assert.ErrorIs(t, ValidateThrottle(Variable{Amount: math.Inf(1)}), ErrNonFinite)

	_, err := NewEngine(0, 10, Variable{Amount: math.NaN()})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(10, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidThrust)

	e, err := NewEngine(10, 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, Variable{Amount: 0}, e.Throttle, "default throttle is Variable(0)")
}

func TestThrottleMagnitude(t *testing.T) {
	const maxThrust = 1000.0
	assert.Equal(t, maxThrust, Magnitude(Fixed{On: true}, maxThrust))
	assert.Equal(t, 0.0, Magnitude(Fixed{On: false}, maxThrust))
	assert.Equal(t, 0.0, Magnitude(Variable{Amount: 0}, maxThrust))
	assert.Equal(t, maxThrust/2, Magnitude(Variable{Amount: 0.5}, maxThrust))
	assert.Equal(t, 0.0, Magnitude(nil, maxThrust))
	assert.Equal(t, 1.5*maxThrust, Magnitude(Variable{Amount: 1.5}, maxThrust), "out of range amounts extrapolate")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, Variable{Amount: 1}, Clamp(Variable{Amount: 3}))
	assert.Equal(t, Variable{Amount: 0}, Clamp(Variable{Amount: -2}))
	assert.Equal(t, Variable{Amount: 0.25}, Clamp(Variable{Amount: 0.25}))
	assert.Equal(t, Fixed{On: true}, Clamp(Fixed{On: true}))
}

func TestThrust_DirectionAndMagnitude(t *testing.T) {
	e := &Engine{MaxThrust: 1000, Throttle: Fixed{On: true}}

	f := Thrust(mgl64.QuatIdent(), e)
	assert.Equal(t, mgl64.Vec3{0, 1000, 0}, f, "identity orientation thrusts along +Y")

	f = Thrust(Heading(90), e)
	assertVecInDelta(t, mgl64.Vec3{-1000, 0, 0}, f, 1e-9)
	assert.InDelta(t, 1000, f.Len(), 1e-9)

	e.Throttle = Variable{Amount: 0.5}
	assert.InDelta(t, 500, Thrust(Heading(33), e).Len(), 1e-9)

	assert.Equal(t, mgl64.Vec3{}, Thrust(mgl64.QuatIdent(), nil), "no engine, no thrust")
}

func TestTurn(t *testing.T) {
	q := Turn(mgl64.QuatIdent(), 1, 0.5) // quarter turn left
	assertVecInDelta(t, mgl64.Vec3{-1, 0, 0}, q.Rotate(Forward), 1e-9)

	assert.Equal(t, mgl64.QuatIdent(), Turn(mgl64.QuatIdent(), 0, 1))
}

func TestPairForce_TwoPlanetScenario(t *testing.T) {
	g := DefaultGravity()
	a := mustBody(t, 1, 8e15, mgl64.Vec3{0, -100, 0})
	b := mustBody(t, 2, 8e15, mgl64.Vec3{0, 100, 0})

	f, ok := g.PairForce(&a, &b)
	require.True(t, ok)

	want := 6.67430e-11 * 8e15 * 8e15 / (200.0 * 200.0)
	assert.InEpsilon(t, 1.0679e17, want, 1e-4)
	assert.InEpsilon(t, want, f.Len(), 1e-12)
	assert.Greater(t, f.Y(), 0.0, "force on the lower body points +y")
	assert.Equal(t, 0.0, f.X())
	assert.Equal(t, 0.0, f.Z())
}

func TestAccumulate_NewtonsThirdLawTwoBodies(t *testing.T) {
	g := DefaultGravity()
	bodies := []Body{
		mustBody(t, 1, 5e14, mgl64.Vec3{10, -30, 0}),
		mustBody(t, 2, 3e12, mgl64.Vec3{-250, 75, 0}),
	}

	pass := g.Accumulate(bodies)
	require.Len(t, pass.Forces, 2)
	assert.Equal(t, pass.Forces[0], pass.Forces[1].Mul(-1), "forces are exact negations")
	assert.Zero(t, pass.Coincident)
}

func TestAccumulate_NewtonsThirdLawManyBodies(t *testing.T) {
	g := DefaultGravity()
	bodies := []Body{
		mustBody(t, 1, 8e15, mgl64.Vec3{0, -100, 0}),
		mustBody(t, 2, 8e15, mgl64.Vec3{0, 100, 0}),
		mustBody(t, 3, 100, mgl64.Vec3{500, 500, 0}),
		mustBody(t, 4, 2e13, mgl64.Vec3{-300, 40, 0}),
		mustBody(t, 5, 7e10, mgl64.Vec3{120, -420, 0}),
	}

	pass := g.Accumulate(bodies)

	// each body's total must equal the sum of its pair forces
	var net mgl64.Vec3
	for i := range bodies {
		var want mgl64.Vec3
		for j := range bodies {
			if i == j {
				continue
			}
			f, ok := g.PairForce(&bodies[i], &bodies[j])
			require.True(t, ok)
			want = want.Add(f)
		}
		tol := want.Len()*1e-12 + 1e-6
		assertVecInDelta(t, want, pass.Forces[i], tol)
		net = net.Add(pass.Forces[i])
	}

	scale := pass.Forces[0].Len()
	assert.InDelta(t, 0, net.Len()/scale, 1e-12, "internal forces sum to zero")
}

func TestAccumulate_InverseSquare(t *testing.T) {
	g := DefaultGravity()
	mag := func(d float64) float64 {
		bodies := []Body{
			mustBody(t, 1, 1e12, mgl64.Vec3{0, 0, 0}),
			mustBody(t, 2, 3e12, mgl64.Vec3{d, 0, 0}),
		}
		return g.Accumulate(bodies).Forces[0].Len()
	}

	base := mag(100)
	assert.InEpsilon(t, base/4, mag(200), 1e-12, "doubling distance quarters force")
	assert.InEpsilon(t, base*4, mag(50), 1e-12, "halving distance quadruples force")
}

func TestAccumulate_CoincidentBodiesAreSkipped(t *testing.T) {
	g := DefaultGravity()
	bodies := []Body{
		mustBody(t, 1, 1e10, mgl64.Vec3{5, 5, 0}),
		mustBody(t, 2, 1e10, mgl64.Vec3{5, 5, 0}),
		mustBody(t, 3, 1e10, mgl64.Vec3{5, 105, 0}),
	}

	pass := g.Accumulate(bodies)
	assert.Equal(t, 1, pass.Coincident)
	for _, f := range pass.Forces {
		assert.False(t, math.IsNaN(f.X()) || math.IsNaN(f.Y()) || math.IsNaN(f.Z()))
	}
	assert.Greater(t, pass.Forces[0].Y(), 0.0, "still attracted by the third body")
}

func TestPairForce_MinDistanceFloor(t *testing.T) {
	g := Gravity{G: G, MinDistance: 10}
	a := mustBody(t, 1, 1e10, mgl64.Vec3{0, 0, 0})
	near := mustBody(t, 2, 1e10, mgl64.Vec3{0.5, 0, 0})
	floor := mustBody(t, 3, 1e10, mgl64.Vec3{10, 0, 0})

	fNear, ok := g.PairForce(&a, &near)
	require.True(t, ok)
	fFloor, ok := g.PairForce(&a, &floor)
	require.True(t, ok)

	assert.InEpsilon(t, fFloor.Len(), fNear.Len(), 1e-12)
	assert.Greater(t, fNear.X(), 0.0)
}

func TestAccumulateParallel_MatchesSequential(t *testing.T) {
	g := DefaultGravity()
	var bodies []Body
	for i := 0; i < 23; i++ {
		angle := float64(i) * 0.7
		pos := mgl64.Vec3{math.Cos(angle) * float64(100+i*13), math.Sin(angle) * float64(100+i*7), 0}
		bodies = append(bodies, mustBody(t, uint32(i+1), 1e12*float64(i+1), pos))
	}

	seq := g.Accumulate(bodies)
	for _, workers := range []int{2, 3, 8, 64} {
		par := g.AccumulateParallel(bodies, workers)
		require.Len(t, par.Forces, len(bodies))
		for i := range bodies {
			assertVecInDelta(t, seq.Forces[i], par.Forces[i], seq.Forces[i].Len()*1e-12)
		}

		again := g.AccumulateParallel(bodies, workers)
		assert.Equal(t, par.Forces, again.Forces, "parallel pass is deterministic for %d workers", workers)
	}
}

func TestIntegrate_IsolatedBodyStaysPut(t *testing.T) {
	sim := NewSimulator(DefaultGravity())
	b := mustBody(t, 1, 42, mgl64.Vec3{3, 4, 0})
	bodies := []Body{b}

	for _, dt := range []float64{0, 0.016, 1, 1000} {
		sim.Step(bodies, dt)
		assert.Equal(t, mgl64.Vec3{3, 4, 0}, bodies[0].Position)
		assert.Equal(t, mgl64.Vec3{}, bodies[0].Acceleration)
	}

	e, err := NewEngine(0, 50, nil)
	require.NoError(t, err)
	bodies[0].Engine = e
	sim.Step(bodies, 1)
	assert.Equal(t, mgl64.Vec3{3, 4, 0}, bodies[0].Position, "Variable(0) engine adds no force")
}

func TestIntegrate_SemiImplicitEuler(t *testing.T) {
	b := mustBody(t, 1, 2, mgl64.Vec3{0, 0, 0}).WithVelocity(mgl64.Vec3{1, 0, 0})

	Integrate(&b, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 2, 0}, 0.5)

	assert.Equal(t, mgl64.Vec3{2, 1, 0}, b.Acceleration)
	assert.Equal(t, mgl64.Vec3{2, 0.5, 0}, b.Velocity)
	assert.Equal(t, mgl64.Vec3{1, 0.25, 0}, b.Position, "position uses the updated velocity")
}

func TestSimulator_ClampThrottle(t *testing.T) {
	b := mustBody(t, 1, 1, mgl64.Vec3{})
	b.Engine = &Engine{MaxThrust: 10, Throttle: Variable{Amount: 2}}

	loose := NewSimulator(DefaultGravity())
	assert.InDelta(t, 20, loose.ThrustOn(&b).Len(), 1e-12)

	strict := loose
	strict.ClampThrottle = true
	assert.InDelta(t, 10, strict.ThrustOn(&b).Len(), 1e-12)
	assert.Equal(t, Variable{Amount: 2}, b.Engine.Throttle, "clamping does not rewrite the engine")
}

func TestSimulator_StepUsesOneSnapshot(t *testing.T) {
	sim := NewSimulator(DefaultGravity())
	bodies := []Body{
		mustBody(t, 1, 8e15, mgl64.Vec3{0, -100, 0}).WithVelocity(mgl64.Vec3{40, 0, 0}),
		mustBody(t, 2, 8e15, mgl64.Vec3{0, 100, 0}).WithVelocity(mgl64.Vec3{-40, 0, 0}),
	}

	sim.Step(bodies, 0.2)

	// symmetric setup stays symmetric only if both forces came from the
	// same pre-step positions
	assert.Equal(t, bodies[0].Position.Mul(-1), bodies[1].Position)
	assert.Equal(t, bodies[0].Acceleration.Mul(-1), bodies[1].Acceleration)
}

func TestBody_CloneIsDeep(t *testing.T) {
	b := mustBody(t, 1, 10, mgl64.Vec3{1, 2, 3})
	b.Engine = &Engine{MaxThrust: 5, Throttle: Fixed{On: true}}

	c := b.Clone()
	c.Engine.Throttle = Fixed{On: false}
	c.Position = mgl64.Vec3{}

	assert.Equal(t, Fixed{On: true}, b.Engine.Throttle)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, b.Position)
}
