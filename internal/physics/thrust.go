package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Throttle is the engine control setting: either Fixed (full burn or off) or
// Variable (a fraction of max thrust). The set of variants is closed.
type Throttle interface {
	isThrottle()
}

// Fixed is an on/off engine.
type Fixed struct {
	On bool
}

// Variable scales max thrust by Amount. The intended domain is [0,1]; values
// outside it are extrapolated linearly unless the simulator clamps them.
type Variable struct {
	Amount float64
}

func (Fixed) isThrottle()    {}
func (Variable) isThrottle() {}

func DefaultThrottle() Throttle { return Variable{Amount: 0} }

// Magnitude is the thrust produced by t on an engine rated maxThrust.
func Magnitude(t Throttle, maxThrust float64) float64 {
	switch t := t.(type) {
	case Fixed:
		if t.On {
			return maxThrust
		}
		return 0
	case Variable:
		return t.Amount * maxThrust
	}
	// nil behaves like the default Variable(0)
	return 0
}

// ValidateThrottle rejects a Variable throttle whose amount is NaN or
// infinite. Out-of-range finite amounts are allowed.
func ValidateThrottle(t Throttle) error {
	if v, ok := t.(Variable); ok && (math.IsNaN(v.Amount) || math.IsInf(v.Amount, 0)) {
		return fmt.Errorf("%w: throttle %v", ErrNonFinite, v.Amount)
	}
	return nil
}

// Clamp limits a Variable throttle to [0,1]. Fixed is returned unchanged.
func Clamp(t Throttle) Throttle {
	v, ok := t.(Variable)
	if !ok {
		return t
	}
	v.Amount = math.Max(0, math.Min(1, v.Amount))
	return v
}

// Thrust is the force e produces when the body is oriented by q. A body
// without an engine produces none.
func Thrust(q mgl64.Quat, e *Engine) mgl64.Vec3 {
	if e == nil {
		return mgl64.Vec3{}
	}
	mag := Magnitude(e.Throttle, e.MaxThrust)
	if mag == 0 {
		return mgl64.Vec3{}
	}
	return q.Normalize().Rotate(Forward).Mul(mag)
}

// Turn rotates q about +Z by rate·π·dt radians. rate is the resolved steering
// input in [-1,1]; positive turns counter-clockwise.
func Turn(q mgl64.Quat, rate, dt float64) mgl64.Quat {
	if rate == 0 || dt == 0 {
		return q
	}
	r := mgl64.QuatRotate(rate*math.Pi*dt, mgl64.Vec3{0, 0, 1})
	return r.Mul(q).Normalize()
}
