package system

import "time"

// Clock converts wall tick durations into simulated seconds and tracks the
// simulated time covered so far. PhysicsSystem is the only caller of
// Advance.
type Clock struct {
	Scale   float64 // simulated seconds per wall second
	elapsed float64
}

func NewClock(scale float64) *Clock {
	return &Clock{Scale: scale}
}

// Step is the simulated length of a wall tick of dt.
func (c *Clock) Step(dt time.Duration) float64 {
	return dt.Seconds() * c.Scale
}

func (c *Clock) Advance(sdt float64) { c.elapsed += sdt }

// Elapsed is the simulated time in seconds.
func (c *Clock) Elapsed() float64 { return c.elapsed }
