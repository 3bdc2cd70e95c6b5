package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

// G is the gravitational constant in SI units.
const G = 6.67430e-11

// DefaultMinDistance is the separation below which the inverse-square term
// stops growing.
const DefaultMinDistance = 1.0

// Gravity evaluates pairwise Newtonian attraction.
type Gravity struct {
	G float64
	// MinDistance floors the distance used in the magnitude term. Direction
	// still comes from the true separation; pairs at exactly the same
	// position have no direction and contribute nothing.
	MinDistance float64
}

func DefaultGravity() Gravity {
	return Gravity{G: G, MinDistance: DefaultMinDistance}
}

// ForcePass is the result of one evaluation over a body set.
type ForcePass struct {
	Forces     []mgl64.Vec3 // index-aligned with the input bodies
	Coincident int          // pairs skipped because they shared a position
}

// PairForce returns the force on a due to b. ok is false when the two share a
// position and no direction exists.
func (g Gravity) PairForce(a, b *Body) (f mgl64.Vec3, ok bool) {
	d := b.Position.Sub(a.Position)
	r := d.Len()
	if r == 0 {
		return mgl64.Vec3{}, false
	}
	re := math.Max(r, g.MinDistance)
	mag := g.G * a.Mass * b.Mass / (re * re)
	return d.Mul(mag / r), true
}

// Accumulate sums gravity on every body. Each unordered pair is evaluated
// once; body j receives the exact negation of what body i receives.
func (g Gravity) Accumulate(bodies []Body) ForcePass {
	pass := ForcePass{Forces: make([]mgl64.Vec3, len(bodies))}
	for i := range bodies {
		pass.Coincident += g.accumulateRow(bodies, i, pass.Forces)
	}
	return pass
}

// AccumulateParallel splits rows across workers. Every worker writes into
// its own buffer; buffers are summed in worker order once all are done, so
// repeated calls with the same worker count give identical results.
func (g Gravity) AccumulateParallel(bodies []Body, workers int) ForcePass {
	n := len(bodies)
	if workers > n-1 {
		workers = n - 1
	}
	if workers <= 1 {
		return g.Accumulate(bodies)
	}

	partial := make([][]mgl64.Vec3, workers)
	skipped := make([]int, workers)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		partial[w] = make([]mgl64.Vec3, n)
		eg.Go(func() error {
			// strided rows keep the triangular workload balanced
			for i := w; i < n; i += workers {
				skipped[w] += g.accumulateRow(bodies, i, partial[w])
			}
			return nil
		})
	}
	_ = eg.Wait() // workers never return an error

	pass := ForcePass{Forces: make([]mgl64.Vec3, n)}
	for w := range partial {
		for i, f := range partial[w] {
			pass.Forces[i] = pass.Forces[i].Add(f)
		}
		pass.Coincident += skipped[w]
	}
	return pass
}

func (g Gravity) accumulateRow(bodies []Body, i int, forces []mgl64.Vec3) int {
	skipped := 0
	for j := i + 1; j < len(bodies); j++ {
		f, ok := g.PairForce(&bodies[i], &bodies[j])
		if !ok {
			skipped++
			continue
		}
		forces[i] = forces[i].Add(f)
		forces[j] = forces[j].Sub(f)
	}
	return skipped
}
