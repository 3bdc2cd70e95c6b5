// Package marker keeps a pool of fungible visual markers in step with the
// projected trajectory points.
package marker

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/core/ecs"
)

// Spawner creates, removes and positions marker entities. The world state
// implements it; rendering reads the resulting Marker components.
type Spawner interface {
	SpawnMarker() ecs.EntityID
	DespawnMarker(id ecs.EntityID)
	MoveMarker(id ecs.EntityID, pos mgl64.Vec3)
}

// Delta is the count change produced by one reconcile.
type Delta struct {
	Created   int
	Destroyed int
}

func (d Delta) Changed() bool { return d.Created != 0 || d.Destroyed != 0 }

// Pool holds marker handles in the order points are assigned to them.
type Pool struct {
	spawner Spawner
	handles []ecs.EntityID
}

func NewPool(s Spawner) *Pool {
	return &Pool{spawner: s}
}

// Len is the current pool size.
func (p *Pool) Len() int { return len(p.handles) }

// Reconcile grows or shrinks the pool to len(points), then moves marker k to
// points[k]. Surplus markers are taken from the tail so surviving markers
// keep their slots.
func (p *Pool) Reconcile(points []mgl64.Vec3) Delta {
	var d Delta
	n := len(points)

	for len(p.handles) > n {
		last := len(p.handles) - 1
		p.spawner.DespawnMarker(p.handles[last])
		p.handles = p.handles[:last]
		d.Destroyed++
	}
	for len(p.handles) < n {
		p.handles = append(p.handles, p.spawner.SpawnMarker())
		d.Created++
	}

	for k, pos := range points {
		p.spawner.MoveMarker(p.handles[k], pos)
	}
	return d
}

// Clear despawns every marker. Used at shutdown.
func (p *Pool) Clear() Delta {
	return p.Reconcile(nil)
}
