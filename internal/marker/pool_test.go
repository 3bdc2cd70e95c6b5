package marker

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpawner struct {
	next      uint32
	live      map[ecs.EntityID]mgl64.Vec3
	spawned   int
	despawned []ecs.EntityID
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{live: make(map[ecs.EntityID]mgl64.Vec3)}
}

func (f *fakeSpawner) SpawnMarker() ecs.EntityID {
	f.next++
	id := ecs.NewEntityID(f.next, 1)
	f.live[id] = mgl64.Vec3{}
	f.spawned++
	return id
}

func (f *fakeSpawner) DespawnMarker(id ecs.EntityID) {
	delete(f.live, id)
	f.despawned = append(f.despawned, id)
}

func (f *fakeSpawner) MoveMarker(id ecs.EntityID, pos mgl64.Vec3) {
	if _, ok := f.live[id]; !ok {
		panic("move of dead marker " + id.String())
	}
	f.live[id] = pos
}

func points(n int, offset float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, n)
	for i := range out {
		out[i] = mgl64.Vec3{float64(i) + offset, -float64(i), 0}
	}
	return out
}

func TestReconcile_GrowFromEmpty(t *testing.T) {
	fs := newFakeSpawner()
	pool := NewPool(fs)

	d := pool.Reconcile(points(15, 0))
	assert.Equal(t, Delta{Created: 15}, d)
	assert.Equal(t, 15, pool.Len())
	assert.Len(t, fs.live, 15)
}

func TestReconcile_ShrinkFromTail(t *testing.T) {
	fs := newFakeSpawner()
	pool := NewPool(fs)
	pool.Reconcile(points(10, 0))
	before := append([]ecs.EntityID(nil), pool.handles...)

	d := pool.Reconcile(points(4, 0))
	assert.Equal(t, Delta{Destroyed: 6}, d)
	assert.Equal(t, before[:4], pool.handles, "survivors keep their slots")
	assert.ElementsMatch(t, before[4:], fs.despawned)
	assert.Len(t, fs.live, 4)
}

func TestReconcile_SteadyStateIsNoop(t *testing.T) {
	fs := newFakeSpawner()
	pool := NewPool(fs)
	pool.Reconcile(points(6, 0))

	d := pool.Reconcile(points(6, 100))
	assert.False(t, d.Changed())
	assert.Equal(t, 6, fs.spawned)
	assert.Empty(t, fs.despawned)
}

func TestReconcile_AssignsInEmissionOrder(t *testing.T) {
	fs := newFakeSpawner()
	pool := NewPool(fs)

	for _, n := range []int{3, 9, 2, 7} {
		pts := points(n, float64(n))
		pool.Reconcile(pts)

		handles := pool.handles
		require.Len(t, handles, n)
		for k, id := range handles {
			assert.Equal(t, pts[k], fs.live[id], "marker %d after reconcile to %d", k, n)
		}
	}
}

func TestClear(t *testing.T) {
	fs := newFakeSpawner()
	pool := NewPool(fs)
	pool.Reconcile(points(5, 0))

	d := pool.Clear()
	assert.Equal(t, Delta{Destroyed: 5}, d)
	assert.Zero(t, pool.Len())
	assert.Empty(t, fs.live)
}
